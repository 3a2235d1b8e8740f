package router

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	contractx "github.com/yolearn/tutor-dialogue/agent/contract"
	personax "github.com/yolearn/tutor-dialogue/agent/persona"
	profilex "github.com/yolearn/tutor-dialogue/agent/profile"
)

// Router picks exactly one persona per turn with a single buffered
// classification call. It is a best-effort shot: no re-querying, no
// confidence thresholding. Any failure collapses into the fallback
// persona so the session always gets a responder.
type Router struct {
	chatModel einomodel.BaseChatModel
	fallback  contractx.AgentType
}

var _ contractx.Selector = (*Router)(nil)

func New(chatModel einomodel.BaseChatModel) *Router {
	return &Router{
		chatModel: chatModel,
		fallback:  contractx.FallbackPersona,
	}
}

// Select classifies the input against the persona catalog. Routing
// failures are invisible to the caller: the returned decision always
// names a registered persona.
func (r *Router) Select(
	ctx context.Context,
	input string,
	prof profilex.StudentProfile,
	records []contractx.RoutingRecord,
) contractx.RoutingDecision {
	decision, err := r.classify(ctx, input, prof, records)
	if err != nil {
		log.Warn().
			Err(err).
			Str("fallback", string(r.fallback)).
			Msg("agent selection failed, using fallback persona")
		return contractx.RoutingDecision{
			SelectedAgent: r.fallback,
			Reason:        "selection failed, routed to fallback persona",
		}
	}

	log.Debug().
		Str("selected_agent", string(decision.SelectedAgent)).
		Str("reason", decision.Reason).
		Msg("agent selected")
	return decision
}

func (r *Router) classify(
	ctx context.Context,
	input string,
	prof profilex.StudentProfile,
	records []contractx.RoutingRecord,
) (contractx.RoutingDecision, error) {
	msgs := []*schema.Message{
		schema.SystemMessage(buildSelectionPrompt(input, prof, records)),
		schema.UserMessage(input),
	}

	msg, err := r.chatModel.Generate(ctx, msgs)
	if err != nil {
		return contractx.RoutingDecision{}, fmt.Errorf("%w: selection invoke: %v", contractx.ErrGeneration, err)
	}
	if msg == nil {
		return contractx.RoutingDecision{}, fmt.Errorf("%w: empty selection response", contractx.ErrRoutingFormat)
	}

	return parseDecision(msg.Content)
}

// parseDecision validates the model's selection output step by step:
// malformed JSON, then non-object or missing field, then unknown
// persona id. Every failure funnels into the same fallback path.
func parseDecision(raw string) (contractx.RoutingDecision, error) {
	var parsed any
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &parsed); err != nil {
		return contractx.RoutingDecision{}, fmt.Errorf("%w: %v", contractx.ErrRoutingParse, err)
	}

	obj, ok := parsed.(map[string]any)
	if !ok {
		return contractx.RoutingDecision{}, fmt.Errorf("%w: selection response is not a json object", contractx.ErrRoutingFormat)
	}

	selected, ok := obj["selected_agent"].(string)
	if !ok || strings.TrimSpace(selected) == "" {
		return contractx.RoutingDecision{}, fmt.Errorf("%w: selected_agent is missing", contractx.ErrRoutingFormat)
	}

	id := contractx.AgentType(strings.TrimSpace(selected))
	if !personax.IsValid(id) {
		return contractx.RoutingDecision{}, fmt.Errorf("%w: %q", contractx.ErrUnknownPersona, string(id))
	}

	reason, _ := obj["reason"].(string)
	return contractx.RoutingDecision{
		SelectedAgent: id,
		Reason:        reason,
	}, nil
}
