package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	contractx "github.com/yolearn/tutor-dialogue/agent/contract"
	nodex "github.com/yolearn/tutor-dialogue/agent/nodes"
	profilex "github.com/yolearn/tutor-dialogue/agent/profile"
	statex "github.com/yolearn/tutor-dialogue/agent/state"
)

type Config struct {
	SessionID     string
	RoutingWindow int
}

// Orchestrator ties the selector and the persona responders into one
// per-session turn cycle. Each session owns its orchestrator, its
// responders, and its routing log exclusively; turns within a session
// must be serialized by the caller.
type Orchestrator struct {
	registry contractx.Registry
	profile  profilex.StudentProfile
	routes   *statex.RoutingLog

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]

	sessionID string
}

func New(registry contractx.Registry, prof profilex.StudentProfile, cfg Config) (*Orchestrator, error) {
	if registry == nil {
		return nil, errors.New("agent registry is required")
	}

	sessionID := strings.TrimSpace(cfg.SessionID)
	if sessionID == "" {
		sessionID = "local-session"
	}

	o := &Orchestrator{
		registry:  registry,
		profile:   prof,
		routes:    statex.NewRoutingLog(cfg.RoutingWindow),
		sessionID: sessionID,
	}

	graphRunner, err := o.compileHandleTurnGraph(context.Background())
	if err != nil {
		return nil, err
	}
	o.graphRunner = graphRunner

	return o, nil
}

// HandleTurn routes the input to one persona and returns its buffered
// reply. The routing record is appended only after the reply is fully
// produced; a generation failure records nothing.
func (o *Orchestrator) HandleTurn(ctx context.Context, input string) (string, error) {
	out, err := o.graphRunner.Invoke(ctx, nodex.GraphInput{Input: input})
	if err != nil {
		return "", err
	}

	log.Debug().
		Str("session_id", o.sessionID).
		Str("persona", string(out.Persona)).
		Msg("turn handled")
	return out.Reply, nil
}

// HandleTurnStream routes the input and forwards the chosen persona's
// fragment stream. The routing record is appended once the stream is
// exhausted; an abandoned or failed stream records nothing.
func (o *Orchestrator) HandleTurnStream(ctx context.Context, input string) (*schema.StreamReader[string], error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nodex.ErrInvalidInput
	}

	decision := o.registry.Selector().Select(ctx, input, o.profile, o.routes.Recent())
	responder, ok := o.registry.Responder(decision.SelectedAgent)
	if !ok {
		return nil, fmt.Errorf("%w: no responder for persona %q", contractx.ErrValidation, string(decision.SelectedAgent))
	}

	src, err := responder.RespondStream(ctx, input)
	if err != nil {
		return nil, err
	}

	sr, sw := schema.Pipe[string](8)
	go o.relay(input, decision, src, sw)
	return sr, nil
}

// SessionID identifies this orchestrator's session.
func (o *Orchestrator) SessionID() string {
	return o.sessionID
}

// RecentRoutes exposes the rolling routing context.
func (o *Orchestrator) RecentRoutes() []contractx.RoutingRecord {
	return o.routes.Recent()
}

func (o *Orchestrator) relay(
	input string,
	decision contractx.RoutingDecision,
	src *schema.StreamReader[string],
	sw *schema.StreamWriter[string],
) {
	defer src.Close()
	defer sw.Close()

	for {
		chunk, err := src.Recv()
		if errors.Is(err, io.EOF) {
			o.routes.Append(contractx.RoutingRecord{
				Input:         input,
				SelectedAgent: decision.SelectedAgent,
				Reason:        decision.Reason,
			})
			return
		}
		if err != nil {
			sw.Send("", err)
			return
		}
		if closed := sw.Send(chunk, nil); closed {
			return
		}
	}
}
