package orchestratornode

import (
	"context"
	"fmt"

	contractx "github.com/yolearn/tutor-dialogue/agent/contract"
)

func DispatchTutor(
	ctx context.Context,
	in *GraphState,
	registry contractx.Registry,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	responder, ok := registry.Responder(in.Decision.SelectedAgent)
	if !ok {
		// The selector guarantees a registered persona; a miss here is
		// a wiring bug, not a routing failure.
		return nil, fmt.Errorf("%w: no responder for persona %q", contractx.ErrValidation, string(in.Decision.SelectedAgent))
	}

	reply, err := responder.Respond(ctx, in.Input)
	if err != nil {
		return nil, err
	}

	in.Reply = reply
	return in, nil
}
