package orchestratornode

import (
	"fmt"

	contractx "github.com/yolearn/tutor-dialogue/agent/contract"
)

// RecordRoute appends the turn's routing decision to the session's
// rolling context. It runs only after the reply is fully produced, so a
// failed turn leaves no record behind.
func RecordRoute(in *GraphState, record func(contractx.RoutingRecord)) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	record(contractx.RoutingRecord{
		Input:         in.Input,
		SelectedAgent: in.Decision.SelectedAgent,
		Reason:        in.Decision.Reason,
	})
	return in, nil
}
