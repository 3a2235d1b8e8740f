package orchestratornode

import (
	"context"
	"fmt"

	contractx "github.com/yolearn/tutor-dialogue/agent/contract"
	profilex "github.com/yolearn/tutor-dialogue/agent/profile"
)

func SelectPersona(
	ctx context.Context,
	in *GraphState,
	selector contractx.Selector,
	prof profilex.StudentProfile,
	records []contractx.RoutingRecord,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	in.Decision = selector.Select(ctx, in.Input, prof, records)
	return in, nil
}
