package orchestratornode

import (
	"fmt"
	"strings"

	contractx "github.com/yolearn/tutor-dialogue/agent/contract"
)

func FinalizeReply(in *GraphState) (GraphOutput, error) {
	if in == nil {
		return GraphOutput{}, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	reply := strings.TrimSpace(in.Reply)
	if reply == "" {
		return GraphOutput{}, fmt.Errorf("%w: persona returned empty reply", contractx.ErrValidation)
	}

	return GraphOutput{
		Reply:   reply,
		Persona: in.Decision.SelectedAgent,
	}, nil
}
