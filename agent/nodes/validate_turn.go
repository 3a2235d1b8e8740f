package orchestratornode

import (
	"errors"
	"strings"

	contractx "github.com/yolearn/tutor-dialogue/agent/contract"
)

var ErrInvalidInput = errors.New("input is empty")

type GraphInput struct {
	Input string
}

type GraphOutput struct {
	Reply   string
	Persona contractx.AgentType
}

type GraphState struct {
	Input    string
	Decision contractx.RoutingDecision
	Reply    string
}

func ValidateTurn(in GraphInput) (*GraphState, error) {
	input := strings.TrimSpace(in.Input)
	if input == "" {
		return nil, ErrInvalidInput
	}

	return &GraphState{Input: input}, nil
}
