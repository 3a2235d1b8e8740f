package agents

import (
	"context"
	"fmt"

	routerx "github.com/yolearn/tutor-dialogue/agent/agents/router"
	tutorx "github.com/yolearn/tutor-dialogue/agent/agents/tutor"
	contractx "github.com/yolearn/tutor-dialogue/agent/contract"
	llmx "github.com/yolearn/tutor-dialogue/agent/llm"
	personax "github.com/yolearn/tutor-dialogue/agent/persona"
	profilex "github.com/yolearn/tutor-dialogue/agent/profile"
)

type registryImpl struct {
	selector   contractx.Selector
	responders map[contractx.AgentType]contractx.Responder
}

func (r *registryImpl) Selector() contractx.Selector {
	return r.selector
}

func (r *registryImpl) Responder(id contractx.AgentType) (contractx.Responder, bool) {
	responder, ok := r.responders[id]
	return responder, ok
}

// NewRegistry builds one session's selector and persona responders.
// Every persona gets its own tutor instance sharing the session's
// student profile, so histories stay disjoint per persona and per
// session.
func NewRegistry(ctx context.Context, cfg llmx.Config, prof profilex.StudentProfile) (contractx.Registry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	routerModelCfg := cfg.GroqFor(contractx.AgentTypeRouter)
	routerModel, err := routerModelCfg.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: create router model: %v", contractx.ErrGeneration, err)
	}

	responders := make(map[contractx.AgentType]contractx.Responder)
	for _, desc := range personax.DescribeAll() {
		personaModelCfg := cfg.GroqFor(desc.ID)
		personaModel, err := personaModelCfg.New(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: create %s model: %v", contractx.ErrGeneration, desc.ID, err)
		}
		responders[desc.ID] = tutorx.New(desc, prof, personaModel)
	}

	return &registryImpl{
		selector:   routerx.New(routerModel),
		responders: responders,
	}, nil
}
