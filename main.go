package main

import (
	"context"

	"github.com/rs/zerolog/log"

	agentsx "github.com/yolearn/tutor-dialogue/agent/agents"
	orchestratorx "github.com/yolearn/tutor-dialogue/agent/agents/orchestrator"
	contractx "github.com/yolearn/tutor-dialogue/agent/contract"
	llmx "github.com/yolearn/tutor-dialogue/agent/llm"
	profilex "github.com/yolearn/tutor-dialogue/agent/profile"
	configx "github.com/yolearn/tutor-dialogue/pkg/config"
	_ "github.com/yolearn/tutor-dialogue/pkg/logger/autoload"
	speechx "github.com/yolearn/tutor-dialogue/pkg/speech"
	serverx "github.com/yolearn/tutor-dialogue/server"
)

func main() {
	llmCfg := configx.MustNew[llmx.Config]("GROQ")
	speechCfg := configx.MustNew[speechx.Config]("OPENAI")
	serverCfg := configx.MustNew[serverx.Config]("SERVER")

	newSession := func(ctx context.Context, sessionID string, prof profilex.StudentProfile) (*orchestratorx.Orchestrator, error) {
		registry, err := agentsx.NewRegistry(ctx, *llmCfg, prof)
		if err != nil {
			return nil, err
		}
		return orchestratorx.New(registry, prof, orchestratorx.Config{SessionID: sessionID})
	}

	var stt contractx.Transcriber
	var tts contractx.Synthesizer
	if client := speechx.NewClient(*speechCfg); client != nil {
		stt, tts = client, client
	} else {
		log.Warn().Msg("speech credentials missing, voice endpoint disabled")
	}

	srv := serverx.New(*serverCfg, newSession, stt, tts)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("http server stopped")
	}
}
