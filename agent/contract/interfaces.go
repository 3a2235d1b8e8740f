package contract

import (
	"context"
	"io"

	"github.com/cloudwego/eino/schema"

	profilex "github.com/yolearn/tutor-dialogue/agent/profile"
)

// Selector picks exactly one persona per turn. It never fails: any
// classification error collapses into a fallback decision.
type Selector interface {
	Select(ctx context.Context, input string, profile profilex.StudentProfile, records []RoutingRecord) RoutingDecision
}

// Responder is one persona's stateful conversational agent.
//
// RespondStream yields the reply as a lazy, finite sequence of text
// fragments; their concatenation equals the buffered reply for the same
// model output. Both modes append the exchange to the persona's history
// only once the full reply is known.
type Responder interface {
	Respond(ctx context.Context, input string) (string, error)
	RespondStream(ctx context.Context, input string) (*schema.StreamReader[string], error)
}

// Registry holds one session's selector and its persona responders.
type Registry interface {
	Selector() Selector
	Responder(id AgentType) (Responder, bool)
}

// Transcriber converts recorded audio into text. The dialogue core only
// ever sees the resulting text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error)
}

// Synthesizer converts reply text into an audio stream for delivery.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (io.ReadCloser, error)
}
