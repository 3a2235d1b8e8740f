package tutor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	contractx "github.com/yolearn/tutor-dialogue/agent/contract"
	personax "github.com/yolearn/tutor-dialogue/agent/persona"
	profilex "github.com/yolearn/tutor-dialogue/agent/profile"
	statex "github.com/yolearn/tutor-dialogue/agent/state"
)

// Tutor is one persona's conversational agent. It owns the persona's
// message history and produces replies consistent with the persona's
// instructions and the student's profile.
type Tutor struct {
	persona   personax.Descriptor
	chatModel einomodel.BaseChatModel
	system    string
	history   *statex.History
}

var _ contractx.Responder = (*Tutor)(nil)

// New builds the tutor for one persona. The student profile is folded
// into the system instruction once; it does not change during the
// session.
func New(desc personax.Descriptor, prof profilex.StudentProfile, chatModel einomodel.BaseChatModel) *Tutor {
	system := desc.Instructions
	if summary := prof.Summary(); summary != "" {
		system += "\n\nStudent Context:\n" + summary
	}

	return &Tutor{
		persona:   desc,
		chatModel: chatModel,
		system:    system,
		history:   statex.NewHistory(),
	}
}

// History exposes the persona's conversation log.
func (t *Tutor) History() *statex.History {
	return t.history
}

// Respond produces the full reply in one call and records the exchange.
func (t *Tutor) Respond(ctx context.Context, input string) (string, error) {
	msg, err := t.chatModel.Generate(ctx, t.buildMessages(input))
	if err != nil {
		return "", fmt.Errorf("%w: %s generate: %v", contractx.ErrGeneration, t.persona.ID, err)
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return "", fmt.Errorf("%w: %s returned an empty reply", contractx.ErrGeneration, t.persona.ID)
	}

	t.history.AppendExchange(input, msg.Content)
	return msg.Content, nil
}

// RespondStream produces the reply as a stream of text fragments. The
// exchange is recorded only after the model stream is fully drained; a
// failure mid-stream, or a consumer that closes the reader early,
// leaves the history untouched.
func (t *Tutor) RespondStream(ctx context.Context, input string) (*schema.StreamReader[string], error) {
	src, err := t.chatModel.Stream(ctx, t.buildMessages(input))
	if err != nil {
		return nil, fmt.Errorf("%w: %s stream: %v", contractx.ErrGeneration, t.persona.ID, err)
	}

	sr, sw := schema.Pipe[string](8)
	go t.pump(input, src, sw)
	return sr, nil
}

func (t *Tutor) buildMessages(input string) []*schema.Message {
	prior := t.history.Messages()
	msgs := make([]*schema.Message, 0, len(prior)+2)
	msgs = append(msgs, schema.SystemMessage(t.system))
	msgs = append(msgs, prior...)
	msgs = append(msgs, schema.UserMessage(input))
	return msgs
}

func (t *Tutor) pump(input string, src *schema.StreamReader[*schema.Message], sw *schema.StreamWriter[string]) {
	defer src.Close()
	defer sw.Close()

	var full strings.Builder
	for {
		msg, err := src.Recv()
		if errors.Is(err, io.EOF) {
			// History mutation happens before the consumer observes
			// EOF, so the next turn always sees the completed exchange.
			t.history.AppendExchange(input, full.String())
			return
		}
		if err != nil {
			log.Warn().Err(err).Str("persona", string(t.persona.ID)).Msg("model stream failed, discarding partial reply")
			sw.Send("", fmt.Errorf("%w: %s stream: %v", contractx.ErrGeneration, t.persona.ID, err))
			return
		}
		if msg == nil || msg.Content == "" {
			continue
		}

		full.WriteString(msg.Content)
		if closed := sw.Send(msg.Content, nil); closed {
			// Consumer abandoned the turn; treat it as failed.
			return
		}
	}
}
