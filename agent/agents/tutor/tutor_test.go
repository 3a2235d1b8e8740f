package tutor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	contractx "github.com/yolearn/tutor-dialogue/agent/contract"
	personax "github.com/yolearn/tutor-dialogue/agent/persona"
	profilex "github.com/yolearn/tutor-dialogue/agent/profile"
)

type fakeChatModel struct {
	reply     string
	fragments []string
	err       error
	failAfter int // in stream mode, fail after this many fragments (0 = never)
	inputs    [][]*schema.Message

	// When set, the stream source is unbuffered and done is closed once
	// the sender goroutine exits, so tests can wait for the turn to
	// settle after abandoning the reader.
	done chan struct{}
}

func (f *fakeChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	f.inputs = append(f.inputs, input)
	if f.err != nil {
		return nil, f.err
	}
	return schema.AssistantMessage(f.reply, nil), nil
}

func (f *fakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	f.inputs = append(f.inputs, input)
	if f.err != nil {
		return nil, f.err
	}

	size := len(f.fragments) + 1
	if f.done != nil {
		size = 0
	}
	sr, sw := schema.Pipe[*schema.Message](size)
	go func() {
		if f.done != nil {
			defer close(f.done)
		}
		defer sw.Close()
		for i, frag := range f.fragments {
			if f.failAfter > 0 && i == f.failAfter {
				sw.Send(nil, errors.New("connection reset"))
				return
			}
			if closed := sw.Send(schema.AssistantMessage(frag, nil), nil); closed {
				return
			}
		}
	}()
	return sr, nil
}

func mustDescriptor(t *testing.T, id contractx.AgentType) personax.Descriptor {
	t.Helper()
	desc, err := personax.Resolve(id)
	if err != nil {
		t.Fatalf("Resolve(%s) error = %v", id, err)
	}
	return desc
}

func drain(t *testing.T, sr *schema.StreamReader[string]) (string, error) {
	t.Helper()
	defer sr.Close()

	var b strings.Builder
	for {
		chunk, err := sr.Recv()
		if errors.Is(err, io.EOF) {
			return b.String(), nil
		}
		if err != nil {
			return b.String(), err
		}
		b.WriteString(chunk)
	}
}

func TestRespondAppendsHistoryInOrder(t *testing.T) {
	t.Parallel()

	fake := &fakeChatModel{reply: "Sure, fractions are parts of a whole."}
	tut := New(mustDescriptor(t, contractx.AgentTypeMathsScience), nil, fake)

	reply, err := tut.Respond(context.Background(), "explain fractions")
	if err != nil {
		t.Fatalf("Respond() error = %v", err)
	}
	if reply != fake.reply {
		t.Fatalf("Respond() = %q, want %q", reply, fake.reply)
	}

	msgs := tut.History().Messages()
	if len(msgs) != 2 {
		t.Fatalf("history has %d messages, want 2", len(msgs))
	}
	if msgs[0].Role != schema.User || msgs[0].Content != "explain fractions" {
		t.Fatalf("unexpected user message: %+v", msgs[0])
	}
	if msgs[1].Role != schema.Assistant || msgs[1].Content != fake.reply {
		t.Fatalf("unexpected assistant message: %+v", msgs[1])
	}
}

func TestRespondFailureLeavesHistoryUntouched(t *testing.T) {
	t.Parallel()

	fake := &fakeChatModel{err: errors.New("model unavailable")}
	tut := New(mustDescriptor(t, contractx.AgentTypeMotivation), nil, fake)

	_, err := tut.Respond(context.Background(), "hello")
	if !errors.Is(err, contractx.ErrGeneration) {
		t.Fatalf("Respond() error = %v, want ErrGeneration", err)
	}
	if tut.History().Len() != 0 {
		t.Fatalf("history has %d messages after failure, want 0", tut.History().Len())
	}
}

func TestRespondInjectsProfileAndHistory(t *testing.T) {
	t.Parallel()

	fake := &fakeChatModel{reply: "ok"}
	prof := profilex.StudentProfile{"grade": 8, "subjects": []string{"maths"}}
	tut := New(mustDescriptor(t, contractx.AgentTypeMathsScience), prof, fake)

	if _, err := tut.Respond(context.Background(), "first"); err != nil {
		t.Fatalf("Respond() error = %v", err)
	}
	if _, err := tut.Respond(context.Background(), "second"); err != nil {
		t.Fatalf("Respond() error = %v", err)
	}

	first := fake.inputs[0]
	if first[0].Role != schema.System {
		t.Fatalf("first message role = %s, want system", first[0].Role)
	}
	if !strings.Contains(first[0].Content, "Student Context:") || !strings.Contains(first[0].Content, "Grade: 8") {
		t.Fatalf("system instruction missing student context: %q", first[0].Content)
	}

	second := fake.inputs[1]
	if len(second) != 4 {
		t.Fatalf("second call got %d messages, want system + 2 history + user", len(second))
	}
	if second[1].Content != "first" || second[2].Content != "ok" {
		t.Fatalf("history not replayed in order: %+v", second[1:3])
	}
	if second[3].Role != schema.User || second[3].Content != "second" {
		t.Fatalf("unexpected trailing user message: %+v", second[3])
	}
}

func TestRespondStreamMatchesBuffered(t *testing.T) {
	t.Parallel()

	const full = "Refraction is light bending between materials."
	fragments := []string{"Refraction is ", "light bending ", "between materials."}

	buffered := New(mustDescriptor(t, contractx.AgentTypeMathsScience), nil, &fakeChatModel{reply: full})
	streaming := New(mustDescriptor(t, contractx.AgentTypeMathsScience), nil, &fakeChatModel{fragments: fragments})

	want, err := buffered.Respond(context.Background(), "what is refraction?")
	if err != nil {
		t.Fatalf("Respond() error = %v", err)
	}

	sr, err := streaming.RespondStream(context.Background(), "what is refraction?")
	if err != nil {
		t.Fatalf("RespondStream() error = %v", err)
	}
	got, err := drain(t, sr)
	if err != nil {
		t.Fatalf("stream error = %v", err)
	}

	if got != want {
		t.Fatalf("streamed concat = %q, buffered = %q", got, want)
	}

	msgs := streaming.History().Messages()
	if len(msgs) != 2 {
		t.Fatalf("history has %d messages after stream, want 2", len(msgs))
	}
	if msgs[1].Content != full {
		t.Fatalf("assistant history = %q, want %q", msgs[1].Content, full)
	}
}

func TestRespondStreamMidFailureDiscardsPartial(t *testing.T) {
	t.Parallel()

	fake := &fakeChatModel{
		fragments: []string{"partial ", "reply ", "never finished"},
		failAfter: 2,
	}
	tut := New(mustDescriptor(t, contractx.AgentTypeLanguageSocial), nil, fake)

	sr, err := tut.RespondStream(context.Background(), "tell me about the Mughal Empire")
	if err != nil {
		t.Fatalf("RespondStream() error = %v", err)
	}

	partial, err := drain(t, sr)
	if !errors.Is(err, contractx.ErrGeneration) {
		t.Fatalf("stream error = %v, want ErrGeneration", err)
	}
	if partial == "" {
		t.Fatal("expected some fragments before the failure")
	}
	if tut.History().Len() != 0 {
		t.Fatalf("history has %d messages after mid-stream failure, want 0", tut.History().Len())
	}
}

func TestRespondStreamAbandonedDiscardsTurn(t *testing.T) {
	t.Parallel()

	fragments := make([]string, 32)
	for i := range fragments {
		fragments[i] = fmt.Sprintf("part %d ", i)
	}
	fake := &fakeChatModel{
		fragments: fragments,
		done:      make(chan struct{}),
	}
	tut := New(mustDescriptor(t, contractx.AgentTypeMotivation), nil, fake)

	sr, err := tut.RespondStream(context.Background(), "tell me everything")
	if err != nil {
		t.Fatalf("RespondStream() error = %v", err)
	}

	if _, err := sr.Recv(); err != nil {
		t.Fatalf("first chunk error = %v", err)
	}
	sr.Close()

	<-fake.done
	if got := tut.History().Len(); got != 0 {
		t.Fatalf("history has %d messages after abandoned stream, want 0", got)
	}
}

func TestRespondStreamStartFailure(t *testing.T) {
	t.Parallel()

	fake := &fakeChatModel{err: errors.New("dial timeout")}
	tut := New(mustDescriptor(t, contractx.AgentTypeMotivation), nil, fake)

	if _, err := tut.RespondStream(context.Background(), "hi"); !errors.Is(err, contractx.ErrGeneration) {
		t.Fatalf("RespondStream() error = %v, want ErrGeneration", err)
	}
	if tut.History().Len() != 0 {
		t.Fatalf("history has %d messages, want 0", tut.History().Len())
	}
}
