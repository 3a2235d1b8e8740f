package router

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	contractx "github.com/yolearn/tutor-dialogue/agent/contract"
	profilex "github.com/yolearn/tutor-dialogue/agent/profile"
)

type fakeChatModel struct {
	content string
	err     error
	inputs  [][]*schema.Message
}

func (f *fakeChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	f.inputs = append(f.inputs, input)
	if f.err != nil {
		return nil, f.err
	}
	return schema.AssistantMessage(f.content, nil), nil
}

func (f *fakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("selection never streams")
}

func TestSelectPassesValidDecisionThrough(t *testing.T) {
	t.Parallel()

	fake := &fakeChatModel{content: `{"selected_agent": "maths_science", "reason": "x"}`}
	r := New(fake)

	got := r.Select(context.Background(), "help with algebra", nil, nil)
	if got.SelectedAgent != contractx.AgentTypeMathsScience {
		t.Fatalf("SelectedAgent = %s, want maths_science", got.SelectedAgent)
	}
	if got.Reason != "x" {
		t.Fatalf("Reason = %q, want %q", got.Reason, "x")
	}
}

func TestSelectFallsBackOnFailure(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		fake *fakeChatModel
	}{
		{"malformed json", &fakeChatModel{content: "I think maths_science"}},
		{"not an object", &fakeChatModel{content: `["maths_science"]`}},
		{"missing selected_agent", &fakeChatModel{content: `{"reason": "no idea"}`}},
		{"unknown persona", &fakeChatModel{content: `{"selected_agent": "chemistry", "reason": "x"}`}},
		{"router is not a persona", &fakeChatModel{content: `{"selected_agent": "router", "reason": "x"}`}},
		{"model failure", &fakeChatModel{err: errors.New("rate limited")}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := New(tc.fake).Select(context.Background(), "anything", nil, nil)
			if got.SelectedAgent != contractx.FallbackPersona {
				t.Fatalf("SelectedAgent = %s, want fallback %s", got.SelectedAgent, contractx.FallbackPersona)
			}
			if got.Reason == "" {
				t.Fatal("fallback decision has no reason")
			}
		})
	}
}

func TestParseDecisionErrorKinds(t *testing.T) {
	t.Parallel()

	if _, err := parseDecision("not json"); !errors.Is(err, contractx.ErrRoutingParse) {
		t.Fatalf("parseDecision(garbage) error = %v, want ErrRoutingParse", err)
	}
	if _, err := parseDecision(`"just a string"`); !errors.Is(err, contractx.ErrRoutingFormat) {
		t.Fatalf("parseDecision(string) error = %v, want ErrRoutingFormat", err)
	}
	if _, err := parseDecision(`{"reason": "x"}`); !errors.Is(err, contractx.ErrRoutingFormat) {
		t.Fatalf("parseDecision(no agent) error = %v, want ErrRoutingFormat", err)
	}
	if _, err := parseDecision(`{"selected_agent": "nope"}`); !errors.Is(err, contractx.ErrUnknownPersona) {
		t.Fatalf("parseDecision(unknown) error = %v, want ErrUnknownPersona", err)
	}
}

func TestSelectionPromptEmptyContextMarkers(t *testing.T) {
	t.Parallel()

	fake := &fakeChatModel{content: `{"selected_agent": "motivation", "reason": "x"}`}
	New(fake).Select(context.Background(), "hi there", nil, nil)

	if len(fake.inputs) != 1 {
		t.Fatalf("model called %d times, want 1", len(fake.inputs))
	}
	msgs := fake.inputs[0]
	if len(msgs) != 2 || msgs[0].Role != schema.System || msgs[1].Role != schema.User {
		t.Fatalf("unexpected selection messages: %+v", msgs)
	}

	system := msgs[0].Content
	for _, want := range []string{
		"No student profile available",
		"No previous context",
		"maths_science",
		"language_social",
		"motivation",
		"User Query: hi there",
	} {
		if !strings.Contains(system, want) {
			t.Fatalf("selection prompt missing %q:\n%s", want, system)
		}
	}
}

func TestSelectionPromptRendersProfileAndRecords(t *testing.T) {
	t.Parallel()

	fake := &fakeChatModel{content: `{"selected_agent": "motivation", "reason": "x"}`}
	prof := profilex.StudentProfile{"grade": 9}
	records := []contractx.RoutingRecord{
		{Input: "what is osmosis", SelectedAgent: contractx.AgentTypeMathsScience, Reason: "biology question"},
	}

	New(fake).Select(context.Background(), "I give up", prof, records)

	prompt := fake.inputs[0][0].Content
	for _, want := range []string{
		"Grade: 9",
		"User: what is osmosis",
		"Assistant: Selected maths_science: biology question",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("selection prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestSelectionPromptClampsContextWindow(t *testing.T) {
	t.Parallel()

	fake := &fakeChatModel{content: `{"selected_agent": "motivation", "reason": "x"}`}
	records := make([]contractx.RoutingRecord, 0, 10)
	for i := 0; i < 10; i++ {
		records = append(records, contractx.RoutingRecord{
			Input:         fmt.Sprintf("question %d", i),
			SelectedAgent: contractx.AgentTypeMotivation,
			Reason:        "r",
		})
	}

	New(fake).Select(context.Background(), "one more", nil, records)

	prompt := fake.inputs[0][0].Content
	for i := 0; i < 6; i++ {
		if strings.Contains(prompt, fmt.Sprintf("question %d", i)) {
			t.Fatalf("selection prompt kept stale record %d:\n%s", i, prompt)
		}
	}
	for i := 6; i < 10; i++ {
		if !strings.Contains(prompt, fmt.Sprintf("question %d", i)) {
			t.Fatalf("selection prompt missing recent record %d:\n%s", i, prompt)
		}
	}
}
