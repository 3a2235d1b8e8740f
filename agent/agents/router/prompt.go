package router

import (
	"fmt"
	"strings"

	contractx "github.com/yolearn/tutor-dialogue/agent/contract"
	personax "github.com/yolearn/tutor-dialogue/agent/persona"
	profilex "github.com/yolearn/tutor-dialogue/agent/profile"
	promptx "github.com/yolearn/tutor-dialogue/agent/prompt"
	statex "github.com/yolearn/tutor-dialogue/agent/state"
)

const (
	noProfileMarker = "No student profile available"
	noContextMarker = "No previous context"
)

// buildSelectionPrompt renders the full classification prompt: the
// persona catalog, the student profile summary, the recent routing
// context, and the raw query.
func buildSelectionPrompt(
	input string,
	prof profilex.StudentProfile,
	records []contractx.RoutingRecord,
) string {
	var b strings.Builder

	b.WriteString(promptx.LoadPromptSet().Router)

	b.WriteString("\n\nAvailable agents:\n")
	for i, d := range personax.DescribeAll() {
		fmt.Fprintf(&b, "%d. %s - %s\n", i+1, d.ID, d.Capabilities)
	}

	b.WriteString("\nStudent Profile:\n")
	if summary := prof.Summary(); summary != "" {
		b.WriteString(summary)
	} else {
		b.WriteString(noProfileMarker)
	}

	b.WriteString("\n\nPrevious Context:\n")
	b.WriteString(renderRecords(records))

	b.WriteString("\n\nUser Query: ")
	b.WriteString(input)

	return b.String()
}

// renderRecords shows the most recent routing decisions as alternating
// User/Assistant lines so the model sees how the conversation has been
// routed so far. The window is clamped here as well, so the prompt
// stays bounded even for callers that hand in an untrimmed log.
func renderRecords(records []contractx.RoutingRecord) string {
	if len(records) == 0 {
		return noContextMarker
	}
	if len(records) > statex.DefaultRoutingWindow {
		records = records[len(records)-statex.DefaultRoutingWindow:]
	}

	lines := make([]string, 0, len(records)*2)
	for _, rec := range records {
		lines = append(lines, "User: "+rec.Input)
		lines = append(lines, fmt.Sprintf("Assistant: Selected %s: %s", rec.SelectedAgent, rec.Reason))
	}
	return strings.Join(lines, "\n")
}
