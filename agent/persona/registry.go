package persona

import (
	"fmt"

	contractx "github.com/yolearn/tutor-dialogue/agent/contract"
	promptx "github.com/yolearn/tutor-dialogue/agent/prompt"
)

// Descriptor is the immutable definition of one responder persona.
// Instructions seed the persona's system prompt; Capabilities is the
// one-line summary shown to the selection model.
type Descriptor struct {
	ID           contractx.AgentType
	DisplayName  string
	Instructions string
	Capabilities string
}

// descriptors is the fixed catalog, in stable prompt order. There is no
// runtime registration: the persona set is closed at compile time.
var descriptors = buildDescriptors()

func buildDescriptors() []Descriptor {
	prompts := promptx.LoadPromptSet()
	return []Descriptor{
		{
			ID:           contractx.AgentTypeMotivation,
			DisplayName:  "Motivation Agent",
			Instructions: prompts.Motivation,
			Capabilities: "Emotional support, encouragement, focus, and motivation strategies",
		},
		{
			ID:           contractx.AgentTypeMathsScience,
			DisplayName:  "Maths and Science Tutor Agent",
			Instructions: prompts.MathsScience,
			Capabilities: "Mathematics, physics, chemistry, and biology with step-by-step problem solving",
		},
		{
			ID:           contractx.AgentTypeLanguageSocial,
			DisplayName:  "Language and Social Studies Agent",
			Instructions: prompts.LanguageSocial,
			Capabilities: "Language arts, writing, grammar, history, and social sciences",
		},
	}
}

// DescribeAll returns the catalog in stable order. Callers must not
// mutate the returned descriptors.
func DescribeAll() []Descriptor {
	out := make([]Descriptor, len(descriptors))
	copy(out, descriptors)
	return out
}

// Resolve returns the descriptor for id.
func Resolve(id contractx.AgentType) (Descriptor, error) {
	for _, d := range descriptors {
		if d.ID == id {
			return d, nil
		}
	}
	return Descriptor{}, fmt.Errorf("%w: %q", contractx.ErrUnknownPersona, string(id))
}

// IsValid reports whether id names a registered persona.
func IsValid(id contractx.AgentType) bool {
	_, err := Resolve(id)
	return err == nil
}
