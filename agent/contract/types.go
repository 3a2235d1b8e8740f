package contract

// AgentType identifies one of the fixed conversational roles in the
// tutoring platform. The three persona types answer students directly;
// the router only classifies which persona should take the turn.
type AgentType string

const (
	AgentTypeRouter         AgentType = "router"
	AgentTypeMotivation     AgentType = "motivation"
	AgentTypeMathsScience   AgentType = "maths_science"
	AgentTypeLanguageSocial AgentType = "language_social"
)

// FallbackPersona handles the turn whenever routing cannot produce a
// usable decision. A tutoring session must always get some response.
const FallbackPersona = AgentTypeMotivation

// RoutingDecision is the outcome of one classification call.
// SelectedAgent is always a valid persona id; invalid model output is
// replaced by the fallback before a decision leaves the router.
type RoutingDecision struct {
	SelectedAgent AgentType `json:"selected_agent"`
	Reason        string    `json:"reason"`
}

// RoutingRecord is one entry of the orchestrator's rolling routing
// context. It exists only to inform future routing decisions.
type RoutingRecord struct {
	Input         string    `json:"input"`
	SelectedAgent AgentType `json:"selected_agent"`
	Reason        string    `json:"reason"`
}
