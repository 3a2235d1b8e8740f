package llm

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/yolearn/tutor-dialogue/agent/contract"
	groqx "github.com/yolearn/tutor-dialogue/pkg/groq"
)

// defaultRouterTemperature is deliberately lower than conversation
// generation: routing decisions should be stable and repeatable, not
// creative.
const defaultRouterTemperature = 0.3

// Config is the model configuration for all agent roles. The base
// Model/Temperature apply to every role unless a per-role override is
// set; override temperatures default to -1 meaning "unset".
type Config struct {
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true" default:"https://api.groq.com/openai/v1"`
	APIKey             string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	Model              string        `envconfig:"MODEL" split_words:"true" default:"llama-3.3-70b-versatile"`
	MaxCompletionToken int           `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"2000"`
	Temperature        float32       `envconfig:"TEMPERATURE" split_words:"true" default:"0.7"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`

	RouterModel               string  `envconfig:"ROUTER_MODEL" split_words:"true"`
	MotivationModel           string  `envconfig:"MOTIVATION_MODEL" split_words:"true"`
	MathsScienceModel         string  `envconfig:"MATHS_SCIENCE_MODEL" split_words:"true"`
	LanguageSocialModel       string  `envconfig:"LANGUAGE_SOCIAL_MODEL" split_words:"true"`
	RouterTemperature         float32 `envconfig:"ROUTER_TEMPERATURE" split_words:"true" default:"-1"`
	MotivationTemperature     float32 `envconfig:"MOTIVATION_TEMPERATURE" split_words:"true" default:"-1"`
	MathsScienceTemperature   float32 `envconfig:"MATHS_SCIENCE_TEMPERATURE" split_words:"true" default:"-1"`
	LanguageSocialTemperature float32 `envconfig:"LANGUAGE_SOCIAL_TEMPERATURE" split_words:"true" default:"-1"`
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: groq api key is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: default model is required", contractx.ErrValidation)
	}
	return nil
}

// GroqFor resolves the provider configuration for one agent role,
// applying per-role model and temperature overrides.
func (c Config) GroqFor(agentType contractx.AgentType) groqx.Config {
	modelName := strings.TrimSpace(c.Model)
	temp := c.Temperature

	switch agentType {
	case contractx.AgentTypeRouter:
		if v := strings.TrimSpace(c.RouterModel); v != "" {
			modelName = v
		}
		if c.RouterTemperature >= 0 {
			temp = c.RouterTemperature
		} else {
			temp = defaultRouterTemperature
		}
	case contractx.AgentTypeMotivation:
		if v := strings.TrimSpace(c.MotivationModel); v != "" {
			modelName = v
		}
		if c.MotivationTemperature >= 0 {
			temp = c.MotivationTemperature
		}
	case contractx.AgentTypeMathsScience:
		if v := strings.TrimSpace(c.MathsScienceModel); v != "" {
			modelName = v
		}
		if c.MathsScienceTemperature >= 0 {
			temp = c.MathsScienceTemperature
		}
	case contractx.AgentTypeLanguageSocial:
		if v := strings.TrimSpace(c.LanguageSocialModel); v != "" {
			modelName = v
		}
		if c.LanguageSocialTemperature >= 0 {
			temp = c.LanguageSocialTemperature
		}
	}

	maxCompletionToken := c.MaxCompletionToken
	return groqx.Config{
		BaseURL:            strings.TrimSpace(c.BaseURL),
		APIKey:             strings.TrimSpace(c.APIKey),
		Model:              modelName,
		MaxCompletionToken: &maxCompletionToken,
		Temperature:        temp,
		Timeout:            c.Timeout,
	}
}
