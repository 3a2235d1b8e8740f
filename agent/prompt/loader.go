package prompt

import (
	_ "embed"
	"strings"
)

var (
	//go:embed template/motivation.txt
	motivationRaw string

	//go:embed template/maths_science.txt
	mathsScienceRaw string

	//go:embed template/language_social.txt
	languageSocialRaw string

	//go:embed template/router.txt
	routerRaw string
)

// PromptSet holds loaded prompt content.
type PromptSet struct {
	Motivation     string
	MathsScience   string
	LanguageSocial string
	Router         string
}

// LoadPromptSet returns a PromptSet with trimmed prompt strings.
// This is safe to call concurrently; the embed is compile-time, and trimming is cheap.
func LoadPromptSet() PromptSet {
	return PromptSet{
		Motivation:     strings.TrimSpace(motivationRaw),
		MathsScience:   strings.TrimSpace(mathsScienceRaw),
		LanguageSocial: strings.TrimSpace(languageSocialRaw),
		Router:         strings.TrimSpace(routerRaw),
	}
}
