package imaging

import "strings"

// Target names the consumer an image is prepared for. Each target carries the
// payload ceiling that consumer accepts, measured on the base64 form.
type Target string

const (
	TargetAnthropic Target = "anthropic"
	TargetOpenAI    Target = "openai"
	TargetGemini    Target = "gemini"
	TargetOllama    Target = "ollama"
	TargetDefault   Target = "default"
)

const mb = 1024 * 1024

var targetCeilings = map[Target]int{
	TargetAnthropic: 5 * mb,
	TargetOpenAI:    20 * mb,
	TargetGemini:    20 * mb,
	TargetOllama:    20 * mb,
	TargetDefault:   20 * mb,
}

// ParseTarget maps loose names ("claude", "OpenAI") onto a Target. Unknown
// names resolve to TargetDefault.
func ParseTarget(s string) Target {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "anthropic", "claude":
		return TargetAnthropic
	case "openai", "gpt":
		return TargetOpenAI
	case "gemini", "google":
		return TargetGemini
	case "ollama":
		return TargetOllama
	default:
		return TargetDefault
	}
}

func CeilingFor(t Target) int {
	if c, ok := targetCeilings[t]; ok {
		return c
	}
	return targetCeilings[TargetDefault]
}
