package llm

import "clementus360/focusflow/types"

const (
	// maxPromptTokens keeps the rendered prompt well inside every provider's window.
	maxPromptTokens = 2000
	minFieldRunes   = 200
)

// EstimateTokens is a rough count: ~4 characters per token.
func EstimateTokens(text string) int {
	return len(text) / 4
}

// TrimRequestForTokens shortens the free-text fields of req, context first,
// until the rendered prompt fits maxTokens.
func TrimRequestForTokens(req types.BreakdownRequest, maxTokens int) types.BreakdownRequest {
	trimmed := req
	for {
		prompt, err := BuildBreakdownPrompt(trimmed)
		if err != nil || EstimateTokens(prompt) <= maxTokens {
			return trimmed
		}
		switch {
		case trimmed.Context != nil && len([]rune(*trimmed.Context)) > minFieldRunes:
			trimmed.Context = halve(*trimmed.Context)
		case trimmed.TaskDescription != nil && len([]rune(*trimmed.TaskDescription)) > minFieldRunes:
			trimmed.TaskDescription = halve(*trimmed.TaskDescription)
		default:
			return trimmed
		}
	}
}

func halve(s string) *string {
	r := []rune(s)
	n := len(r) / 2
	if n < minFieldRunes {
		n = minFieldRunes
	}
	out := string(r[:n])
	return &out
}
