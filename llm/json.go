package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"clementus360/focusflow/types"
)

var (
	codeBlockRegex     = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")
	trailingCommaRegex = regexp.MustCompile(`,\s*([}\]])`)
	unquotedKeyRegex   = regexp.MustCompile(`([{,]\s*)([a-zA-Z_][a-zA-Z0-9_]*)\s*:`)
)

// extractJSON pulls the first usable JSON object out of model output, trying
// progressively more forgiving strategies.
func extractJSON(text string) (string, bool) {
	strategies := []func(string) (string, bool){
		extractCompleteJSON,
		extractJSONFromCodeBlock,
		extractJSONFromBraces,
		extractJSONWithRepair,
	}
	for _, strategy := range strategies {
		if s, ok := strategy(text); ok {
			return s, true
		}
	}
	return "", false
}

// Strategy 1: the whole text is JSON
func extractCompleteJSON(text string) (string, bool) {
	cleaned := strings.TrimSpace(text)
	if json.Valid([]byte(cleaned)) && strings.HasPrefix(cleaned, "{") {
		return cleaned, true
	}
	return "", false
}

// Strategy 2: ```json fenced block
func extractJSONFromCodeBlock(text string) (string, bool) {
	matches := codeBlockRegex.FindStringSubmatch(text)
	if len(matches) > 1 {
		candidate := strings.TrimSpace(matches[1])
		if json.Valid([]byte(candidate)) {
			return candidate, true
		}
	}
	return "", false
}

// Strategy 3: first balanced {...} object in prose
func extractJSONFromBraces(text string) (string, bool) {
	start := strings.Index(text, "{")
	for start != -1 {
		if end := balancedEnd(text, start); end != -1 {
			candidate := text[start : end+1]
			if json.Valid([]byte(candidate)) {
				return candidate, true
			}
		}
		next := strings.Index(text[start+1:], "{")
		if next == -1 {
			break
		}
		start += next + 1
	}
	return "", false
}

// Strategy 4: repair trailing commas, unquoted keys and unclosed brackets
func extractJSONWithRepair(text string) (string, bool) {
	start := strings.Index(text, "{")
	if start == -1 {
		return "", false
	}
	fixed := repairMalformedJSON(text[start:])
	if end := balancedEnd(fixed, 0); end != -1 {
		fixed = fixed[:end+1]
	}
	if json.Valid([]byte(fixed)) {
		return fixed, true
	}
	return "", false
}

func repairMalformedJSON(text string) string {
	text = trailingCommaRegex.ReplaceAllString(text, "$1")
	text = unquotedKeyRegex.ReplaceAllString(text, `$1"$2":`)

	if open := strings.Count(text, "[") - strings.Count(text, "]"); open > 0 {
		text += strings.Repeat("]", open)
	}
	if open := strings.Count(text, "{") - strings.Count(text, "}"); open > 0 {
		text += strings.Repeat("}", open)
	}
	return text
}

// balancedEnd returns the index of the brace closing the one at start,
// ignoring braces inside strings, or -1.
func balancedEnd(text string, start int) int {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if escaped {
			escaped = false
			continue
		}
		if c == '\\' {
			escaped = true
			continue
		}
		if c == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}
		switch c {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// parseBreakdown decodes and validates a breakdown from model output.
func parseBreakdown(text string) (types.BreakdownResponse, error) {
	jsonStr, found := extractJSON(text)
	if !found {
		return types.BreakdownResponse{}, fmt.Errorf("no valid JSON found in response")
	}
	var out types.BreakdownResponse
	if err := json.Unmarshal([]byte(jsonStr), &out); err != nil {
		return types.BreakdownResponse{}, fmt.Errorf("decode breakdown: %w", err)
	}
	if err := validateBreakdown(out); err != nil {
		return types.BreakdownResponse{}, err
	}
	return out, nil
}

func validateBreakdown(b types.BreakdownResponse) error {
	if len(b.Subtasks) == 0 {
		return fmt.Errorf("breakdown has no subtasks")
	}
	for i, s := range b.Subtasks {
		if strings.TrimSpace(s.Title) == "" {
			return fmt.Errorf("subtask %d has empty title", i)
		}
		if s.EstimatedMinutes < 0 {
			return fmt.Errorf("subtask %d has negative estimate", i)
		}
	}
	return nil
}
