// Package llm turns a built prompt into a schema-valid copy bundle. It holds
// the provider clients, the mock fixture path, and the generation pipeline
// with its single bounded repair attempt.
package llm

import (
	"context"
	"strings"
)

// LLMClient defines the interface for LLM providers.
type LLMClient interface {
	// Complete sends a prompt and returns the raw completion text, using the
	// client's default sampling temperature.
	Complete(ctx context.Context, prompt string) (string, error)

	// CompleteWithTemperature sends a prompt with an explicit temperature.
	// The repair path uses temperature 0.
	CompleteWithTemperature(ctx context.Context, prompt string, temperature float32) (string, error)
}

// defaultTemperature is used for first-pass generation.
const defaultTemperature float32 = 0.35

// extractJSON finds the first complete JSON object in a model response.
// Markdown fences and surrounding prose are tolerated; braces inside string
// literals are skipped. Returns "" when no complete object is present.
func extractJSON(response string) string {
	text := strings.TrimSpace(response)
	if strings.HasPrefix(text, "```") {
		text = strings.Trim(text, "`")
		text = strings.TrimSpace(strings.TrimPrefix(text, "json"))
	}

	start := strings.IndexByte(text, '{')
	if start == -1 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			escaped = true
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return text[start : i+1]
				}
			}
		}
	}

	return ""
}
