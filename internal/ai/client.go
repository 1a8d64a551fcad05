package ai

import (
	"context"
	"fmt"
	"strings"
)

// Constraints bound a single generation call. The caller is responsible
// for truncating prompt context before invoking Generate.
type Constraints struct {
	MaxWords int
	Tone     string
}

// Client is the interface for text-generation providers
type Client interface {
	//Generate produces a natural-language answer for the given prompt
	Generate(ctx context.Context, prompt string, c Constraints) (string, error)
}

func (c Constraints) render() string {
	var parts []string
	if c.MaxWords > 0 {
		parts = append(parts, fmt.Sprintf("Keep it under %d words.", c.MaxWords))
	}
	if c.Tone != "" {
		parts = append(parts, fmt.Sprintf("Use a %s tone.", c.Tone))
	}
	parts = append(parts, "Return only the answer text, no preamble and no markdown.")
	return strings.Join(parts, "\n")
}

// cleanMarkdown removes backticks and "json" prefix if the model tries to be helpful
func cleanMarkdown(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimSuffix(content, "```")
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
	}
	return strings.TrimSpace(content)
}
