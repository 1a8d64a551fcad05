package resolve

import (
	"fmt"
	"strings"
)

// buildPrompt renders one generation request into a prompt. Per-kind
// framing, shared background block. Length and tone constraints are
// rendered by the ai client, not here.
func buildPrompt(req GenerationRequest) string {
	var b strings.Builder

	switch req.Kind {
	case KindWhyCompany:
		fmt.Fprintf(&b, "Write a compelling answer for why I want to work at %s as a %s.\n", req.Company, req.RoleTitle)
		b.WriteString("Be specific about the company's work, connect my background to their needs, and show genuine enthusiasm.\n")
	case KindExperience:
		fmt.Fprintf(&b, "Describe my relevant experience for the %s role at %s.\n", req.RoleTitle, req.Company)
		b.WriteString("Focus on what transfers to this role. Do not invent experience.\n")
	case KindBehavioral:
		fmt.Fprintf(&b, "Answer this behavioral interview question from %s's application form: %q\n", req.Company, req.Label)
		b.WriteString("Use the STAR method (Situation, Task, Action, Result). Be specific and quantifiable.\n")
	case KindTechnical:
		fmt.Fprintf(&b, "Answer this technical question from %s's application for the %s role: %q\n", req.Company, req.RoleTitle, req.Label)
		b.WriteString("Be concrete about technologies and impact.\n")
	case KindDiversity:
		fmt.Fprintf(&b, "Write a short diversity statement answering: %q\n", req.Label)
		b.WriteString("Focus on unique perspective and inclusive practice. Keep it authentic.\n")
	default:
		fmt.Fprintf(&b, "Answer this question from %s's application form for the %s role: %q\n", req.Company, req.RoleTitle, req.Label)
	}

	if len(req.Highlights) > 0 {
		b.WriteString("\nMy background:\n")
		for _, h := range req.Highlights {
			fmt.Fprintf(&b, "- %s\n", h)
		}
	}

	if req.DescriptionExcerpt != "" {
		b.WriteString("\nJob description excerpt:\n")
		b.WriteString(req.DescriptionExcerpt)
		b.WriteString("\n")
	}

	return b.String()
}
