package ai

import "strings"

// BuildEnhancePrompt assembles the user message for text enhancement.
func BuildEnhancePrompt(businessName, category, text string) string {
	var b strings.Builder

	if strings.TrimSpace(businessName) != "" {
		b.WriteString("business_name: ")
		b.WriteString(businessName)
		b.WriteString("\n")
	}

	if strings.TrimSpace(category) != "" {
		b.WriteString("category: ")
		b.WriteString(category)
		b.WriteString("\n")
	}

	b.WriteString("draft_text:\n")
	b.WriteString(text)
	b.WriteString("\n")

	return b.String()
}
