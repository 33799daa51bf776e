// internal/llm/prompt.go
package llm

import (
	"fmt"
	"strings"
)

// Message is one prior turn of the conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// PromptInput is the aggregate view of the boards handed to the model.
type PromptInput struct {
	DealCount      int
	WorkOrderCount int
	History        []Message
	Question       string
}

// RenderHistory writes one "ROLE: content" line per message, oldest first.
func RenderHistory(history []Message) string {
	lines := make([]string, 0, len(history))
	for _, m := range history {
		lines = append(lines, fmt.Sprintf("%s: %s", strings.ToUpper(m.Role), m.Content))
	}
	return strings.Join(lines, "\n")
}

// BuildPrompt assembles the fallback prompt. Only counts are sent, never
// row contents.
func BuildPrompt(in PromptInput) string {
	var parts []string

	parts = append(parts, "")
	parts = append(parts, "You are a Business Intelligence AI Agent for Monday.com.")
	parts = append(parts, "You have access to live board data (Deals and Work Orders).")

	parts = append(parts, "")
	parts = append(parts, "BOARD DATA SUMMARY:")
	parts = append(parts, fmt.Sprintf("- Total Deals: %d", in.DealCount))
	parts = append(parts, fmt.Sprintf("- Total Work Orders: %d", in.WorkOrderCount))
	parts = append(parts, "- Core Metrics Found: Status, Revenue, Company Links.")

	parts = append(parts, "")
	parts = append(parts, "CONVERSATION HISTORY:")
	parts = append(parts, RenderHistory(in.History))

	parts = append(parts, "")
	parts = append(parts, "NEW USER QUESTION:")
	parts = append(parts, in.Question)

	parts = append(parts, "")
	parts = append(parts, "Provide a structured business insight based on the data and history.")
	parts = append(parts, "If you need to perform calculations not covered by the hardcoded logic, do them now based on the data summary provided.")

	return strings.Join(parts, "\n") + "\n"
}
