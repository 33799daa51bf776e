// internal/server/models.go
package server

import (
	"monday-bi-agent/internal/agent"
	"monday-bi-agent/internal/common/config"
	"monday-bi-agent/internal/llm"
)

// QueryRequest is the POST /query body. Every field but question is optional.
type QueryRequest struct {
	Question          string        `json:"question"`
	MondayAPIKey      *string       `json:"mondayApiKey"`
	GeminiAPIKey      *string       `json:"geminiApiKey"`
	DealsBoardID      *string       `json:"dealsBoardId"`
	WorkOrdersBoardID *string       `json:"workOrdersBoardId"`
	History           []llm.Message `json:"history"`
}

// queryRequestSchema guards the body before it is decoded.
const queryRequestSchema = `{
  "type": "object",
  "required": ["question"],
  "properties": {
    "question":          {"type": "string", "minLength": 1},
    "mondayApiKey":      {"type": ["string", "null"]},
    "geminiApiKey":      {"type": ["string", "null"]},
    "dealsBoardId":      {"type": ["string", "null"]},
    "workOrdersBoardId": {"type": ["string", "null"]},
    "history": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "required": ["role", "content"],
        "properties": {
          "role":    {"type": "string"},
          "content": {"type": "string"}
        }
      }
    }
  }
}`

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ToInput converts the wire request into an agent input.
func (r *QueryRequest) ToInput(requestID string) *agent.Input {
	return &agent.Input{
		RequestID: requestID,
		Question:  r.Question,
		Overrides: config.Overrides{
			MondayAPIKey:      deref(r.MondayAPIKey),
			GeminiAPIKey:      deref(r.GeminiAPIKey),
			DealsBoardID:      deref(r.DealsBoardID),
			WorkOrdersBoardID: deref(r.WorkOrdersBoardID),
		},
		History: r.History,
	}
}
