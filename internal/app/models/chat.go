package models

type ChatRole string

const (
	RoleSystem    ChatRole = "system"
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

type ChatMessage struct {
	Role    ChatRole `json:"role"`
	Content string   `json:"content"`
}

// ChatRequest is the body of POST /chat-assistant.
type ChatRequest struct {
	Message   string        `json:"message"`
	Itinerary *Itinerary    `json:"itinerary"`
	History   []ChatMessage `json:"history"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}
