package domain

import "time"

// ChatMessage is one transcript row for the external conversational layer.
type ChatMessage struct {
	SessionID string
	Role      string // "user" or "assistant"
	Content   string
	CreatedAt time.Time
}
