package models

import "time"

// MessageRole distinguishes who authored a chat message.
type MessageRole string

const (
	RoleUser   MessageRole = "user"
	RoleSystem MessageRole = "system"
)

// SessionStatus tracks the lifecycle of a chat session.
type SessionStatus string

const (
	SessionActive    SessionStatus = "active"
	SessionCompleted SessionStatus = "completed"
	SessionCancelled SessionStatus = "cancelled"
	SessionAbandoned SessionStatus = "abandoned"
)

// ChatMessage is one turn of the conversation. Immutable once recorded.
type ChatMessage struct {
	SessionID string      `json:"sessionId" bson:"sessionId"`
	Role      MessageRole `json:"role" bson:"role"`
	Text      string      `json:"text" bson:"text"`
	Timestamp time.Time   `json:"timestamp" bson:"timestamp"`
	Intent    IntentType  `json:"intent,omitempty" bson:"intent,omitempty"`
	Entities  []Entity    `json:"entities,omitempty" bson:"entities,omitempty"`
}

// ChatSession owns the conversation context and the bounded message history
// for one session identifier.
type ChatSession struct {
	SessionID    string              `json:"sessionId" bson:"sessionId"`
	UserID       string              `json:"userId,omitempty" bson:"userId,omitempty"`
	Status       SessionStatus       `json:"status" bson:"status"`
	CreatedAt    time.Time           `json:"createdAt" bson:"createdAt"`
	LastActiveAt time.Time           `json:"lastActiveAt" bson:"lastActiveAt"`
	Context      ConversationContext `json:"context" bson:"context"`
	History      []ChatMessage       `json:"history" bson:"history"`
}
