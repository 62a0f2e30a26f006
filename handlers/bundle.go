package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Chat endpoints
	ChatMessageHandler   gin.HandlerFunc
	GetSessionHandler    gin.HandlerFunc
	ListSessionsHandler  gin.HandlerFunc
	ResetSessionHandler  gin.HandlerFunc
	DeleteSessionHandler gin.HandlerFunc
}

// NewHandlerBundle assembles the bundle from a wired chat handler.
func NewHandlerBundle(chat *ChatHandler) *HandlerBundle {
	return &HandlerBundle{
		ChatMessageHandler:   chat.HandleMessage,
		GetSessionHandler:    chat.GetSession,
		ListSessionsHandler:  chat.ListSessions,
		ResetSessionHandler:  chat.ResetSession,
		DeleteSessionHandler: chat.DeleteSession,
	}
}
