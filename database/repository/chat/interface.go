package chatRepo

import (
	"context"

	"concierge/database"
	"concierge/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// Repository is the durable store for chat sessions and their message log.
type Repository interface {
	SaveSession(ctx context.Context, session models.ChatSession) error
	LoadSession(ctx context.Context, sessionID string) (*models.ChatSession, error)
	AppendMessage(ctx context.Context, msg models.ChatMessage) error
	ListSessions(ctx context.Context, status models.SessionStatus, limit int64) ([]models.ChatSession, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

type mongoChatRepo struct {
	sessions *mongo.Collection
	messages *mongo.Collection
}

// NewMongoChatRepo returns a Repository backed by MongoDB.
func NewMongoChatRepo() Repository {
	db := database.MongoClient.Database("concierge")
	return &mongoChatRepo{
		sessions: db.Collection("chat_sessions"),
		messages: db.Collection("chat_messages"),
	}
}
