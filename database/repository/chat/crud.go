package chatRepo

import (
	"context"
	"errors"

	"concierge/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SaveSession upserts the full session snapshot keyed by session id.
func (r *mongoChatRepo) SaveSession(ctx context.Context, session models.ChatSession) error {
	filter := bson.M{"sessionId": session.SessionID}
	update := bson.M{"$set": session}
	_, err := r.sessions.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// LoadSession returns the stored session, or nil when none exists.
func (r *mongoChatRepo) LoadSession(ctx context.Context, sessionID string) (*models.ChatSession, error) {
	var session models.ChatSession
	err := r.sessions.FindOne(ctx, bson.M{"sessionId": sessionID}).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

// AppendMessage records one message in the append-only log.
func (r *mongoChatRepo) AppendMessage(ctx context.Context, msg models.ChatMessage) error {
	_, err := r.messages.InsertOne(ctx, msg)
	return err
}

// ListSessions fetches sessions, optionally narrowed by status, newest
// activity first.
func (r *mongoChatRepo) ListSessions(ctx context.Context, status models.SessionStatus, limit int64) ([]models.ChatSession, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	opts := options.Find().SetSort(bson.M{"lastActiveAt": -1})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cursor, err := r.sessions.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var sessions []models.ChatSession
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// DeleteSession removes the session snapshot and its message log.
func (r *mongoChatRepo) DeleteSession(ctx context.Context, sessionID string) error {
	res, err := r.sessions.DeleteOne(ctx, bson.M{"sessionId": sessionID})
	if err != nil {
		return err
	}
	if _, err := r.messages.DeleteMany(ctx, bson.M{"sessionId": sessionID}); err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return errors.New("session not found")
	}
	return nil
}
