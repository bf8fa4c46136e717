package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/negari/backend/internal/models"
)

// DefaultMessageLimit bounds the inbox query.
const DefaultMessageLimit = 100

type MessageService interface {
	Send(ctx context.Context, senderID string, req *models.SendMessageRequest) (*models.Message, error)
	ListForUser(ctx context.Context, userID string, limit int) ([]models.Message, error)
	MarkRead(ctx context.Context, userID, messageID string) error
}

type MongoMessageService struct {
	messages *mongo.Collection
}

func NewMongoMessageService(db *mongo.Database) *MongoMessageService {
	return &MongoMessageService{messages: db.Collection(colMessages)}
}

func (s *MongoMessageService) Send(ctx context.Context, senderID string, req *models.SendMessageRequest) (*models.Message, error) {
	msg := &models.Message{
		ID:          uuid.New().String(),
		SenderID:    senderID,
		RecipientID: req.RecipientID,
		Subject:     strings.TrimSpace(req.Subject),
		Content:     strings.TrimSpace(req.Content),
		Read:        false,
		CreatedAt:   time.Now().UTC(),
	}

	if _, err := s.messages.InsertOne(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// ListForUser returns messages the user sent or received, newest first.
func (s *MongoMessageService) ListForUser(ctx context.Context, userID string, limit int) ([]models.Message, error) {
	if limit <= 0 || limit > DefaultMessageLimit {
		limit = DefaultMessageLimit
	}

	filter := bson.M{"$or": []bson.M{
		{"sender_id": userID},
		{"recipient_id": userID},
	}}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := s.messages.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]models.Message, 0, limit)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MarkRead flags a message read. Only the recipient may do so.
func (s *MongoMessageService) MarkRead(ctx context.Context, userID, messageID string) error {
	_, err := s.messages.UpdateOne(
		ctx,
		bson.M{"_id": messageID, "recipient_id": userID},
		bson.M{"$set": bson.M{"read": true}},
	)
	return err
}
