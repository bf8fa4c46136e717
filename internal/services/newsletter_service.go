package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/negari/backend/internal/models"
)

type NewsletterService interface {
	Subscribe(ctx context.Context, email string) (*models.SubscribeResponse, error)
}

type MongoNewsletterService struct {
	subscribers *mongo.Collection
}

func NewMongoNewsletterService(db *mongo.Database) *MongoNewsletterService {
	return &MongoNewsletterService{subscribers: db.Collection(colSubscribers)}
}

// Subscribe adds the email to the list. Subscribing twice is reported back as
// already_subscribed rather than failing, since the landing-page form cannot
// know whether a visitor signed up before.
func (s *MongoNewsletterService) Subscribe(ctx context.Context, email string) (*models.SubscribeResponse, error) {
	sub := models.NewsletterSubscriber{
		ID:        uuid.New().String(),
		Email:     normalizeEmail(email),
		CreatedAt: time.Now().UTC(),
	}

	if _, err := s.subscribers.InsertOne(ctx, sub); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return &models.SubscribeResponse{Subscribed: true, AlreadySubscribed: true}, nil
		}
		return nil, err
	}
	return &models.SubscribeResponse{Subscribed: true}, nil
}
