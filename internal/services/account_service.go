package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/negari/backend/internal/logger"
)

type AccountService interface {
	DeleteAccount(ctx context.Context, userID string) error
}

// MongoAccountService removes every trace of a user. Deletion walks the
// dependent collections before the profile and user rows so a failure partway
// through never leaves orphaned rows pointing at a missing account.
type MongoAccountService struct {
	db     *mongo.Database
	tokens *TokenService
}

func NewMongoAccountService(db *mongo.Database, tokens *TokenService) *MongoAccountService {
	return &MongoAccountService{db: db, tokens: tokens}
}

func (s *MongoAccountService) DeleteAccount(ctx context.Context, userID string) error {
	log := logger.FromContext(ctx)

	steps := []struct {
		collection string
		filter     bson.M
	}{
		{colMessages, bson.M{"$or": []bson.M{{"sender_id": userID}, {"recipient_id": userID}}}},
		{colSessions, bson.M{"$or": []bson.M{{"student_id": userID}, {"mentor_id": userID}}}},
		{colApplications, bson.M{"user_id": userID}},
		{colProfiles, bson.M{"_id": userID}},
	}
	for _, step := range steps {
		res, err := s.db.Collection(step.collection).DeleteMany(ctx, step.filter)
		if err != nil {
			return fmt.Errorf("delete %s for user %s: %w", step.collection, userID, err)
		}
		log.Debug().
			Str("collection", step.collection).
			Int64("deleted", res.DeletedCount).
			Msg("account cascade step")
	}

	res, err := s.db.Collection(colUsers).DeleteOne(ctx, bson.M{"_id": userID})
	if err != nil {
		return fmt.Errorf("delete user %s: %w", userID, err)
	}
	if res.DeletedCount == 0 {
		return ErrUserNotFound
	}

	// Sessions die with the account. Best effort: the rows are already gone.
	if err := s.tokens.RevokeAllForUser(ctx, userID); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("failed to revoke refresh tokens")
	}

	log.Info().Str("user_id", userID).Msg("account deleted")
	return nil
}
