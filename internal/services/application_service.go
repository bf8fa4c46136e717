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

type ApplicationService interface {
	Track(ctx context.Context, userID string, scholarship *models.Scholarship, notes string) (*models.Application, error)
	ListForUser(ctx context.Context, userID string) ([]models.Application, error)
}

type MongoApplicationService struct {
	applications *mongo.Collection
}

func NewMongoApplicationService(db *mongo.Database) *MongoApplicationService {
	return &MongoApplicationService{applications: db.Collection(colApplications)}
}

// Track records that the student has started an application. The scholarship
// title is denormalized onto the row so the tracker survives catalogue edits.
func (s *MongoApplicationService) Track(ctx context.Context, userID string, scholarship *models.Scholarship, notes string) (*models.Application, error) {
	app := &models.Application{
		ID:               uuid.New().String(),
		UserID:           userID,
		ScholarshipID:    scholarship.ID,
		ScholarshipTitle: scholarship.Title,
		Status:           models.ApplicationStatusStarted,
		Notes:            strings.TrimSpace(notes),
		CreatedAt:        time.Now().UTC(),
	}

	if _, err := s.applications.InsertOne(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

func (s *MongoApplicationService) ListForUser(ctx context.Context, userID string) ([]models.Application, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cur, err := s.applications.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]models.Application, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
