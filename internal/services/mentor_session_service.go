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

type MentorSessionService interface {
	Book(ctx context.Context, studentID string, req *models.BookSessionRequest) (*models.MentorSession, error)
	ListForUser(ctx context.Context, userID string) ([]models.MentorSession, error)
}

type MongoMentorSessionService struct {
	sessions *mongo.Collection
}

func NewMongoMentorSessionService(db *mongo.Database) *MongoMentorSessionService {
	return &MongoMentorSessionService{sessions: db.Collection(colSessions)}
}

// Book creates a session request. The mentor confirms it and attaches a
// meeting link out of band, so new rows always start as "requested".
func (s *MongoMentorSessionService) Book(ctx context.Context, studentID string, req *models.BookSessionRequest) (*models.MentorSession, error) {
	session := &models.MentorSession{
		ID:          uuid.New().String(),
		MentorID:    req.MentorID,
		StudentID:   studentID,
		Topic:       strings.TrimSpace(req.Topic),
		SessionDate: req.SessionDate,
		SessionTime: req.SessionTime,
		Status:      models.SessionStatusRequested,
		CreatedAt:   time.Now().UTC(),
	}

	if _, err := s.sessions.InsertOne(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// ListForUser returns sessions where the user is either side of the booking,
// soonest first.
func (s *MongoMentorSessionService) ListForUser(ctx context.Context, userID string) ([]models.MentorSession, error) {
	filter := bson.M{"$or": []bson.M{
		{"student_id": userID},
		{"mentor_id": userID},
	}}
	opts := options.Find().SetSort(bson.D{
		{Key: "session_date", Value: 1},
		{Key: "session_time", Value: 1},
	})

	cur, err := s.sessions.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]models.MentorSession, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
