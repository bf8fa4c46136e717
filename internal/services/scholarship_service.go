package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/negari/backend/internal/models"
	"github.com/negari/backend/internal/storage"
)

type ScholarshipService interface {
	List(ctx context.Context) ([]models.Scholarship, error)
	GetByID(ctx context.Context, id string) (*models.Scholarship, error)
}

type MongoScholarshipService struct {
	scholarships *mongo.Collection
}

func NewMongoScholarshipService(db *mongo.Database) *MongoScholarshipService {
	return &MongoScholarshipService{scholarships: db.Collection(colScholarships)}
}

// List returns non-archived scholarships ordered by deadline ascending, so
// the soonest-closing opportunities come first.
func (s *MongoScholarshipService) List(ctx context.Context) ([]models.Scholarship, error) {
	filter := bson.M{"status": bson.M{"$ne": models.ScholarshipStatusArchived}}
	opts := options.Find().SetSort(bson.D{{Key: "deadline", Value: 1}})

	cur, err := s.scholarships.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]models.Scholarship, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MongoScholarshipService) GetByID(ctx context.Context, id string) (*models.Scholarship, error) {
	var sc models.Scholarship
	if err := s.scholarships.FindOne(ctx, bson.M{"_id": id}).Decode(&sc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrScholarshipNotFound
		}
		return nil, err
	}
	return &sc, nil
}

// SeedFromFile loads a scholarship catalogue from a JSON file into an empty
// collection. No-op when the collection already has rows or the file is
// missing, so repeated boots are safe.
func (s *MongoScholarshipService) SeedFromFile(ctx context.Context, dataDir, filename string) (int, error) {
	count, err := s.scholarships.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	store, err := storage.NewJSONStore(dataDir, filename)
	if err != nil {
		return 0, err
	}
	if !store.Exists() {
		return 0, nil
	}

	var seed []models.Scholarship
	if err := store.Load(&seed); err != nil {
		return 0, err
	}
	if len(seed) == 0 {
		return 0, nil
	}

	docs := make([]interface{}, 0, len(seed))
	for _, sc := range seed {
		docs = append(docs, sc)
	}
	res, err := s.scholarships.InsertMany(ctx, docs)
	if err != nil {
		return 0, err
	}
	return len(res.InsertedIDs), nil
}
