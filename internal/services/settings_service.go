package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/negari/backend/internal/models"
)

const (
	settingsCacheKey = "site_settings"
	settingsCacheTTL = 5 * time.Minute
)

type SettingsService interface {
	List(ctx context.Context) ([]models.SiteSetting, error)
	BulkUpsert(ctx context.Context, updatedBy string, settings []models.SettingInput) ([]models.SiteSetting, error)
}

// MongoSettingsService serves site settings with a short Redis cache in front,
// since every page load on the public site reads them.
type MongoSettingsService struct {
	settings *mongo.Collection
	rdb      *redis.Client
}

func NewMongoSettingsService(db *mongo.Database, rdb *redis.Client) *MongoSettingsService {
	return &MongoSettingsService{settings: db.Collection(colSiteSettings), rdb: rdb}
}

func (s *MongoSettingsService) List(ctx context.Context) ([]models.SiteSetting, error) {
	// Cache trouble never blocks the read path; any miss or error falls
	// through to Mongo.
	if cached, err := s.rdb.Get(ctx, settingsCacheKey).Bytes(); err == nil {
		var out []models.SiteSetting
		if err := json.Unmarshal(cached, &out); err == nil {
			return out, nil
		}
	}

	opts := options.Find().SetSort(bson.D{{Key: "setting_key", Value: 1}})
	cur, err := s.settings.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]models.SiteSetting, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(out); err == nil {
		_ = s.rdb.Set(ctx, settingsCacheKey, payload, settingsCacheTTL).Err()
	}
	return out, nil
}

// BulkUpsert writes each key/value pair, stamping who made the change, then
// drops the cache and returns the full stored set.
func (s *MongoSettingsService) BulkUpsert(ctx context.Context, updatedBy string, settings []models.SettingInput) ([]models.SiteSetting, error) {
	now := time.Now().UTC()

	for _, in := range settings {
		_, err := s.settings.UpdateOne(
			ctx,
			bson.M{"setting_key": in.SettingKey},
			bson.M{
				"$set": bson.M{
					"setting_value": in.SettingValue,
					"updated_by":    updatedBy,
					"updated_at":    now,
				},
				"$setOnInsert": bson.M{"_id": uuid.New().String()},
			},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return nil, err
		}
	}

	_ = s.rdb.Del(ctx, settingsCacheKey).Err()
	return s.List(ctx)
}
