package services

import (
	"context"
	"crypto/tls"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names. The account cascade in account_service.go depends on the
// full set.
const (
	colUsers        = "users"
	colProfiles     = "profiles"
	colScholarships = "scholarships"
	colMessages     = "messages"
	colSessions     = "mentor_sessions"
	colApplications = "applications"
	colSubscribers  = "newsletter_subscribers"
	colSiteSettings = "site_settings"
)

// ConnectMongo dials the database shared by all services. Hosted clusters
// (mongodb+srv) are pinned to TLS 1.2.
func ConnectMongo(ctx context.Context, mongoURI, dbName string) (*mongo.Database, error) {
	opts := options.Client().ApplyURI(mongoURI)
	if strings.HasPrefix(mongoURI, "mongodb+srv://") {
		opts = opts.SetTLSConfig(&tls.Config{
			MinVersion: tls.VersionTLS12,
			MaxVersion: tls.VersionTLS12,
		})
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	db := client.Database(dbName)
	ensureIndexes(ctx, db)
	return db, nil
}

// ensureIndexes creates the unique and lookup indexes. Best effort: a failure
// here must not block start-up against a restricted database user.
func ensureIndexes(ctx context.Context, db *mongo.Database) {
	_, _ = db.Collection(colUsers).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	_, _ = db.Collection(colSubscribers).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	_, _ = db.Collection(colSiteSettings).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "setting_key", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	_, _ = db.Collection(colProfiles).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_type", Value: 1}},
	})
	_, _ = db.Collection(colMessages).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "sender_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "recipient_id", Value: 1}, {Key: "created_at", Value: -1}}},
	})
	_, _ = db.Collection(colSessions).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "student_id", Value: 1}}},
		{Keys: bson.D{{Key: "mentor_id", Value: 1}}},
	})
	_, _ = db.Collection(colScholarships).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "deadline", Value: 1}},
	})
	_, _ = db.Collection(colApplications).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
}
