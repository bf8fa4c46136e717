package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/negari/backend/internal/models"
)

// ProfileService owns the profiles table. Writes always go through the
// upsert, and the stored row is re-read after every write so server-side
// fields come back to the caller.
type ProfileService interface {
	GetByUserID(ctx context.Context, userID string) (*models.Profile, error)
	Upsert(ctx context.Context, userID, email string, req *models.UpsertProfileRequest) (*models.Profile, error)
	EnsureExists(ctx context.Context, userID, email string) (*models.Profile, error)
	ListMentors(ctx context.Context) ([]models.Profile, error)
	SetAdminFlags(ctx context.Context, userID string, isAdmin, isSuperAdmin bool) error
}

type MongoProfileService struct {
	profiles *mongo.Collection
}

func NewMongoProfileService(db *mongo.Database) *MongoProfileService {
	return &MongoProfileService{profiles: db.Collection(colProfiles)}
}

func (s *MongoProfileService) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	var prof models.Profile
	if err := s.profiles.FindOne(ctx, bson.M{"_id": userID}).Decode(&prof); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &prof, nil
}

// Upsert merges the non-nil request fields into the stored row, stamping
// updated_at, and returns the row as stored. has_completed_profile is only
// touched when the request carries it explicitly; the goals save is the one
// place that flips it.
func (s *MongoProfileService) Upsert(ctx context.Context, userID, email string, req *models.UpsertProfileRequest) (*models.Profile, error) {
	now := time.Now().UTC()

	set := bson.M{"updated_at": now}
	if email != "" {
		set["email"] = email
	}
	setString(set, "first_name", req.FirstName)
	setString(set, "last_name", req.LastName)
	setString(set, "full_name", req.FullName)
	setString(set, "phone", req.Phone)
	setString(set, "city", req.City)
	setString(set, "country", req.Country)
	setString(set, "school_name", req.SchoolName)
	setString(set, "education_level", req.EducationLevel)
	setString(set, "school_type", req.SchoolType)
	setString(set, "user_type", req.UserType)
	setString(set, "dream_university", req.DreamUniversity)
	setString(set, "dream_major", req.DreamMajor)
	setString(set, "target_country", req.TargetCountry)
	if req.CareerInterests != nil {
		set["career_interests"] = *req.CareerInterests
	}
	if req.PreferredFields != nil {
		set["preferred_fields"] = *req.PreferredFields
	}
	if req.HasCompletedProfile != nil {
		set["has_completed_profile"] = *req.HasCompletedProfile
	}

	_, err := s.profiles.UpdateOne(
		ctx,
		bson.M{"_id": userID},
		bson.M{"$set": set, "$setOnInsert": bson.M{"_id": userID}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return nil, err
	}

	return s.GetByUserID(ctx, userID)
}

// EnsureExists inserts a minimal row if none exists yet and returns the row.
// An existing row is never modified: accounts that predate profile rows get
// backfilled on sign-in without clobbering anything.
func (s *MongoProfileService) EnsureExists(ctx context.Context, userID, email string) (*models.Profile, error) {
	prof, err := s.GetByUserID(ctx, userID)
	if err == nil {
		return prof, nil
	}
	if err != ErrProfileNotFound {
		return nil, err
	}

	now := time.Now().UTC()
	fresh := models.Profile{ID: userID, Email: email, UpdatedAt: now}
	if _, err := s.profiles.InsertOne(ctx, fresh); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// Lost a race with another sign-in; the row exists now.
			return s.GetByUserID(ctx, userID)
		}
		return nil, err
	}
	return &fresh, nil
}

func (s *MongoProfileService) ListMentors(ctx context.Context) ([]models.Profile, error) {
	cur, err := s.profiles.Find(ctx, bson.M{"user_type": models.UserTypeMentor})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	mentors := make([]models.Profile, 0)
	if err := cur.All(ctx, &mentors); err != nil {
		return nil, err
	}
	return mentors, nil
}

// SetAdminFlags flips the admin flags directly, bypassing the partial-update
// request shape. Invite and bootstrap flows only.
func (s *MongoProfileService) SetAdminFlags(ctx context.Context, userID string, isAdmin, isSuperAdmin bool) error {
	_, err := s.profiles.UpdateOne(
		ctx,
		bson.M{"_id": userID},
		bson.M{
			"$set":         bson.M{"is_admin": isAdmin, "is_super_admin": isSuperAdmin, "updated_at": time.Now().UTC()},
			"$setOnInsert": bson.M{"_id": userID},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

func setString(set bson.M, key string, val *string) {
	if val != nil {
		set[key] = *val
	}
}
