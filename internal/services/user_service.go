package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"github.com/negari/backend/internal/models"
)

// UserService owns auth identities: registration, credential checks, the
// admin invite flow, and the directory listing.
type UserService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateCredentials(ctx context.Context, userID string, req *models.UpdateUserRequest) (*models.User, error)
	SetPassword(ctx context.Context, userID, newPassword string) error
	Invite(ctx context.Context, req *models.InviteUserRequest) (*models.User, error)
	List(ctx context.Context, page, perPage int) ([]models.User, error)
	Delete(ctx context.Context, userID string) error
}

type MongoUserService struct {
	users *mongo.Collection
}

func NewMongoUserService(db *mongo.Database) *MongoUserService {
	return &MongoUserService{users: db.Collection(colUsers)}
}

func (s *MongoUserService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:               uuid.New().String(),
		Email:            normalizeEmail(req.Email),
		PasswordHash:     string(hashed),
		Metadata:         req.Metadata,
		EmailConfirmedAt: &now,
		CreatedAt:        now,
	}

	if _, err := s.users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrEmailExists
		}
		return nil, err
	}
	return user, nil
}

func (s *MongoUserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user.PasswordHash == "" {
		return nil, ErrPasswordNotSet
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidPassword
	}

	now := time.Now().UTC()
	_, _ = s.users.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{
		"$set": bson.M{"last_sign_in_at": now},
	})
	user.LastSignInAt = &now
	return user, nil
}

func (s *MongoUserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.users.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *MongoUserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.users.FindOne(ctx, bson.M{"email": normalizeEmail(email)}).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UpdateCredentials changes email and/or password after verifying the current
// password, then re-reads the stored row.
func (s *MongoUserService) UpdateCredentials(ctx context.Context, userID string, req *models.UpdateUserRequest) (*models.User, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.PasswordHash == "" {
		return nil, ErrPasswordNotSet
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return nil, ErrInvalidPassword
	}

	set := bson.M{}
	if req.Email != "" {
		set["email"] = normalizeEmail(req.Email)
	}
	if req.NewPassword != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		set["password_hash"] = string(hashed)
	}
	if len(set) == 0 {
		return user, nil
	}

	if _, err := s.users.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": set}); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrEmailExists
		}
		return nil, err
	}
	return s.GetByID(ctx, userID)
}

// SetPassword installs a new password without a current-password check. Only
// the reset-token and invite-acceptance flows may call it.
func (s *MongoUserService) SetPassword(ctx context.Context, userID, newPassword string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	res, err := s.users.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{
		"$set": bson.M{"password_hash": string(hashed), "email_confirmed_at": now},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Invite creates a passwordless account carrying the invite metadata. The
// invitee sets a password via the emailed link.
func (s *MongoUserService) Invite(ctx context.Context, req *models.InviteUserRequest) (*models.User, error) {
	userType := req.UserType
	if userType == "" {
		userType = models.UserTypeStudent
	}
	fullName := strings.TrimSpace(req.FirstName + " " + req.LastName)

	now := time.Now().UTC()
	user := &models.User{
		ID:    uuid.New().String(),
		Email: normalizeEmail(req.Email),
		Metadata: map[string]string{
			"first_name": req.FirstName,
			"last_name":  req.LastName,
			"full_name":  fullName,
			"user_type":  userType,
		},
		InvitedAt: &now,
		CreatedAt: now,
	}

	if _, err := s.users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrEmailExists
		}
		return nil, err
	}
	return user, nil
}

func (s *MongoUserService) List(ctx context.Context, page, perPage int) ([]models.User, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 1000 {
		perPage = 1000
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetSkip(int64((page - 1) * perPage)).
		SetLimit(int64(perPage))

	cur, err := s.users.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	users := make([]models.User, 0, perPage)
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *MongoUserService) Delete(ctx context.Context, userID string) error {
	_, err := s.users.DeleteOne(ctx, bson.M{"_id": userID})
	return err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
