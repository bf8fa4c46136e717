package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/negari/backend/internal/models"
)

const (
	refreshKeyPrefix     = "refresh:"
	refreshUserKeyPrefix = "refresh_user:"
	resetKeyPrefix       = "pwreset:"
)

// TokenService issues and verifies the session material: HS256 access tokens,
// plus opaque refresh and password-reset tokens held in Redis with a TTL.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	resetTTL   time.Duration
	rdb        *redis.Client
}

func NewTokenService(secret string, accessTTL, refreshTTL, resetTTL time.Duration, rdb *redis.Client) *TokenService {
	return &TokenService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		resetTTL:   resetTTL,
		rdb:        rdb,
	}
}

// IssueAccessToken signs a short-lived JWT for the user.
func (s *TokenService) IssueAccessToken(user *models.User) (string, time.Time, error) {
	expiresAt := time.Now().Add(s.accessTTL)
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     expiresAt.Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ParseAccessToken verifies the signature and expiry and returns the user id
// and email claims.
func (s *TokenService) ParseAccessToken(tokenString string) (userID, email string, err error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", ErrInvalidToken
	}
	userID, ok = claims["user_id"].(string)
	if !ok || userID == "" {
		return "", "", ErrInvalidToken
	}
	email, _ = claims["email"].(string)
	return userID, email, nil
}

// IssueRefreshToken stores an opaque token and tracks it on the user's token
// set so a cascading account delete can revoke everything at once.
func (s *TokenService) IssueRefreshToken(ctx context.Context, userID string) (string, error) {
	token := uuid.New().String()
	if err := s.rdb.Set(ctx, refreshKeyPrefix+token, userID, s.refreshTTL).Err(); err != nil {
		return "", err
	}
	userKey := refreshUserKeyPrefix + userID
	if err := s.rdb.SAdd(ctx, userKey, token).Err(); err != nil {
		return "", err
	}
	_ = s.rdb.Expire(ctx, userKey, s.refreshTTL).Err()
	return token, nil
}

// RotateRefreshToken redeems a refresh token for the owning user id and
// replaces it, invalidating the old one.
func (s *TokenService) RotateRefreshToken(ctx context.Context, token string) (userID, newToken string, err error) {
	userID, err = s.rdb.Get(ctx, refreshKeyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", "", ErrInvalidToken
		}
		return "", "", fmt.Errorf("redis get refresh token: %w", err)
	}

	_ = s.rdb.Del(ctx, refreshKeyPrefix+token).Err()
	_ = s.rdb.SRem(ctx, refreshUserKeyPrefix+userID, token).Err()

	newToken, err = s.IssueRefreshToken(ctx, userID)
	if err != nil {
		return "", "", err
	}
	return userID, newToken, nil
}

// RevokeRefreshToken invalidates a single refresh token (sign-out).
func (s *TokenService) RevokeRefreshToken(ctx context.Context, token string) error {
	userID, err := s.rdb.Get(ctx, refreshKeyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return err
	}
	_ = s.rdb.SRem(ctx, refreshUserKeyPrefix+userID, token).Err()
	return s.rdb.Del(ctx, refreshKeyPrefix+token).Err()
}

// RevokeAllForUser drops every live refresh token for the user. Used by the
// account-deletion cascade.
func (s *TokenService) RevokeAllForUser(ctx context.Context, userID string) error {
	userKey := refreshUserKeyPrefix + userID
	tokens, err := s.rdb.SMembers(ctx, userKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	for _, token := range tokens {
		_ = s.rdb.Del(ctx, refreshKeyPrefix+token).Err()
	}
	return s.rdb.Del(ctx, userKey).Err()
}

// IssueResetToken creates a one-shot password-reset token. The same flow
// backs invite acceptance.
func (s *TokenService) IssueResetToken(ctx context.Context, userID string) (string, error) {
	token := uuid.New().String()
	if err := s.rdb.Set(ctx, resetKeyPrefix+token, userID, s.resetTTL).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// ConsumeResetToken redeems a reset token exactly once.
func (s *TokenService) ConsumeResetToken(ctx context.Context, token string) (string, error) {
	userID, err := s.rdb.GetDel(ctx, resetKeyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrInvalidToken
		}
		return "", err
	}
	return userID, nil
}
