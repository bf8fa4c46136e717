// Command bootstrap-admin creates or promotes the initial super-admin
// account. Run once against a fresh deployment:
//
//	BOOTSTRAP_ADMIN_EMAIL=... BOOTSTRAP_ADMIN_PASSWORD=... bootstrap-admin
package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/negari/backend/internal/config"
	"github.com/negari/backend/internal/logger"
	"github.com/negari/backend/internal/models"
	"github.com/negari/backend/internal/services"
)

func main() {
	_ = godotenv.Load()

	log := logger.New("bootstrap")

	email := os.Getenv("BOOTSTRAP_ADMIN_EMAIL")
	password := os.Getenv("BOOTSTRAP_ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Fatal().Msg("BOOTSTRAP_ADMIN_EMAIL and BOOTSTRAP_ADMIN_PASSWORD are required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := services.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = db.Client().Disconnect(disconnectCtx)
	}()

	userService := services.NewMongoUserService(db)
	profileService := services.NewMongoProfileService(db)

	user, err := userService.Register(ctx, &models.RegisterRequest{
		Email:    email,
		Password: password,
	})
	if err != nil {
		if !errors.Is(err, services.ErrEmailExists) {
			log.Fatal().Err(err).Msg("failed to create admin user")
		}
		// Promote the existing account instead.
		user, err = userService.GetByEmail(ctx, email)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to look up existing user")
		}
		if err := userService.SetPassword(ctx, user.ID, password); err != nil {
			log.Fatal().Err(err).Msg("failed to set password")
		}
		log.Info().Str("user_id", user.ID).Msg("existing account found, promoting")
	}

	if _, err := profileService.EnsureExists(ctx, user.ID, user.Email); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure profile")
	}
	if err := profileService.SetAdminFlags(ctx, user.ID, true, true); err != nil {
		log.Fatal().Err(err).Msg("failed to set admin flags")
	}

	log.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("super-admin ready")
}
