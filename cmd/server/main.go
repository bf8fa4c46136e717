package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/negari/backend/internal/config"
	"github.com/negari/backend/internal/handlers"
	"github.com/negari/backend/internal/logger"
	appMiddleware "github.com/negari/backend/internal/middleware"
	"github.com/negari/backend/internal/services"
)

const scholarshipSeedFile = "scholarships.json"

func main() {
	_ = godotenv.Load()

	log := logger.New("server")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	db, err := services.ConnectMongo(connectCtx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = db.Client().Disconnect(disconnectCtx)
	}()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err := rdb.Ping(connectCtx).Err(); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer rdb.Close()

	userService := services.NewMongoUserService(db)
	profileService := services.NewMongoProfileService(db)
	scholarshipService := services.NewMongoScholarshipService(db)
	applicationService := services.NewMongoApplicationService(db)
	messageService := services.NewMongoMessageService(db)
	sessionService := services.NewMongoMentorSessionService(db)
	newsletterService := services.NewMongoNewsletterService(db)
	settingsService := services.NewMongoSettingsService(db, rdb)
	tokenService := services.NewTokenService(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL, cfg.ResetTokenTTL, rdb)
	accountService := services.NewMongoAccountService(db, tokenService)
	mailer := services.NewSendGridMailer(cfg.SendGridAPIKey, cfg.MailFromEmail, cfg.SiteURL)

	if n, err := scholarshipService.SeedFromFile(connectCtx, cfg.DataDir, scholarshipSeedFile); err != nil {
		log.Warn().Err(err).Msg("scholarship seed failed")
	} else if n > 0 {
		log.Info().Int("count", n).Msg("seeded scholarship catalogue")
	}

	authHandler := handlers.NewAuthHandler(userService, profileService, tokenService, mailer)
	profileHandler := handlers.NewProfileHandler(profileService)
	mentorHandler := handlers.NewMentorHandler(profileService)
	scholarshipHandler := handlers.NewScholarshipHandler(scholarshipService)
	applicationHandler := handlers.NewApplicationHandler(applicationService, scholarshipService)
	messageHandler := handlers.NewMessageHandler(messageService)
	sessionHandler := handlers.NewMentorSessionHandler(sessionService, profileService)
	newsletterHandler := handlers.NewNewsletterHandler(newsletterService)
	settingsHandler := handlers.NewSettingsHandler(settingsService)
	adminHandler := handlers.NewAdminHandler(userService, profileService, tokenService, mailer)
	accountHandler := handlers.NewAccountHandler(accountService, profileService, applicationService, messageService, sessionService)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(appMiddleware.RequestLogger(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.Refresh)
		r.Post("/auth/reset-password", authHandler.RequestPasswordReset)
		r.Post("/auth/reset-password/confirm", authHandler.ConfirmPasswordReset)
		r.Post("/newsletter/subscribe", newsletterHandler.Subscribe)
		r.Get("/settings", settingsHandler.ListSettings)

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(appMiddleware.JWTAuth(tokenService))

			r.Post("/auth/logout", authHandler.Logout)
			r.Get("/auth/me", authHandler.Me)
			r.Put("/auth/user", authHandler.UpdateUser)

			r.Get("/profile", profileHandler.GetProfile)
			r.Put("/profile", profileHandler.UpsertProfile)

			r.Get("/mentors", mentorHandler.ListMentors)
			r.Get("/scholarships", scholarshipHandler.ListScholarships)

			r.Route("/applications", func(r chi.Router) {
				r.Get("/", applicationHandler.ListApplications)
				r.Post("/", applicationHandler.TrackApplication)
			})

			r.Route("/messages", func(r chi.Router) {
				r.Get("/", messageHandler.ListMessages)
				r.Post("/", messageHandler.SendMessage)
				r.Post("/{id}/read", messageHandler.MarkRead)
			})

			r.Route("/mentor-sessions", func(r chi.Router) {
				r.Get("/", sessionHandler.ListSessions)
				r.Post("/", sessionHandler.BookSession)
			})

			r.Delete("/account", accountHandler.DeleteAccount)
			r.Get("/account/export", accountHandler.ExportData)

			// Admin routes
			r.Group(func(r chi.Router) {
				r.Use(appMiddleware.RequireAdmin(profileService, cfg.AdminEmails))

				r.Post("/admin/users", adminHandler.InviteUser)
				r.Post("/admin/users/list", adminHandler.ListUsers)
				r.Post("/admin/settings", settingsHandler.SetSettings)
			})
		})
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.ServerAddress).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
