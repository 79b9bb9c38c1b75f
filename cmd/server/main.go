package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/meilisearch/meilisearch-go"
	"github.com/rs/zerolog/log"

	"github.com/kunal592/MD-BlogApp/internal/bootstrap"
	"github.com/kunal592/MD-BlogApp/internal/config"
	"github.com/kunal592/MD-BlogApp/internal/jobs"
	blogRepo "github.com/kunal592/MD-BlogApp/internal/modules/blog/repository"
	"github.com/kunal592/MD-BlogApp/internal/modules/search"
	"github.com/kunal592/MD-BlogApp/internal/server"
	"github.com/kunal592/MD-BlogApp/pkg/database"
	"github.com/kunal592/MD-BlogApp/pkg/identity"
	"github.com/kunal592/MD-BlogApp/pkg/logger"
	"github.com/kunal592/MD-BlogApp/pkg/storage"
	"github.com/kunal592/MD-BlogApp/pkg/summarizer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	logger.Setup(cfg.AppEnv, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	if err := bootstrap.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}
	if err := bootstrap.SeedAdminUser(db, cfg.AdminEmail); err != nil {
		log.Fatal().Err(err).Msg("failed to seed admin user")
	}

	redisClient := database.ConnectRedis(ctx, cfg.RedisURL)
	if redisClient != nil {
		defer redisClient.Close()
	}

	deps := server.Deps{
		Config:   cfg,
		DB:       db,
		Redis:    redisClient,
		Verifier: identity.NewGoogleVerifier(cfg.GoogleClientID),
		Tokens:   identity.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL),
	}

	if cfg.GoogleClientID != "" && cfg.GoogleClientSecret != "" {
		deps.OAuth = identity.NewOAuthFlow(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
	} else {
		log.Warn().Msg("google oauth redirect flow disabled, GOOGLE_CLIENT_SECRET not set")
	}

	imageStorage, err := storage.NewCloudinaryStorage(storage.CloudinaryConfig{
		CloudName:    cfg.CloudinaryCloudName,
		APIKey:       cfg.CloudinaryAPIKey,
		APISecret:    cfg.CloudinaryAPISecret,
		UploadFolder: cfg.CloudinaryUploadFolder,
	})
	if err != nil {
		log.Warn().Err(err).Msg("cloudinary not configured, image uploads disabled")
	} else {
		deps.Storage = imageStorage
	}

	if cfg.GeminiAPIKey != "" {
		gemini, err := summarizer.NewGeminiProvider(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Warn().Err(err).Msg("gemini client unavailable, summaries disabled")
		} else {
			defer gemini.Close()
			deps.Summarizer = summarizer.New(gemini)
		}
	}

	if host := meiliHost(cfg.MeiliSearchHost); host != "" {
		client := meilisearch.New(host, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
		deps.Indexer = search.NewMeiliIndexer(client)
	} else {
		log.Warn().Msg("MEILISEARCH_HOST not set, search falls back to the database")
	}

	scheduler := jobs.NewScheduler(10 * time.Minute)
	if deps.Indexer != nil {
		reindex := jobs.NewReindexJob(blogRepo.NewBlogRepository(db), deps.Indexer, cfg.SearchReindexCron)
		if err := scheduler.Register(reindex); err != nil {
			log.Fatal().Err(err).Msg("invalid SEARCH_REINDEX_CRON")
		}
	}
	scheduler.Start()

	srv := server.NewServer(deps)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("server exited with error")
		}
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown failed")
	}
	scheduler.Stop(shutdownCtx)

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info().Msg("server stopped")
}

func meiliHost(host string) string {
	host = strings.TrimSpace(host)
	if host == "" || strings.HasPrefix(host, "http") {
		return host
	}
	return "http://" + host + ":7700"
}
