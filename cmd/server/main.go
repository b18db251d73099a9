package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kafkaan/fit-coach-link/internal/api"
	"github.com/kafkaan/fit-coach-link/internal/config"
	"github.com/kafkaan/fit-coach-link/internal/draft"
	"github.com/kafkaan/fit-coach-link/internal/logging"
	"github.com/kafkaan/fit-coach-link/internal/metrics"
	"github.com/kafkaan/fit-coach-link/internal/repository/mongo"
	"github.com/kafkaan/fit-coach-link/internal/service"
	"github.com/kafkaan/fit-coach-link/internal/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// @title Fit Coach Link API
// @version 1.0
// @description Coaches build workout programs for their athletes; athletes complete them and report how they feel.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	configDir := flag.String("config", ".", "directory holding config.yaml and .env")
	flag.Parse()

	// --- Configuration ---
	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}

	logging.Setup(logging.SetupParams{
		LogFileName:   cfg.Log.File,
		LogToStdout:   cfg.Log.Stdout,
		LogLevel:      cfg.Log.Level,
		LogFormatJSON: cfg.Log.JSON,
	})
	log.Info("starting fit coach link server")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// --- Database ---
	dbClient, err := mongo.ConnectDB(ctx, cfg.Database.URI)
	if err != nil {
		log.Fatalf("could not connect to MongoDB: %v", err)
	}
	defer func() {
		log.Info("disconnecting MongoDB")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Errorf("failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)

	indexCtx, indexCancel := context.WithTimeout(ctx, time.Minute)
	if err := mongo.EnsureIndexes(indexCtx, appDB); err != nil {
		// the unique indexes back the single-session and single-link rules
		indexCancel()
		log.Fatalf("could not ensure indexes: %v", err)
	}
	indexCancel()
	log.Info("database connected and indexes ensured")

	// --- Draft store ---
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client: %v", err)
		}
	}()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("could not reach redis at %s: %v", cfg.Redis.Addr, err)
	}
	drafts := draft.NewStore(redisClient, cfg.Redis.DraftTTL)

	// --- File storage ---
	fileStorage, err := storage.NewS3Storage(ctx, cfg.S3)
	if err != nil {
		log.Fatalf("failed to initialize S3 storage: %v", err)
	}

	// --- Metrics ---
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metricsManager := metrics.NewManager("fitcoach", "server", registry)

	// --- Repositories ---
	profileRepo := mongo.NewMongoProfileRepository(appDB)
	relationshipRepo := mongo.NewMongoRelationshipRepository(appDB)
	programRepo := mongo.NewMongoProgramRepository(appDB)
	sessionRepo := mongo.NewMongoSessionRepository(appDB)
	assessmentRepo := mongo.NewMongoAssessmentRepository(appDB)
	statsRepo := mongo.NewMongoStatsRepository(appDB)
	libraryRepo := mongo.NewMongoLibraryRepository(appDB)
	mediaRepo := mongo.NewMongoMediaRepository(appDB)

	// --- Services ---
	notifier := api.NewNotifier()
	buckets := cfg.Assessment.Buckets()
	services := api.Services{
		Auth:    service.NewAuthService(profileRepo, cfg.JWT.Secret, cfg.JWT.Expiration),
		Profile: service.NewProfileService(profileRepo),
		Coach:   service.NewCoachService(profileRepo, relationshipRepo, programRepo, sessionRepo),
		Athlete: service.NewAthleteService(programRepo, sessionRepo, assessmentRepo, metricsManager),
		Program: service.NewProgramService(programRepo, relationshipRepo, libraryRepo, drafts, notifier, metricsManager),
		Stats:   service.NewStatsService(statsRepo, relationshipRepo, buckets),
		Library: service.NewLibraryService(libraryRepo),
		Media:   service.NewMediaService(mediaRepo, fileStorage, cfg.S3.PresignExpiry),
	}

	// --- HTTP ---
	gin.SetMode(cfg.Server.GinMode)
	router := api.NewRouter(services, notifier, buckets, metricsManager, registry)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Infof("server listening on %s", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-serverErr:
		log.Errorf("server stopped: %v", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("server forced to shutdown: %v", err)
	}
	log.Info("server exiting")
}
