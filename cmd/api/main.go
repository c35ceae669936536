// Habit Lab API
//
// REST API for running adaptive single-subject behavior experiments.
//
//	@title			Habit Lab API
//	@version		1.0
//	@description	Run baseline-plus-three-stage behavior experiments with daily check-ins, wearable data and adaptive targets.
//
//	@BasePath	/v1
//
//	@tag.name			users
//	@tag.description	User management endpoints
//
//	@tag.name			experiments
//	@tag.description	Experiment lifecycle and daily check-in endpoints
//
//	@tag.name			activity-events
//	@tag.description	Imported wearable event endpoints
//
//	@tag.name			feed
//	@tag.description	Wearable feed vendor integration
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/blaisecz/habit-lab/internal/api"
	"github.com/blaisecz/habit-lab/internal/api/handler"
	"github.com/blaisecz/habit-lab/internal/config"
	"github.com/blaisecz/habit-lab/internal/domain"
	"github.com/blaisecz/habit-lab/internal/llm"
	"github.com/blaisecz/habit-lab/internal/logging"
	"github.com/blaisecz/habit-lab/internal/repository"
	"github.com/blaisecz/habit-lab/internal/seed"
	"github.com/blaisecz/habit-lab/internal/service"
	"github.com/blaisecz/habit-lab/internal/telemetry"
	"github.com/blaisecz/habit-lab/internal/wearable"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	log, err := logging.Init(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Tracing (no-op unless Langfuse is configured)
	shutdownTracer, err := telemetry.InitTracer(ctx, cfg, "habit-lab-api")
	if err != nil {
		log.Warn("tracing disabled", zap.Error(err))
	} else {
		defer shutdownTracer(context.Background())
	}

	db, err := config.NewDatabase(cfg)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	if err := db.AutoMigrate(&domain.User{}, &domain.Experiment{}, &domain.Checkin{}, &domain.ActivityEvent{}); err != nil {
		log.Fatal("failed to migrate database", zap.Error(err))
	}
	log.Info("database migration completed")

	if cfg.Seed {
		log.Info("seeding database with sample data")
		if err := seed.Run(db); err != nil {
			log.Fatal("failed to seed database", zap.Error(err))
		}
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	experimentRepo := repository.NewExperimentRepository(db)
	checkinRepo := repository.NewCheckinRepository(db)
	eventRepo := repository.NewActivityEventRepository(db)

	// Services
	userService := service.NewUserService(userRepo)
	experimentService := service.NewExperimentService(experimentRepo, checkinRepo, eventRepo, userRepo)
	eventService := service.NewActivityEventService(eventRepo, userRepo)

	// OpenAI client (may be nil if not configured)
	openaiClient := llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAISummariesModel)
	if openaiClient == nil {
		log.Warn("OpenAI API key not configured, summary endpoint will be unavailable")
	}
	summaryService := service.NewSummaryService(experimentRepo, userRepo, openaiClient)

	// Wearable feed sync (disabled without a feed base URL)
	feedClient := wearable.NewFeedClient(cfg.FeedBaseURL)
	syncService := wearable.NewSyncService(feedClient, eventRepo, userRepo, cfg.FeedSyncLookback, log)
	if feedClient != nil {
		wearable.NewScheduler(log, syncService, cfg.FeedSyncInterval).Start(ctx)
	} else {
		log.Warn("feed base URL not configured, wearable sync disabled")
	}

	// Handlers
	userHandler := handler.NewUserHandler(userService)
	experimentHandler := handler.NewExperimentHandler(experimentService, summaryService)
	eventHandler := handler.NewActivityEventHandler(eventService)
	feedHandler := handler.NewFeedHandler(syncService, cfg.FeedWebhookSecret)

	router := api.NewRouter(log, userHandler, experimentHandler, eventHandler, feedHandler)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router.Setup(),
	}

	go func() {
		log.Info("starting server", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown failed", zap.Error(err))
	}
}
