package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/campusdesk/erp-backend/internal/config"
	"github.com/campusdesk/erp-backend/internal/database"
	"github.com/campusdesk/erp-backend/internal/document"
	"github.com/campusdesk/erp-backend/internal/handler"
	"github.com/campusdesk/erp-backend/internal/logger"
	"github.com/campusdesk/erp-backend/internal/repository"
	"github.com/campusdesk/erp-backend/internal/router"
	"github.com/campusdesk/erp-backend/internal/service"
	"github.com/campusdesk/erp-backend/internal/storage"
	"github.com/campusdesk/erp-backend/internal/validator"
	"github.com/campusdesk/erp-backend/internal/worker"
	"github.com/rs/zerolog"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting College ERP question paper service")
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Document Output ───────────────────────────────────────────────
	tmpl, err := config.LoadDocumentTemplate(cfg.DocumentTemplatePath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DocumentTemplatePath).Msg("Invalid document template")
	}
	docStore, err := storage.NewLocalStorage(cfg.DocumentDir, log)
	if err != nil {
		log.Fatal().Err(err).Str("dir", cfg.DocumentDir).Msg("Document storage unavailable")
	}

	// ─── Initialize Repositories ───────────────────────────────────────
	accountRepo := repository.NewAccountRepository(pool)
	courseRepo := repository.NewCourseRepository(pool)
	assignmentRepo := repository.NewAssignmentRepository(pool)
	paperRepo := repository.NewPaperRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)
	dashboardRepo := repository.NewDashboardRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, rdb)
	accountService := service.NewAccountService(accountRepo)
	courseService := service.NewCourseService(courseRepo, rdb, log)
	notificationService := service.NewNotificationService(notificationRepo, accountRepo, rdb, log)
	assignmentService := service.NewAssignmentService(assignmentRepo, courseRepo, notificationService, log)
	dashboardService := service.NewDashboardService(dashboardRepo)
	paperService := service.NewQuestionPaperService(service.QuestionPaperDeps{
		Papers:      paperRepo,
		Courses:     courseService,
		Assignments: assignmentRepo,
		Renderer:    document.NewWriter(tmpl),
		Store:       docStore,
		Workbook:    document.WriteDistributionWorkbook,
		Notifier:    notificationService,
	}, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:          handler.NewAuthHandler(authService, accountService, log),
		Dashboard:     handler.NewDashboardHandler(dashboardService, log),
		Course:        handler.NewCourseHandler(courseService, log),
		Assignment:    handler.NewAssignmentHandler(assignmentService, log),
		QuestionPaper: handler.NewQuestionPaperHandler(paperService, log),
		Review:        handler.NewReviewHandler(paperService, log),
		Notification:  handler.NewNotificationHandler(notificationService, log),
		WS:            handler.NewWSHandler(notificationService, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())
	var workers sync.WaitGroup

	notificationWorker := worker.NewNotificationWorker(notificationRepo, rdb, log)
	workers.Add(1)
	go func() {
		defer workers.Done()
		notificationWorker.Start(workerCtx)
	}()

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(ctx, authService, handlers, cfg, log)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (10s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop background workers and wait for the queue to drain.
	workerCancel()
	workers.Wait()

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
