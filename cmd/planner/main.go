package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Freeeeeet/kite_planner/internal/app"
	"github.com/Freeeeeet/kite_planner/internal/config"
	"github.com/Freeeeeet/kite_planner/internal/controller"
	"github.com/Freeeeeet/kite_planner/internal/metrics"
	"github.com/Freeeeeet/kite_planner/internal/repository"
	"github.com/Freeeeeet/kite_planner/internal/service"
	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	logger.Info("Starting kite planner", zap.String("environment", cfg.Environment))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Planner stopped with error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("Planner stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	pool, err := pgxpool.New(ctx, cfg.GetDBDSN())
	if err != nil {
		return fmt.Errorf("create pool: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	logger.Info("Connected to database")

	migrator, err := app.NewMigrator(pool, cfg.MigrationsPath, logger)
	if err != nil {
		return err
	}
	if err := migrator.Run(ctx); err != nil {
		migrator.Close()
		return err
	}
	migrator.Close()

	// Метрики
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewMetrics("kite_planner", registry)

	// Репозитории
	eventRepo := repository.NewEventRepository(pool)
	lessonRepo := repository.NewLessonRepository(pool, eventRepo)
	bookingRepo := repository.NewBookingRepository(pool, lessonRepo)
	teacherRepo := repository.NewTeacherRepository(pool)

	// Сервисы
	plannerService := service.NewPlannerService(
		eventRepo,
		lessonRepo,
		bookingRepo,
		service.PlannerConfig{
			DefaultCaps:  cfg.Caps,
			DefaultStart: cfg.DefaultStart,
		},
		m,
		logger,
	)
	bookingService := service.NewBookingService(bookingRepo, logger)

	// Фоновая проверка броней
	sweeper := app.NewAttentionSweeper(bookingService, cfg.SweepInterval, m, logger)
	sweeper.Start(ctx)
	defer sweeper.Stop()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := pool.Ping(r.Context()); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Healthy"))
	})

	server := &http.Server{
		Addr:         cfg.MetricsAddr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting metrics server", zap.String("addr", cfg.MetricsAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server error", zap.Error(err))
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Metrics server shutdown error", zap.Error(err))
		}
	}()

	// Бот
	b, err := bot.New(cfg.TelegramToken)
	if err != nil {
		return fmt.Errorf("create bot: %w", err)
	}

	botController := controller.NewBotController(
		b,
		plannerService,
		bookingService,
		teacherRepo,
		cfg.DefaultLocation,
		logger,
	)
	if err := botController.RegisterHandlers(ctx); err != nil {
		return fmt.Errorf("register handlers: %w", err)
	}

	// Блокируется до SIGINT/SIGTERM
	return botController.Start(ctx)
}
