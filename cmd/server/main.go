package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/joaaoazul/SIGANEXT-sub000/internal/app"
	"github.com/joaaoazul/SIGANEXT-sub000/internal/config"
	apphttp "github.com/joaaoazul/SIGANEXT-sub000/internal/http"
	"github.com/joaaoazul/SIGANEXT-sub000/internal/repository"
	"github.com/joaaoazul/SIGANEXT-sub000/internal/repository/memory"
	"github.com/joaaoazul/SIGANEXT-sub000/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var slotRepo repository.SlotRepository
	var bookingRepo repository.BookingRepository

	if cfg.DBDSN != "" {
		pool, err := pgxpool.New(ctx, cfg.DBDSN)
		if err != nil {
			logger.Fatal("Failed to create connection pool", zap.Error(err))
		}
		defer pool.Close()

		migrator, err := app.NewMigrator(pool, cfg.MigrationsPath)
		if err != nil {
			logger.Fatal("Failed to create migrator", zap.Error(err))
		}
		if err := migrator.Run(ctx); err != nil {
			logger.Fatal("Failed to apply migrations", zap.Error(err))
		}
		migrator.Close()

		slotRepo = repository.NewPostgresSlotRepository(pool)
		bookingRepo = repository.NewPostgresBookingRepository(pool)
		logger.Info("Using Postgres storage")
	} else {
		store := memory.NewStore()
		slotRepo = store.Slots()
		bookingRepo = store.Bookings()
		logger.Info("DB_DSN not set, using in-memory storage")
	}

	slotService := service.NewSlotService(slotRepo, bookingRepo, logger)
	bookingService := service.NewBookingService(slotRepo, bookingRepo, logger)
	scheduleService := service.NewScheduleService(slotRepo, bookingRepo, logger)

	router := apphttp.NewRouter(slotService, bookingService, scheduleService, logger)

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	go func() {
		logger.Info("Starting booking server",
			zap.String("addr", cfg.HTTPAddr),
			zap.String("environment", cfg.Environment),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
}
