package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/staffpulse/analytics-api/internal/app"
	"github.com/staffpulse/analytics-api/internal/config"
	appHTTP "github.com/staffpulse/analytics-api/internal/handler/http"
	"github.com/staffpulse/analytics-api/internal/handler/http/middleware"
	"github.com/staffpulse/analytics-api/internal/handler/http/response"
	"github.com/staffpulse/analytics-api/internal/pkg/cron"
	"github.com/staffpulse/analytics-api/internal/pkg/database"
	"github.com/staffpulse/analytics-api/internal/pkg/logger"
	"github.com/staffpulse/analytics-api/migrations"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	appLogger := logger.New(os.Stdout, cfg.App.Env, cfg.App.LogLevel)
	slog.SetDefault(appLogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, appLogger); err != nil {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, appLogger *slog.Logger) error {
	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(ctx, dsn, database.PoolOptions{
		MaxConns: int32(cfg.Database.MaxConns),
		MinConns: int32(cfg.Database.MinConns),
	})
	if err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.NewMigrator(dsn, migrations.FS).Up(ctx); err != nil {
			return err
		}
	}

	services, err := app.NewServices(cfg, db)
	if err != nil {
		return err
	}

	response.SetDetailedErrors(cfg.IsDevelopment())

	rateLimit, err := middleware.RateLimit(cfg.RateLimit.Rate)
	if err != nil {
		return err
	}

	router := appHTTP.NewRouter(appLogger, appHTTP.RouterOptions{
		AllowedOrigins: cfg.App.AllowedOrigins,
		UploadsDir:     services.UploadsDir,
		RateLimit:      rateLimit,
	}, services.Handlers())

	scheduler := cron.NewScheduler()
	cron.NewKPIJobs(services.Analytics).RegisterJobs(scheduler, cfg.Analytics.KPIRecalcInterval)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Server running", "addr", server.Addr, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
