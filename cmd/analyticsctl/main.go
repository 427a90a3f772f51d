// Command analyticsctl runs maintenance tasks against the analytics database:
// migrations, file imports, report exports and KPI recalculation.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/staffpulse/analytics-api/internal/app"
	"github.com/staffpulse/analytics-api/internal/config"
	"github.com/staffpulse/analytics-api/internal/pkg/database"
	"github.com/staffpulse/analytics-api/internal/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "analyticsctl",
		Short:         "Workload analytics maintenance tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newMigrateCmd(), newImportCmd(), newExportCmd(), newKPICmd())
	return cmd
}

// loadConfig reads the environment and installs the stderr logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger.New(os.Stderr, cfg.App.Env, cfg.App.LogLevel))
	return cfg, nil
}

// withServices opens the database, builds the services and closes the pool after fn.
func withServices(ctx context.Context, fn func(services *app.Services) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
		MaxConns: int32(cfg.Database.MaxConns),
		MinConns: int32(cfg.Database.MinConns),
	})
	if err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}
	defer db.Close()

	services, err := app.NewServices(cfg, db)
	if err != nil {
		return err
	}
	return fn(services)
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
