package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"logingest/internal/config"
	"logingest/internal/constants"
	"logingest/internal/logger"
	apperrors "logingest/pkg/errors"
	"logingest/pkg/logging"
)

var (
	configFile string

	// Version is set at build time with -ldflags "-X main.Version=...".
	Version = "dev"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           constants.ServiceName,
		Short:         "Login event ingestion job",
		Long:          "Pulls one login event from the queue, masks ip and device_id and stores it in user_logins",
		RunE:          runCmd().RunE,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to config file (optional, CONFIG_FILE)")

	rootCmd.AddCommand(runCmd(), migrateCmd(), showCmd(), checkCmd(), versionCmd())

	if err := rootCmd.Execute(); err != nil {
		var appErr *apperrors.Error
		if !errors.As(err, &appErr) {
			logging.NewEarlyLog().Error("%v", err)
		}
		os.Exit(apperrors.ExitCode(err))
	}
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Ingest one message from the queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp("Ingest run", func(ctx context.Context, app *App) error {
				return app.Run(ctx)
			})
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the user_logins table if it does not exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp("Migration", func(ctx context.Context, app *App) error {
				return app.Migrate(ctx)
			})
		},
	}
}

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the user_logins table",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp("Show", func(ctx context.Context, app *App) error {
				return app.Show(ctx)
			})
		},
	}
}

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check that the queue and the database are reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp("Health check", func(ctx context.Context, app *App) error {
				return app.Check(ctx)
			})
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", constants.ServiceName, Version)
		},
	}
}

// withApp loads config and logger, runs fn under a fresh run ID and always
// shuts the app down. A failure is logged with its kind before returning.
func withApp(operation string, fn func(ctx context.Context, app *App) error) error {
	earlyLog := logging.NewEarlyLog()

	if configFile == "" {
		configFile = os.Getenv("CONFIG_FILE")
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		earlyLog.Error("Failed to load config: %v", err)
		return apperrors.ErrConfig.WithCause(err)
	}

	log, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		earlyLog.Error("Failed to init logger: %v", err)
		return apperrors.ErrConfig.WithCause(err)
	}
	defer log.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	ctx = logging.WithRunID(ctx, uuid.NewString())
	ctx = logging.WithServiceName(ctx, constants.ServiceName)

	app := NewApp(cfg, log)
	if err := app.Initialize(ctx); err != nil {
		log.ErrorwCtx(ctx, "Failed to initialize application",
			"kind", apperrors.Kind(err),
			"error", err,
		)
		return err
	}

	log.InfowCtx(ctx, operation+" started", "version", Version)
	runErr := fn(ctx, app)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer shutdownCancel()
	if err := app.Shutdown(shutdownCtx); err != nil {
		log.WarnwCtx(ctx, "Shutdown completed with errors", "error", err)
	}

	if runErr != nil {
		log.ErrorwCtx(ctx, operation+" failed",
			"kind", apperrors.Kind(runErr),
			"exit_code", apperrors.ExitCode(runErr),
			"error", runErr,
		)
		return runErr
	}

	log.InfowCtx(ctx, operation+" completed")
	return nil
}
