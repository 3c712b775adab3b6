package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nextlevelbuilder/bilireply/internal/accounts"
	"github.com/nextlevelbuilder/bilireply/internal/engine"
)

const shutdownTimeout = 10 * time.Second

func listenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "listen",
		Short: "Run the auto-reply listeners for all configured accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			db, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			manager, err := accounts.NewManager(cfg.Accounts, db.Stores(), logNotifier())
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := manager.StartAll(ctx); err != nil {
				return err
			}
			slog.Info("listening", "accounts", len(manager.Accounts()))

			<-ctx.Done()
			slog.Info("shutting down")

			stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := manager.StopAll(stopCtx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}
			return nil
		},
	}
}

// logNotifier routes listener notifications into the structured log.
func logNotifier() engine.Notifier {
	return engine.NotifierFunc(func(msg string, category engine.Category) {
		switch category {
		case engine.CategoryError:
			slog.Error(msg)
		case engine.CategoryWarning:
			slog.Warn(msg)
		case engine.CategoryScan, engine.CategoryMessage:
			slog.Debug(msg, "category", string(category))
		default:
			slog.Info(msg, "category", string(category))
		}
	})
}
