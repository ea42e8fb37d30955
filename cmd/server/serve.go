package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ahmednasr/ai-in-action/embed-api/internal/handler"
	"github.com/ahmednasr/ai-in-action/embed-api/internal/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Load the model and start the HTTP server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := globalConfig

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The model is loaded before the listener opens and never replaced.
	embedder, err := loadModel(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := embedder.Close(); err != nil {
			slog.Warn("failed to release model", "error", err)
		}
	}()

	svc := service.NewEmbedService(cfg.ModelName, embedder)
	app := handler.NewApp(svc, handler.AppOptions{
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		BodyLimitMB:    cfg.BodyLimitMB,
		MetricsEnabled: cfg.MetricsEnabled,
	})

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Addr(), "model", cfg.ModelName)
		errCh <- app.Listen(cfg.Addr())
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down", "grace", cfg.ShutdownGrace.String())
	shutdownCtx := context.Background()
	if cfg.ShutdownGrace > 0 {
		var cancel context.CancelFunc
		shutdownCtx, cancel = context.WithTimeout(shutdownCtx, cfg.ShutdownGrace)
		defer cancel()
	}
	if err := app.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return <-errCh
}
