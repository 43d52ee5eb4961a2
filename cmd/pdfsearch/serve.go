package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pdfsearch/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve search, download and info over HTTP",
	Long: `Index the folder and serve the HTTP API.

Endpoints:
  GET /health
  GET /api/v1/search?q=<query>&k=<n>
  GET /api/v1/documents/<id>/text
  GET /api/v1/info
  GET /metrics`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := bootstrap(ctx, modeCLI, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	srv, err := server.New(a.svc, a.logger, server.Config{
		Host:        a.cfg.Server.Host,
		Port:        a.cfg.Server.Port,
		DefaultTopK: a.cfg.Search.TopK,
		Gatherer:    a.registry,
	})
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		a.logger.Warn("http shutdown", zap.Error(err))
	}
	return nil
}
