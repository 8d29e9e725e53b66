package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/gridiron/internal/adapters/http/api"
	"github.com/okian/gridiron/internal/adapters/source"
	app "github.com/okian/gridiron/internal/app"
	"github.com/okian/gridiron/pkg/logger"
	"github.com/okian/gridiron/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Rate the game log and serve the ratings API",
		RunE:  runServe,
	}
	inputFlags(cmd)
	cmd.Flags().String("addr", "", "listen address (overrides addr)")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := setup(cmd)
	if err != nil {
		return err
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Addr = addr
	}
	ctx := cmd.Context()
	log := logger.Get()

	opts, err := serviceOptions(ctx, cfg)
	if err != nil {
		return err
	}
	if cfg.GamesPath != "" {
		opts = append(opts, app.WithGameSource(source.NewCSVFile(cfg.GamesPath)))
	} else {
		log.Warn(ctx, "no games_path configured; starting with an empty log")
	}

	svc := app.New(opts...)
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("start service: %w", err)
	}
	defer svc.Stop(context.WithoutCancel(ctx))

	go refreshServiceMetrics(ctx, svc)

	mux := http.NewServeMux()
	api.NewServer(svc, svc, cfg.MaxRankingsLimit).Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("%w: %w", api.ErrServe, err)
		}
	case <-ctx.Done():
	}
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	log.Info(ctx, "server stopped")
	return nil
}

// refreshServiceMetrics keeps the tracked gauges current between requests.
func refreshServiceMetrics(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(metrics.Default().RefreshInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			svc.GetStats()
		}
	}
}
