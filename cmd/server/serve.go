package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsrsite/internal/cas"
	"github.com/fsrsite/internal/db"
	"github.com/fsrsite/internal/handler"
	"github.com/fsrsite/internal/logging"
	"github.com/fsrsite/internal/router"
	"github.com/fsrsite/internal/service"
	"github.com/spf13/cobra"
)

const mediaPurgeSchedule = "@daily"

var serveCommand = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	Run: func(cmd *cobra.Command, args []string) {
		runServe()
	},
}

func runServe() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := openDatabase(); err != nil {
		logging.Fatal().Err(err).Msg("database setup failed")
	}
	store, err := openContentStore(ctx)
	if err != nil {
		logging.Fatal().Err(err).Str("backend", cfg.ContentBackend).Msg("content store setup failed")
	}

	api := handler.NewAPI(db.DB, store, cas.New(cfg.CASBaseURL, cfg.CASTimeout), handler.Options{
		SuperFSR:       cfg.SuperFSR,
		PublicBaseURL:  cfg.PublicBaseURL,
		UploadMaxBytes: cfg.UploadMaxBytes,
	})
	h, err := router.Handler(api, db.DB, router.Options{
		SessionSecret: cfg.SessionSecret,
		SessionStore:  cfg.SessionStore,
		SessionSecure: cfg.SessionSecure,
		CORSOrigins:   cfg.CORSOrigins,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("router setup failed")
	}

	var sweeper *service.MediaSweeper
	if cfg.MediaRetention > 0 {
		sweeper, err = service.NewMediaSweeper(api.Media(), cfg.MediaRetention, mediaPurgeSchedule)
		if err != nil {
			logging.Fatal().Err(err).Msg("media sweeper setup failed")
		}
		sweeper.Start()
	}

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logging.Info().Str("addr", cfg.ListenAddr).Msg("serving fsr backend")
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logging.Error().Err(err).Msg("server shut down unexpectedly")
			stop()
		}
	}()

	<-ctx.Done()
	logging.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Warn().Err(err).Msg("server did not shut down gracefully")
	}
	if sweeper != nil {
		sweeper.Stop()
	}
}
