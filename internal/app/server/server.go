package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ad-campaign-builder/internal/api"
	"ad-campaign-builder/internal/catalog"
	"ad-campaign-builder/internal/config"
	"ad-campaign-builder/internal/listener"
	"ad-campaign-builder/internal/replies"
	"ad-campaign-builder/internal/storage"

	"github.com/rs/zerolog/log"
)

func Run(cfg config.Config) {
	rootCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Storage
	store, err := storage.New(rootCtx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("init storage")
	}
	defer store.Close()

	// Catalog of saved blueprints + column sets. A failed initial load is
	// not fatal: previews and validation with inline columns still work.
	cat := catalog.New()
	if err := cat.Refresh(rootCtx, store); err != nil {
		log.Warn().Err(err).Msg("initial catalog load failed; continuing without saved blueprints")
	}

	sessions := replies.NewSessions()

	// HTTP
	h := api.NewHandler(cat, sessions, store)
	r := api.Router(h)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 3 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Listener (LISTEN/NOTIFY)
	go listener.ListenAndRefresh(rootCtx, store, cat, cfg.Listener.Channel, cfg.Backoff())

	// Server goroutine
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("http server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server crashed")
		}
	}()

	// Wait for signal
	waitForSignal()
	log.Info().Msg("shutdown...")

	// Graceful shutdown
	shCtx, shCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shCancel()
	cancel() // stop background goroutines
	_ = srv.Shutdown(shCtx)
}

func waitForSignal() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
}
