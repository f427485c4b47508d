package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Simplici0/limonero/internal/app"
	"github.com/Simplici0/limonero/internal/config"
	"github.com/Simplici0/limonero/internal/logger"
)

func main() {
	cfg, err := config.Load(nil, "")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	zl := logger.New(logger.Config{Env: cfg.Env, Level: cfg.LogLevel})
	for _, w := range cfg.Warnings() {
		zl.Warn().Msg(w)
	}

	a, err := app.Open(cfg, zl)
	if err != nil {
		zl.Fatal().Err(err).Msg("failed to open application")
	}
	defer a.Close()

	srv := newServer(a, zl)
	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		zl.Info().Str("addr", httpServer.Addr).Msg("listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zl.Error().Err(err).Msg("graceful shutdown failed")
	}
}

type server struct {
	app  *app.App
	auth *authService
	log  zerolog.Logger
}

func newServer(a *app.App, log zerolog.Logger) *server {
	return &server{
		app:  a,
		auth: newAuthService(a.DB, a.Config.SessionSecret, !a.Config.IsDev()),
		log:  log.With().Str("component", "http").Logger(),
	}
}
