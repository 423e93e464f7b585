package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/nitegame/lobby/internal/admin"
	"github.com/nitegame/lobby/internal/config"
	"github.com/nitegame/lobby/internal/lobby"
	"github.com/nitegame/lobby/internal/transport/httpapi"
	"github.com/nitegame/lobby/internal/transport/ws"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	hub := ws.NewHub()
	manager := lobby.NewManager(hub, lobby.Options{
		IdleTTL:       cfg.IdleTTL,
		SweepInterval: cfg.SweepInterval,
	})
	tokens, err := admin.NewTokenService(cfg.Secret, cfg.AdminPassword)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up admin auth")
	}
	socket := ws.NewController(manager, hub, cfg.ReadLimit)

	go manager.Run(ctx)

	r := httpapi.SetupRouter(ctx, cfg, httpapi.Deps{
		Manager: manager,
		Tokens:  tokens,
		Socket:  socket,
	})
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("lobby server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	log.Info().Msg("server exited gracefully")
}
