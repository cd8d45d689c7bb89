package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/lineclear/api"
	"github.com/domino14/lineclear/config"
	"github.com/domino14/lineclear/game"
	"github.com/domino14/lineclear/logging"
)

const (
	GracefulShutdownTimeout = 20 * time.Second
	sessionIdleTimeout      = 2 * time.Hour
)

func main() {
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logging.Setup(cfg.GetBool(config.ConfigDebug))
	log.Info().Interface("config", cfg.SanitizedSettings()).Msg("loaded-config")
	if !cfg.GetBool(config.ConfigDebug) {
		gin.SetMode(gin.ReleaseMode)
	}

	store := game.NewMemoryStore(game.SolverOptions{
		TranspositionTable: cfg.GetBool(config.ConfigSolverTT),
		TTMemoryFraction:   cfg.GetFloat64(config.ConfigSolverTTMemoryFraction),
		Timeout:            cfg.GetDuration(config.ConfigSolverTimeout),
	})
	router := api.NewRouter(store, api.RouterConfig{
		GenMinDim: cfg.GetInt(config.ConfigGenMinDim),
		GenMaxDim: cfg.GetInt(config.ConfigGenMaxDim),
	})
	srv := &http.Server{
		Addr:    cfg.GetString(config.ConfigHTTPAddr),
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				store.Expire(sessionIdleTimeout)
			}
		}
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("got quit signal...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), GracefulShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("server-error")
	}
	log.Info().Msg("server gracefully shutting down")
}
