package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/domino14/lineclear/bot"
	"github.com/domino14/lineclear/config"
	"github.com/domino14/lineclear/logging"
)

func main() {
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logging.Setup(cfg.GetBool(config.ConfigDebug))
	log.Info().Interface("config", cfg.SanitizedSettings()).Msg("loaded-config")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	b := bot.NewBot(cfg)
	if err := bot.Main(ctx, cfg.GetString(config.ConfigNatsChannel), b); err != nil {
		log.Fatal().Err(err).Msg("bot-exited")
	}
	log.Info().Msg("server gracefully shutting down")
}
