// solve reads a board, solves it exactly, and writes the best first move, the
// final point difference and the run time to the output file.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/domino14/lineclear/boardtxt"
	"github.com/domino14/lineclear/config"
	"github.com/domino14/lineclear/endgame/alphabeta"
	"github.com/domino14/lineclear/logging"
)

func run(ctx context.Context, cfg *config.Config, stdout io.Writer) error {
	in, err := os.Open(cfg.GetString(config.ConfigInput))
	if err != nil {
		return err
	}
	defer in.Close()
	b, err := boardtxt.Parse(in)
	if err != nil {
		return fmt.Errorf("%s: %w", cfg.GetString(config.ConfigInput), err)
	}
	fmt.Fprint(stdout, b.String(), "\n")

	s := &alphabeta.Solver{}
	if err := s.Init(b); err != nil {
		return err
	}
	s.SetTranspositionTableOptim(cfg.GetBool(config.ConfigSolverTT))
	s.SetTranspositionTableMemoryFraction(cfg.GetFloat64(config.ConfigSolverTTMemoryFraction))

	if t := cfg.GetDuration(config.ConfigSolverTimeout); t > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t)
		defer cancel()
	}
	sol, err := s.Solve(ctx)
	if err != nil {
		return err
	}

	out, err := os.Create(cfg.GetString(config.ConfigOutput))
	if err != nil {
		return err
	}
	defer out.Close()
	if err := boardtxt.WriteResult(io.MultiWriter(out, stdout), sol); err != nil {
		return err
	}
	log.Debug().Str("output", cfg.GetString(config.ConfigOutput)).Msg("wrote-result")
	return nil
}

func main() {
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logging.Setup(cfg.GetBool(config.ConfigDebug))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, os.Stdout); err != nil {
		log.Fatal().Err(err).Msg("solve-failed")
	}
}
