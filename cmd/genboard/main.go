// genboard writes a random board in text format.
//
//	genboard <rows> <cols> <output>
package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/domino14/lineclear/boardtxt"
	"github.com/domino14/lineclear/config"
	"github.com/domino14/lineclear/generator"
	"github.com/domino14/lineclear/logging"
)

func run(args []string) error {
	if len(args) != 3 {
		return errors.New("usage: genboard <rows> <cols> <output>")
	}
	rows, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("rows: %w", err)
	}
	cols, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("cols: %w", err)
	}
	b, err := generator.Generate(rows, cols)
	if err != nil {
		return err
	}
	f, err := os.Create(args[2])
	if err != nil {
		return err
	}
	defer f.Close()
	if err := boardtxt.Write(f, b); err != nil {
		return err
	}
	log.Info().Int("rows", rows).Int("cols", cols).Int("active", b.Count()).
		Str("output", args[2]).Msg("wrote-board")
	return nil
}

func main() {
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logging.Setup(cfg.GetBool(config.ConfigDebug))
	if err := run(cfg.Args()); err != nil {
		log.Fatal().Err(err).Msg("genboard-failed")
	}
}
