// Package shell is an interactive console for playing against the solver.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog/log"

	"github.com/domino14/lineclear/config"
	"github.com/domino14/lineclear/game"
)

type ShellController struct {
	l      *readline.Instance
	config *config.Config

	session *game.Session

	// ctx is cancelled by Cleanup, which stops a running solve.
	ctx    context.Context
	cancel context.CancelFunc
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func showMessage(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func NewShellController(cfg *config.Config) *ShellController {
	prompt := "\033[31mlineclear>\033[0m "
	l, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     "/tmp/lineclear_readline.tmp",
		AutoComplete:    newCompleter(),
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	sc := newController(cfg)
	sc.l = l
	return sc
}

func newController(cfg *config.Config) *ShellController {
	ctx, cancel := context.WithCancel(context.Background())
	return &ShellController{config: cfg, ctx: ctx, cancel: cancel}
}

func (sc *ShellController) solverOptions() game.SolverOptions {
	return game.SolverOptions{
		TranspositionTable: sc.config.GetBool(config.ConfigSolverTT),
		TTMemoryFraction:   sc.config.GetFloat64(config.ConfigSolverTTMemoryFraction),
		Timeout:            sc.config.GetDuration(config.ConfigSolverTimeout),
	}
}

func (sc *ShellController) stdout() io.Writer {
	if sc.l == nil {
		return os.Stdout
	}
	return sc.l.Stdout()
}

func (sc *ShellController) stderr() io.Writer {
	if sc.l == nil {
		return os.Stderr
	}
	return sc.l.Stderr()
}

func (sc *ShellController) showMessage(msg string) {
	showMessage(msg, sc.stdout())
}

func (sc *ShellController) showError(err error) {
	showMessage("Error: "+err.Error(), sc.stderr())
}

func (sc *ShellController) standardModeSwitch(ctx context.Context, cmd *shellcmd) (*Response, error) {
	switch cmd.cmd {
	case "exit", "quit":
		return nil, errExit
	case "help":
		if len(cmd.args) == 0 {
			return msg(usage()), nil
		}
		return msg(usageTopic(cmd.args[0])), nil
	case "new":
		return sc.newGame(cmd)
	case "load":
		return sc.load(cmd)
	case "save":
		return sc.save(cmd)
	case "show", "s":
		return sc.show(cmd)
	case "play":
		return sc.play(cmd)
	case "ai":
		return sc.aiMove(ctx, cmd)
	case "hint", "solve":
		return sc.hint(ctx, cmd)
	case "points":
		return sc.points(cmd)
	case "check":
		return sc.check(cmd)
	}
	return nil, fmt.Errorf("command %v not found", cmd.cmd)
}

// Execute runs a single line. It returns errExit when the line asks to quit.
func (sc *ShellController) Execute(line string) error {
	cmd, err := extractFields(line)
	if errors.Is(err, errNoData) {
		return nil
	}
	if err != nil {
		sc.showError(err)
		return nil
	}
	resp, err := sc.standardModeSwitch(sc.ctx, cmd)
	if errors.Is(err, errExit) {
		return err
	}
	if err != nil {
		sc.showError(err)
		return nil
	}
	if resp != nil && resp.message != "" {
		sc.showMessage(resp.message)
	}
	return nil
}

func (sc *ShellController) Loop(sig chan os.Signal) {
	defer sc.l.Close()

	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			} else {
				continue
			}
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)

		if err := sc.Execute(line); errors.Is(err, errExit) {
			sig <- syscall.SIGINT
			break
		}
	}
	log.Debug().Msgf("Exiting readline loop...")
}

// Cleanup stops any solve that is still running.
func (sc *ShellController) Cleanup() {
	sc.cancel()
	log.Info().Msg("shell-cleanup")
}
