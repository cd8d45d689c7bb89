package shell

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/domino14/lineclear/bitboard"
	"github.com/domino14/lineclear/boardtxt"
	"github.com/domino14/lineclear/config"
	"github.com/domino14/lineclear/endgame/alphabeta"
	"github.com/domino14/lineclear/game"
	"github.com/domino14/lineclear/generator"
)

var (
	errNoData            = errors.New("no data in this line")
	errWrongOptionSyntax = errors.New("wrong format; all options need arguments")
	errNoGame            = errors.New("please start a game first with the `new` or `load` command")
	errExit              = errors.New("exiting")
)

type Response struct {
	message string
}

func msg(message string) *Response {
	return &Response{message: message}
}

type shellcmd struct {
	cmd     string
	args    []string
	options map[string]string
}

// extractFields splits a line into a command, its positional arguments, and
// any `-name value` options.
func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := &shellcmd{cmd: fields[0], options: map[string]string{}}
	for i := 1; i < len(fields); i++ {
		if strings.HasPrefix(fields[i], "-") {
			if i == len(fields)-1 {
				return nil, errWrongOptionSyntax
			}
			cmd.options[fields[i][1:]] = fields[i+1]
			i++
			continue
		}
		cmd.args = append(cmd.args, fields[i])
	}
	return cmd, nil
}

func (sc *ShellController) gameDisplay() string {
	p := sc.session.Points()
	var sb strings.Builder
	sb.WriteString(sc.session.Board().String())
	fmt.Fprintf(&sb, "\nPlayer: %d   AI: %d\n", p.Human, p.AI)
	return sb.String()
}

func (sc *ShellController) startGame(b *bitboard.Board) (*Response, error) {
	s, err := game.NewSession(b, sc.solverOptions())
	if err != nil {
		return nil, err
	}
	sc.session = s
	return msg(sc.gameDisplay()), nil
}

func (sc *ShellController) newGame(cmd *shellcmd) (*Response, error) {
	var b *bitboard.Board
	var err error
	switch len(cmd.args) {
	case 0:
		b, err = generator.Random(sc.config.GetInt(config.ConfigGenMinDim), sc.config.GetInt(config.ConfigGenMaxDim))
	case 2:
		dims := make([]int, 2)
		for i, a := range cmd.args {
			if dims[i], err = strconv.Atoi(a); err != nil {
				return nil, err
			}
		}
		b, err = generator.Generate(dims[0], dims[1])
	default:
		return nil, errors.New("usage: new [rows cols]")
	}
	if err != nil {
		return nil, err
	}
	return sc.startGame(b)
}

func (sc *ShellController) load(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: load <file>")
	}
	f, err := os.Open(cmd.args[0])
	if err != nil {
		return nil, err
	}
	defer f.Close()
	b, err := boardtxt.Parse(f)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("file", cmd.args[0]).Msg("loaded-board")
	return sc.startGame(b)
}

func (sc *ShellController) save(cmd *shellcmd) (*Response, error) {
	if sc.session == nil {
		return nil, errNoGame
	}
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: save <file>")
	}
	f, err := os.Create(cmd.args[0])
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if err := boardtxt.Write(f, sc.session.Board()); err != nil {
		return nil, err
	}
	return msg("saved board to " + cmd.args[0]), nil
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	if sc.session == nil {
		return nil, errNoGame
	}
	return msg(sc.gameDisplay()), nil
}

// withOutcome appends the final result to a display once the board is clear.
func (sc *ShellController) withOutcome(display string) string {
	o := sc.session.Outcome()
	if !o.Over {
		return display
	}
	return display + "\nGame over. " + o.Message
}

func (sc *ShellController) play(cmd *shellcmd) (*Response, error) {
	if sc.session == nil {
		return nil, errNoGame
	}
	if len(cmd.args) != 2 {
		return nil, errors.New("usage: play row|col <n>")
	}
	axis, err := bitboard.ParseAxis(cmd.args[0])
	if err != nil {
		return nil, err
	}
	n, err := strconv.Atoi(cmd.args[1])
	if err != nil {
		return nil, err
	}
	m := bitboard.Move{Index: n - 1, Axis: axis}
	p, err := sc.session.PlayerMove(m)
	if err != nil {
		return nil, err
	}
	return msg(sc.withOutcome(fmt.Sprintf("You played %v for %d.\n%s", m, p, sc.gameDisplay()))), nil
}

func (sc *ShellController) aiMove(ctx context.Context, cmd *shellcmd) (*Response, error) {
	if sc.session == nil {
		return nil, errNoGame
	}
	m, p, err := sc.session.AIMove(ctx)
	if err != nil {
		return nil, err
	}
	return msg(sc.withOutcome(fmt.Sprintf("AI played %v for %d.\n%s", m, p, sc.gameDisplay()))), nil
}

func pvString(pv []bitboard.Move) string {
	return strings.Join(lo.Map(pv, func(m bitboard.Move, _ int) string {
		return m.ShortDescription()
	}), " ")
}

func (sc *ShellController) hint(ctx context.Context, cmd *shellcmd) (*Response, error) {
	if sc.session == nil {
		return nil, errNoGame
	}
	var sol *alphabeta.Solution
	var err error
	logfile := cmd.options["log"]
	if logfile != "" {
		f, err := os.Create(logfile)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		sol, err = sc.session.HintTrace(ctx, f)
		if err != nil {
			return nil, err
		}
	} else {
		sol, err = sc.session.Hint(ctx)
		if err != nil {
			return nil, err
		}
	}
	out := boardtxt.ResultString(sol) + "PV: " + pvString(sol.PV)
	if logfile != "" {
		out += "\nsearch tree written to " + logfile
	}
	return msg(out), nil
}

func (sc *ShellController) points(cmd *shellcmd) (*Response, error) {
	if sc.session == nil {
		return nil, errNoGame
	}
	p := sc.session.Points()
	return msg(fmt.Sprintf("Player: %d   AI: %d", p.Human, p.AI)), nil
}

func (sc *ShellController) check(cmd *shellcmd) (*Response, error) {
	if sc.session == nil {
		return nil, errNoGame
	}
	o := sc.session.Outcome()
	if !o.Over {
		return msg("The game is not over yet."), nil
	}
	return msg("Game over. " + o.Message), nil
}
