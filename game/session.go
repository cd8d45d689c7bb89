// Package game holds the state of one human-versus-solver game: the board,
// the solver bound to it, and both players' running totals.
package game

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/domino14/lineclear/bitboard"
	"github.com/domino14/lineclear/endgame/alphabeta"
)

var (
	ErrGameOver  = errors.New("the game is over")
	ErrEmptyLine = errors.New("that line has no active cells")
)

type Winner int

const (
	NoWinner Winner = iota
	HumanWins
	AIWins
	Tie
)

func (w Winner) String() string {
	switch w {
	case HumanWins:
		return "player"
	case AIWins:
		return "ai"
	case Tie:
		return "tie"
	}
	return "none"
}

// SolverOptions are applied to the solver of every new session.
type SolverOptions struct {
	TranspositionTable bool
	TTMemoryFraction   float64
	// Timeout bounds every solve. Zero means no limit.
	Timeout time.Duration
}

type Points struct {
	Human int `json:"player"`
	AI    int `json:"AI"`
}

type Outcome struct {
	Over    bool   `json:"check"`
	Winner  Winner `json:"-"`
	Message string `json:"message"`
}

type Snapshot struct {
	Rows  int     `json:"rows"`
	Cols  int     `json:"cols"`
	Board [][]int `json:"board"`
}

// Session is safe for concurrent use. Every method holds the session lock for
// its whole duration, including a solve, so the board is never seen in the
// middle of a search.
type Session struct {
	mu      sync.Mutex
	id      string
	board   *bitboard.Board
	solver  *alphabeta.Solver
	opts    SolverOptions
	points  Points
	created time.Time
	// lastAccess is used by the store to expire idle sessions.
	lastAccess time.Time
}

func NewSession(b *bitboard.Board, opts SolverOptions) (*Session, error) {
	s := &Session{
		id:      uuid.NewString(),
		board:   b,
		solver:  &alphabeta.Solver{},
		opts:    opts,
		created: time.Now(),
	}
	if err := s.solver.Init(b); err != nil {
		return nil, err
	}
	s.solver.SetTranspositionTableOptim(opts.TranspositionTable)
	if opts.TTMemoryFraction > 0 {
		s.solver.SetTranspositionTableMemoryFraction(opts.TTMemoryFraction)
	}
	s.lastAccess = s.created
	log.Debug().Str("id", s.id).Int("rows", b.Rows()).Int("cols", b.Cols()).
		Int("active", b.Count()).Msg("new-session")
	return s, nil
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) touch() {
	s.lastAccess = time.Now()
}

// PlayerMove plays m for the human and returns the points it scored.
func (s *Session) PlayerMove(m bitboard.Move) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if s.board.IsGameOver() {
		return 0, ErrGameOver
	}
	if !s.board.IsValidMove(m) {
		return 0, fmt.Errorf("%w: %v", bitboard.ErrInvalidMove, m)
	}
	p := s.board.ApplyMove(m)
	if p == 0 {
		s.board.Undo()
		return 0, fmt.Errorf("%w: %v", ErrEmptyLine, m)
	}
	s.points.Human += p
	log.Debug().Str("id", s.id).Str("move", m.ShortDescription()).Int("points", p).Msg("player-move")
	return p, nil
}

func (s *Session) solve(ctx context.Context) (*alphabeta.Solution, error) {
	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}
	return s.solver.Solve(ctx)
}

// AIMove lets the solver pick and play a move. The AI is credited with the
// cells that move clears.
func (s *Session) AIMove(ctx context.Context) (bitboard.Move, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if s.board.IsGameOver() {
		return bitboard.Move{}, 0, ErrGameOver
	}
	sol, err := s.solve(ctx)
	if err != nil {
		return bitboard.Move{}, 0, err
	}
	m, ok := sol.BestMove()
	if !ok {
		return bitboard.Move{}, 0, alphabeta.ErrNoEndgameSolution
	}
	p := s.board.ApplyMove(m)
	s.points.AI += p
	log.Debug().Str("id", s.id).Str("move", m.ShortDescription()).Int("points", p).
		Int("expected-differential", sol.Score).Msg("ai-move")
	return m, p, nil
}

// Hint solves the position for the side to move without playing anything.
func (s *Session) Hint(ctx context.Context) (*alphabeta.Solution, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return s.solve(ctx)
}

// HintTrace is Hint with the search tree written to w.
func (s *Session) HintTrace(ctx context.Context, w io.Writer) (*alphabeta.Solution, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.solver.SetLogStream(w)
	defer s.solver.SetLogStream(nil)
	return s.solve(ctx)
}

func (s *Session) Points() Points {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.points
}

func (s *Session) Outcome() Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	o := Outcome{Over: s.board.IsGameOver()}
	switch {
	case s.points.Human > s.points.AI:
		o.Winner, o.Message = HumanWins, "Player wins!"
	case s.points.Human < s.points.AI:
		o.Winner, o.Message = AIWins, "AI wins!"
	default:
		o.Winner, o.Message = Tie, "Tie!"
	}
	if !o.Over {
		o.Winner = NoWinner
	}
	return o
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Rows:  s.board.Rows(),
		Cols:  s.board.Cols(),
		Board: s.board.ToArray(),
	}
}

// Board returns a copy of the current board.
func (s *Session) Board() *bitboard.Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.Copy()
}

func (s *Session) lastAccessed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAccess
}
