// Package alphabeta solves line-clear positions exactly, using full-depth
// minimax with alpha-beta pruning.
package alphabeta

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/lineclear/bitboard"
)

// thanks Wikipedia:
/**function alphabeta(node, depth, α, β, maximizingPlayer) is
    if depth = 0 or node is a terminal node then
        return the heuristic value of node
    if maximizingPlayer then
        value := −∞
		for each child of node do
			play(child)
			value := max(value, alphabeta(child, depth − 1, α, β, FALSE))
			unplayLastMove()
            α := max(α, value)
            if α ≥ β then
                break (* β cut-off *)
        return value
    else
        value := +∞
		for each child of node do
			play(child)
			value := min(value, alphabeta(child, depth − 1, α, β, TRUE))
			unplayLastMove()
            β := min(β, value)
            if α ≥ β then
                break (* α cut-off *)
        return value
(* Initial call *)
alphabeta(origin, depth, −∞, +∞, TRUE)
**/

// Infinity is larger than any score a board can produce (at most MaxCells).
const Infinity = 1 << 16

const noMove = -1

var (
	ErrNoEndgameSolution = errors.New("no move found on a non-empty board")
	ErrAlreadySolving    = errors.New("solver is already running")
	ErrBoardNotRestored  = errors.New("board was not restored after search")
)

// Solution is the outcome of a full search from the current position.
type Solution struct {
	// Score is the first player's points minus the second player's under
	// optimal play from here.
	Score int `json:"score"`
	// Move is nil only when the board was already empty.
	Move    *bitboard.Move  `json:"move"`
	PV      []bitboard.Move `json:"pv"`
	Nodes   uint64          `json:"nodes"`
	Elapsed time.Duration   `json:"elapsed"`
}

func (s *Solution) BestMove() (bitboard.Move, bool) {
	if s == nil || s.Move == nil {
		return bitboard.Move{}, false
	}
	return *s.Move, true
}

// Solver implements the minimax + alphabeta algorithm. It mutates the board
// it was given while searching and always restores it before returning.
type Solver struct {
	board *bitboard.Board

	disablePruning          bool
	transpositionTableOptim bool
	ttMemoryFraction        float64
	ttable                  *TranspositionTable

	principalVariation PVLine
	nodes              atomic.Uint64
	solving            atomic.Bool

	logStream io.Writer
}

// Init initializes the solver
func (s *Solver) Init(b *bitboard.Board) error {
	if b == nil {
		return errors.New("solver needs a board")
	}
	s.board = b
	s.disablePruning = false
	s.transpositionTableOptim = false
	s.ttMemoryFraction = DefaultTTMemoryFraction
	return nil
}

func (s *Solver) Board() *bitboard.Board {
	return s.board
}

// SetPruning turns alpha-beta cutoffs on or off. With pruning off the solver
// is a plain full-tree minimax, which is only useful for verification.
func (s *Solver) SetPruning(p bool) {
	s.disablePruning = !p
}

func (s *Solver) SetTranspositionTableOptim(tt bool) {
	s.transpositionTableOptim = tt
}

func (s *Solver) SetTranspositionTableMemoryFraction(f float64) {
	s.ttMemoryFraction = f
}

func (s *Solver) SetTranspositionTable(tt *TranspositionTable) {
	s.ttable = tt
}

// SetLogStream makes the solver write a trace of the search tree to w.
// The trace grows exponentially; only use it on small boards.
func (s *Solver) SetLogStream(w io.Writer) {
	s.logStream = w
}

func (s *Solver) IsSolving() bool {
	return s.solving.Load()
}

// Solve searches the whole game tree from the current position, with the
// side to move as the maximiser.
func (s *Solver) Solve(ctx context.Context) (*Solution, error) {
	if s.board == nil {
		return nil, errors.New("solver was not initialized")
	}
	if !s.solving.CompareAndSwap(false, true) {
		return nil, ErrAlreadySolving
	}
	defer s.solving.Store(false)

	tstart := time.Now()
	bitsBefore, historyBefore := s.board.Bits(), s.board.HistoryLen()
	s.nodes.Store(0)
	s.principalVariation = PVLine{}
	if s.transpositionTableOptim {
		if s.ttable == nil {
			s.ttable = &TranspositionTable{}
		}
		s.ttable.Reset(s.ttMemoryFraction, s.board.Rows()*s.board.Cols())
	}
	log.Debug().
		Int("rows", s.board.Rows()).
		Int("cols", s.board.Cols()).
		Int("active", s.board.Count()).
		Bool("pruning", !s.disablePruning).
		Bool("ttable", s.transpositionTableOptim).
		Msg("alphabeta-solve-config")

	var bestV, bestIdx int
	g := &errgroup.Group{}
	done := make(chan struct{})

	g.Go(func() error {
		ticker := time.NewTicker(1 * time.Second)
		defer ticker.Stop()
		var lastNodes uint64
		for {
			select {
			case <-done:
				return nil
			case <-ticker.C:
				nodes := s.nodes.Load()
				log.Debug().Uint64("nps", nodes-lastNodes).Msg("nodes-per-second")
				lastNodes = nodes
			}
		}
	})

	g.Go(func() error {
		defer close(done)
		if s.logStream != nil {
			fmt.Fprint(s.logStream, "- root:\n")
		}
		var err error
		bestV, bestIdx, err = s.alphabeta(ctx, 0, true, -Infinity, Infinity, 0, &s.principalVariation)
		return err
	})

	err := g.Wait()
	if s.board.Bits() != bitsBefore || s.board.HistoryLen() != historyBefore {
		log.Error().Uint64("before", bitsBefore).Uint64("after", s.board.Bits()).Msg("board-not-restored")
		return nil, ErrBoardNotRestored
	}
	if err != nil {
		return nil, err
	}

	sol := &Solution{
		Score:   bestV,
		PV:      s.principalVariation.Moves,
		Nodes:   s.nodes.Load(),
		Elapsed: time.Since(tstart),
	}
	if bestIdx != noMove {
		m := s.board.Moves()[bestIdx]
		sol.Move = &m
	}
	ev := log.Info().
		Int("score", sol.Score).
		Str("pv", s.principalVariation.NLBString()).
		Uint64("nodes", sol.Nodes).
		Float64("time-elapsed-sec", sol.Elapsed.Seconds())
	if s.transpositionTableOptim {
		ev = ev.Uint64("ttable-created", s.ttable.created.Load()).
			Uint64("ttable-lookups", s.ttable.lookups.Load()).
			Uint64("ttable-hits", s.ttable.hits.Load()).
			Uint64("ttable-t2collisions", s.ttable.t2collisions.Load())
	}
	ev.Msg("solve-returning")
	return sol, nil
}

// alphabeta returns the final score reachable from the current position under
// optimal play, given that point has been accumulated so far, along with the
// index of the best move in the board's move list.
func (s *Solver) alphabeta(ctx context.Context, depth int, maximizing bool, α, β, point int,
	pv *PVLine) (int, int, error) {

	if err := ctx.Err(); err != nil {
		return 0, noMove, err
	}
	s.nodes.Add(1)

	if s.board.IsGameOver() {
		pv.Clear()
		return point, noMove, nil
	}

	if s.transpositionTableOptim && depth > 0 {
		if entry, ok := s.ttable.lookup(s.board.Bits(), !maximizing); ok {
			// add the running total back in; we subtract it when storing.
			score := int(entry.score) + point
			switch entry.flag {
			case TTExact:
				pv.Clear()
				return score, noMove, nil
			case TTLower:
				α = max(α, score)
			case TTUpper:
				β = min(β, score)
			}
			if β <= α {
				pv.Clear()
				return score, noMove, nil
			}
		}
	}
	alphaOrig, betaOrig := α, β

	childPV := PVLine{}
	bestValue := Infinity
	if maximizing {
		bestValue = -Infinity
	}
	bestIdx := noMove
	indent := strings.Repeat(" ", 2*depth)

	for idx, m := range s.board.Moves() {
		value, played, err := s.searchChild(ctx, m, depth, maximizing, α, β, point, &childPV)
		if err != nil {
			return 0, noMove, err
		}
		if !played {
			continue
		}
		if s.logStream != nil {
			fmt.Fprintf(s.logStream, "  %v- play: %v\n", indent, m.ShortDescription())
			fmt.Fprintf(s.logStream, "  %v  value: %v\n", indent, value)
		}
		if (maximizing && value > bestValue) || (!maximizing && value < bestValue) {
			bestValue = value
			bestIdx = idx
			pv.Update(m, childPV, value)
		}
		if maximizing {
			α = max(α, bestValue)
		} else {
			β = min(β, bestValue)
		}
		childPV.Clear()
		if !s.disablePruning && β <= α {
			if s.logStream != nil {
				fmt.Fprintf(s.logStream, "  %v  cutoff: {α: %v, β: %v}\n", indent, α, β)
			}
			break
		}
	}
	if bestIdx == noMove {
		return 0, noMove, fmt.Errorf("%w: bits %#x", ErrNoEndgameSolution, s.board.Bits())
	}

	if s.transpositionTableOptim {
		// Store the value without the running total so that it holds no
		// matter how the position was reached.
		entry := TableEntry{score: int16(bestValue - point)}
		if bestValue <= alphaOrig {
			entry.flag = TTUpper
		} else if bestValue >= betaOrig {
			entry.flag = TTLower
		} else {
			entry.flag = TTExact
		}
		s.ttable.store(s.board.Bits(), !maximizing, entry)
	}
	return bestValue, bestIdx, nil
}

// searchChild plays m, searches the resulting position and unplays m on every
// way out. A move that clears nothing is not a real branch; played is false
// for it and nothing is searched.
func (s *Solver) searchChild(ctx context.Context, m bitboard.Move, depth int, maximizing bool,
	α, β, point int, childPV *PVLine) (value int, played bool, err error) {

	p := s.board.ApplyMove(m)
	defer s.board.Undo()
	if p == 0 {
		return 0, false, nil
	}
	if maximizing {
		point += p
	} else {
		point -= p
	}
	value, _, err = s.alphabeta(ctx, depth+1, !maximizing, α, β, point, childPV)
	return value, true, err
}
