package game

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/rs/zerolog"

	"github.com/domino14/lineclear/bitboard"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

func newSession(t *testing.T, rows, cols int, data [][]int) *Session {
	t.Helper()
	b, err := bitboard.FromMatrix(rows, cols, data)
	if err != nil {
		t.Fatal(err)
	}
	s, err := NewSession(b, SolverOptions{})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestPlayerMove(t *testing.T) {
	is := is.New(t)
	s := newSession(t, 2, 3, [][]int{{1, 1, 0}, {0, 1, 1}})

	p, err := s.PlayerMove(bitboard.Move{Index: 1, Axis: bitboard.Column})
	is.NoErr(err)
	is.Equal(p, 2)
	is.Equal(s.Points(), Points{Human: 2})

	// column 2 is now empty.
	_, err = s.PlayerMove(bitboard.Move{Index: 1, Axis: bitboard.Column})
	is.True(errors.Is(err, ErrEmptyLine))
	is.Equal(s.Snapshot().Board, [][]int{{1, 0, 0}, {0, 0, 1}})

	_, err = s.PlayerMove(bitboard.Move{Index: 3, Axis: bitboard.Column})
	is.True(errors.Is(err, bitboard.ErrInvalidMove))
	is.Equal(s.Points(), Points{Human: 2})
}

func TestAIMoveCreditsClearedCells(t *testing.T) {
	is := is.New(t)
	s := newSession(t, 3, 1, [][]int{{1}, {1}, {1}})
	m, p, err := s.AIMove(context.Background())
	is.NoErr(err)
	is.Equal(m, bitboard.Move{Index: 0, Axis: bitboard.Column})
	is.Equal(p, 3)
	is.Equal(s.Points(), Points{AI: 3})

	_, _, err = s.AIMove(context.Background())
	is.True(errors.Is(err, ErrGameOver))
	_, err = s.PlayerMove(bitboard.Move{Index: 0, Axis: bitboard.Row})
	is.True(errors.Is(err, ErrGameOver))

	o := s.Outcome()
	is.True(o.Over)
	is.Equal(o.Winner, AIWins)
	is.Equal(o.Message, "AI wins!")
}

func TestFullGameOutcomes(t *testing.T) {
	is := is.New(t)

	s := newSession(t, 2, 2, [][]int{{1, 1}, {1, 1}})
	_, err := s.PlayerMove(bitboard.Move{Index: 0, Axis: bitboard.Row})
	is.NoErr(err)
	is.True(!s.Outcome().Over)
	is.Equal(s.Outcome().Winner, NoWinner)
	_, p, err := s.AIMove(context.Background())
	is.NoErr(err)
	is.Equal(p, 2)
	o := s.Outcome()
	is.True(o.Over)
	is.Equal(o.Winner, Tie)
	is.Equal(o.Message, "Tie!")

	s = newSession(t, 1, 2, [][]int{{1, 1}})
	_, err = s.PlayerMove(bitboard.Move{Index: 0, Axis: bitboard.Row})
	is.NoErr(err)
	o = s.Outcome()
	is.Equal(o.Winner, HumanWins)
	is.Equal(o.Message, "Player wins!")
}

func TestHintDoesNotPlay(t *testing.T) {
	is := is.New(t)
	s := newSession(t, 2, 2, [][]int{{1, 1}, {1, 1}})
	sol, err := s.Hint(context.Background())
	is.NoErr(err)
	is.Equal(sol.Score, 0)
	is.Equal(s.Board().Count(), 4)
	is.Equal(s.Points(), Points{})

	var trace strings.Builder
	_, err = s.HintTrace(context.Background(), &trace)
	is.NoErr(err)
	is.True(strings.Contains(trace.String(), "- play:"))
}

func TestSolveTimeout(t *testing.T) {
	is := is.New(t)
	b, err := bitboard.New(8, 8)
	is.NoErr(err)
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			b.Set(x, y, (x+y)%2)
		}
	}
	s, err := NewSession(b, SolverOptions{Timeout: time.Millisecond})
	is.NoErr(err)
	_, _, err = s.AIMove(context.Background())
	is.True(errors.Is(err, context.DeadlineExceeded))
	// nothing was played.
	is.Equal(s.Board().Count(), 32)
	is.Equal(s.Points(), Points{})
}

func TestConcurrentAccess(t *testing.T) {
	is := is.New(t)
	s := newSession(t, 3, 3, [][]int{{1, 1, 1}, {1, 0, 1}, {1, 1, 1}})
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Hint(context.Background())
			_ = s.Snapshot()
		}()
	}
	wg.Wait()
	is.Equal(s.Board().Count(), 8)
	is.Equal(s.Board().HistoryLen(), 0)
}

func TestMemoryStore(t *testing.T) {
	is := is.New(t)
	ms := NewMemoryStore(SolverOptions{})
	b, err := bitboard.New(2, 2)
	is.NoErr(err)

	s, err := ms.Create(b)
	is.NoErr(err)
	got, err := ms.Get(s.ID())
	is.NoErr(err)
	is.Equal(got, s)
	is.Equal(ms.Len(), 1)

	_, err = ms.Get("nope")
	is.True(errors.Is(err, ErrSessionNotFound))

	is.Equal(ms.Expire(time.Hour), 0)
	time.Sleep(5 * time.Millisecond)
	is.Equal(ms.Expire(time.Millisecond), 1)
	is.Equal(ms.Len(), 0)

	s, err = ms.Create(b.Copy())
	is.NoErr(err)
	ms.Delete(s.ID())
	_, err = ms.Get(s.ID())
	is.True(errors.Is(err, ErrSessionNotFound))
}
