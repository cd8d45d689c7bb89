package bitboard

import (
	"errors"
	"testing"

	"github.com/matryer/is"
	"lukechampine.com/frand"
)

func randomBoard(t *testing.T, rows, cols int) *Board {
	t.Helper()
	b, err := New(rows, cols)
	if err != nil {
		t.Fatal(err)
	}
	for x := 0; x < rows; x++ {
		for y := 0; y < cols; y++ {
			b.Set(x, y, frand.Intn(2))
		}
	}
	return b
}

func TestNewDimensions(t *testing.T) {
	is := is.New(t)
	_, err := New(0, 3)
	is.True(errors.Is(err, ErrInvalidDimensions))
	_, err = New(3, -1)
	is.True(errors.Is(err, ErrInvalidDimensions))
	_, err = New(9, 8)
	is.True(errors.Is(err, ErrBoardTooLarge))

	b, err := New(8, 8)
	is.NoErr(err)
	is.Equal(b.mask, ^uint64(0))
	b, err = New(1, 64)
	is.NoErr(err)
	is.Equal(b.rowMask, ^uint64(0))
}

func TestMoveOrder(t *testing.T) {
	is := is.New(t)
	b, err := New(2, 3)
	is.NoErr(err)
	is.Equal(b.Moves(), []Move{
		{0, Row}, {1, Row},
		{0, Column}, {1, Column}, {2, Column},
	})
}

func TestFromMatrix(t *testing.T) {
	is := is.New(t)
	data := [][]int{{1, 0, 1}, {0, 1, 1}}
	b, err := FromMatrix(2, 3, data)
	is.NoErr(err)
	is.Equal(b.ToArray(), data)
	is.Equal(b.Count(), 4)
	// bit x*cols+y
	is.Equal(b.Bits(), uint64(0b110101))
}

func TestFromMatrixMalformed(t *testing.T) {
	is := is.New(t)
	cases := [][][]int{
		{{1, 0}},
		{{1, 0}, {1}},
		{{1, 0}, {1, 0, 1}},
		{{1, 0}, {1, 0}, {1, 1}},
		{{1, 2}, {1, 0}},
	}
	for _, data := range cases {
		_, err := FromMatrix(2, 2, data)
		is.True(errors.Is(err, ErrMalformedBoard))
	}
}

func TestGetSet(t *testing.T) {
	is := is.New(t)
	b, err := New(3, 4)
	is.NoErr(err)
	b.Set(2, 3, 1)
	is.Equal(b.Get(2, 3), 1)
	is.Equal(b.Bits(), uint64(1)<<11)
	b.Set(2, 3, 0)
	is.Equal(b.Get(2, 3), 0)
	is.True(b.IsGameOver())
	b.Set(1, 1, 7)
	is.Equal(b.Get(1, 1), 1)
	is.Equal(b.Bits()&^b.mask, uint64(0))
}

func TestGetOutOfRangePanics(t *testing.T) {
	is := is.New(t)
	b, err := New(2, 2)
	is.NoErr(err)
	for _, c := range [][2]int{{-1, 0}, {2, 0}, {0, 2}, {0, -1}} {
		func() {
			defer func() {
				is.True(recover() != nil)
			}()
			b.Get(c[0], c[1])
		}()
	}
}

func TestRemoveRowAndColumn(t *testing.T) {
	is := is.New(t)
	b, err := FromMatrix(3, 3, [][]int{
		{1, 1, 0},
		{0, 1, 1},
		{1, 1, 1},
	})
	is.NoErr(err)
	is.Equal(b.RemoveRow(2), 3)
	is.Equal(b.ToArray(), [][]int{{1, 1, 0}, {0, 1, 1}, {0, 0, 0}})
	is.Equal(b.RemoveColumn(1), 2)
	is.Equal(b.ToArray(), [][]int{{1, 0, 0}, {0, 0, 1}, {0, 0, 0}})
	is.Equal(b.RemoveColumn(1), 0)
	is.Equal(b.RemoveRow(0), 1)
	is.Equal(b.RemoveColumn(2), 1)
	is.True(b.IsGameOver())
}

// The column masks must agree with clearing the column cell by cell.
func TestRemoveColumnMatchesCellLoop(t *testing.T) {
	is := is.New(t)
	for i := 0; i < 200; i++ {
		rows, cols := frand.Intn(8)+1, frand.Intn(8)+1
		b := randomBoard(t, rows, cols)
		y := frand.Intn(cols)

		naive := b.Copy()
		expected := 0
		for x := 0; x < rows; x++ {
			if naive.Get(x, y) == 1 {
				naive.Set(x, y, 0)
				expected++
			}
		}
		is.Equal(b.RemoveColumn(y), expected)
		is.Equal(b.Bits(), naive.Bits())
	}
}

func TestApplyUndoInverse(t *testing.T) {
	is := is.New(t)
	for i := 0; i < 200; i++ {
		rows, cols := frand.Intn(8)+1, frand.Intn(8)+1
		b := randomBoard(t, rows, cols)
		orig := b.Bits()
		n := frand.Intn(rows + cols + 4)
		for j := 0; j < n; j++ {
			b.ApplyMove(b.Moves()[frand.Intn(len(b.Moves()))])
			is.Equal(b.Bits()&^b.mask, uint64(0))
		}
		is.Equal(b.HistoryLen(), n)
		for j := 0; j < n; j++ {
			is.NoErr(b.Undo())
		}
		is.Equal(b.Bits(), orig)
		is.Equal(b.HistoryLen(), 0)
	}
}

func TestUndoEmptyHistory(t *testing.T) {
	is := is.New(t)
	b, err := FromMatrix(1, 2, [][]int{{1, 1}})
	is.NoErr(err)
	is.Equal(b.Undo(), ErrNothingToUndo)
	is.Equal(b.Bits(), uint64(0b11))
}

func TestRowsSumToPopulation(t *testing.T) {
	is := is.New(t)
	for i := 0; i < 100; i++ {
		rows, cols := frand.Intn(8)+1, frand.Intn(8)+1
		b := randomBoard(t, rows, cols)
		total := b.Count()
		sum := 0
		for x := 0; x < rows; x++ {
			sum += b.ApplyMove(Move{x, Row})
		}
		is.Equal(sum, total)
		is.True(b.IsGameOver())
	}
}

// Any full game awards exactly as many points as there were active cells.
func TestFullGameConservesPoints(t *testing.T) {
	is := is.New(t)
	for i := 0; i < 100; i++ {
		rows, cols := frand.Intn(8)+1, frand.Intn(8)+1
		b := randomBoard(t, rows, cols)
		total := b.Count()
		sum := 0
		for !b.IsGameOver() {
			sum += b.ApplyMove(b.Moves()[frand.Intn(len(b.Moves()))])
		}
		is.Equal(sum, total)
	}
}

func TestClearedLineIsNoop(t *testing.T) {
	is := is.New(t)
	b, err := FromMatrix(2, 2, [][]int{{1, 1}, {0, 1}})
	is.NoErr(err)
	is.Equal(b.ApplyMove(Move{0, Row}), 2)
	before := b.Bits()
	is.Equal(b.ApplyMove(Move{0, Row}), 0)
	is.Equal(b.Bits(), before)
	is.Equal(b.ApplyMove(Move{0, Column}), 0)
	is.Equal(b.Bits(), before)
	is.Equal(b.HistoryLen(), 3)
}

func TestIsValidMoveAndPlay(t *testing.T) {
	is := is.New(t)
	b, err := New(2, 3)
	is.NoErr(err)
	is.True(b.IsValidMove(Move{1, Row}))
	is.True(!b.IsValidMove(Move{2, Row}))
	is.True(b.IsValidMove(Move{2, Column}))
	is.True(!b.IsValidMove(Move{3, Column}))
	is.True(!b.IsValidMove(Move{-1, Column}))
	is.True(!b.IsValidMove(Move{0, Axis(9)}))

	_, err = b.Play(Move{5, Row})
	is.True(errors.Is(err, ErrInvalidMove))
	is.Equal(b.HistoryLen(), 0)
}

func TestCopyIsIndependent(t *testing.T) {
	is := is.New(t)
	b, err := FromMatrix(2, 2, [][]int{{1, 1}, {1, 1}})
	is.NoErr(err)
	b.ApplyMove(Move{0, Row})
	c := b.Copy()
	is.Equal(c.HistoryLen(), 0)
	c.ApplyMove(Move{1, Row})
	is.True(c.IsGameOver())
	is.Equal(b.Count(), 2)
}

func TestString(t *testing.T) {
	is := is.New(t)
	b, err := FromMatrix(2, 3, [][]int{{1, 0, 1}, {0, 1, 0}})
	is.NoErr(err)
	is.Equal(b.String(), "    A B C\n  1 1 0 1\n  2 0 1 0\n")
}

func TestAxisText(t *testing.T) {
	is := is.New(t)
	for _, s := range []string{"row", "Row", "r", " ROW "} {
		a, err := ParseAxis(s)
		is.NoErr(err)
		is.Equal(a, Row)
	}
	for _, s := range []string{"col", "column", "C"} {
		a, err := ParseAxis(s)
		is.NoErr(err)
		is.Equal(a, Column)
	}
	_, err := ParseAxis("diagonal")
	is.True(errors.Is(err, ErrInvalidMove))

	txt, err := Column.MarshalText()
	is.NoErr(err)
	is.Equal(string(txt), "column")
	is.Equal(Move{2, Column}.String(), "Column 3")
	is.Equal(Move{0, Row}.ShortDescription(), "R1")
}
