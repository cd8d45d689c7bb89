// Package bitboard stores a line-clear grid as a single bit-packed integer.
// Cell (x, y) lives at bit x*cols+y. Every mutation that goes through a move
// first pushes the previous value onto a history stack, so a search can play
// and unplay moves in place without copying the board.
package bitboard

import (
	"errors"
	"fmt"
	"math/bits"
	"strings"
)

// MaxCells is the most cells a board can hold; the grid must fit in a uint64.
const MaxCells = 64

var (
	ErrInvalidDimensions = errors.New("board dimensions must be positive")
	ErrBoardTooLarge     = fmt.Errorf("board cannot hold more than %d cells", MaxCells)
	ErrMalformedBoard    = errors.New("malformed board data")
	ErrInvalidMove       = errors.New("invalid move")
	ErrNothingToUndo     = errors.New("no move to undo")
)

type Board struct {
	rows int
	cols int

	bits uint64
	mask uint64

	rowMask  uint64
	colMasks []uint64

	history []uint64
	moves   []Move
}

// New creates an empty rows x cols board.
func New(rows, cols int) (*Board, error) {
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, rows, cols)
	}
	if rows*cols > MaxCells {
		return nil, fmt.Errorf("%w: %dx%d", ErrBoardTooLarge, rows, cols)
	}
	b := &Board{
		rows:    rows,
		cols:    cols,
		mask:    (uint64(1) << (rows * cols)) - 1,
		rowMask: (uint64(1) << cols) - 1,
	}
	b.colMasks = make([]uint64, cols)
	for y := 0; y < cols; y++ {
		for x := 0; x < rows; x++ {
			b.colMasks[y] |= 1 << (x*cols + y)
		}
	}
	// Rows first, then columns. The solver relies on this order to break ties.
	b.moves = make([]Move, 0, rows+cols)
	for i := 0; i < rows; i++ {
		b.moves = append(b.moves, Move{Index: i, Axis: Row})
	}
	for i := 0; i < cols; i++ {
		b.moves = append(b.moves, Move{Index: i, Axis: Column})
	}
	return b, nil
}

// FromMatrix builds a board from a fully populated matrix of 0s and 1s.
// It fails if the matrix does not have exactly the declared shape.
func FromMatrix(rows, cols int, data [][]int) (*Board, error) {
	b, err := New(rows, cols)
	if err != nil {
		return nil, err
	}
	if len(data) != rows {
		return nil, fmt.Errorf("%w: expected %d rows, got %d", ErrMalformedBoard, rows, len(data))
	}
	for x, row := range data {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row %d has %d columns, expected %d",
				ErrMalformedBoard, x+1, len(row), cols)
		}
		for y, v := range row {
			if v != 0 && v != 1 {
				return nil, fmt.Errorf("%w: cell (%d, %d) has value %d",
					ErrMalformedBoard, x+1, y+1, v)
			}
			b.Set(x, y, v)
		}
	}
	return b, nil
}

func (b *Board) Rows() int { return b.rows }
func (b *Board) Cols() int { return b.cols }

// Bits returns the packed grid. Two boards of the same shape are equal iff
// their bits are equal.
func (b *Board) Bits() uint64 { return b.bits }

// Moves returns every line of the board, rows first. The slice is shared;
// callers must not modify it.
func (b *Board) Moves() []Move { return b.moves }

// Count returns the number of active cells.
func (b *Board) Count() int { return bits.OnesCount64(b.bits) }

func (b *Board) HistoryLen() int { return len(b.history) }

func (b *Board) checkCell(x, y int) {
	if x < 0 || x >= b.rows || y < 0 || y >= b.cols {
		panic(fmt.Sprintf("cell (%d, %d) out of range for %dx%d board", x, y, b.rows, b.cols))
	}
}

func (b *Board) Get(x, y int) int {
	b.checkCell(x, y)
	return int((b.bits >> (x*b.cols + y)) & 1)
}

// Set activates the cell for any non-zero value and clears it otherwise.
func (b *Board) Set(x, y, value int) {
	b.checkCell(x, y)
	bit := uint64(1) << (x*b.cols + y)
	if value != 0 {
		b.bits |= bit
	} else {
		b.bits &^= bit
	}
	b.bits &= b.mask
}

// RemoveRow clears row x and returns how many active cells it held.
func (b *Board) RemoveRow(x int) int {
	shift := x * b.cols
	points := bits.OnesCount64((b.bits >> shift) & b.rowMask)
	b.bits &^= b.rowMask << shift
	b.bits &= b.mask
	return points
}

// RemoveColumn clears column y and returns how many active cells it held.
func (b *Board) RemoveColumn(y int) int {
	points := bits.OnesCount64(b.bits & b.colMasks[y])
	b.bits &^= b.colMasks[y]
	b.bits &= b.mask
	return points
}

// ApplyMove saves the current state and clears the move's line. The state is
// saved even if the line was already empty, so every ApplyMove must be paired
// with an Undo. The move is not validated.
func (b *Board) ApplyMove(m Move) int {
	b.history = append(b.history, b.bits)
	if m.Axis == Row {
		return b.RemoveRow(m.Index)
	}
	return b.RemoveColumn(m.Index)
}

// Play is ApplyMove for callers that have not validated the move themselves.
func (b *Board) Play(m Move) (int, error) {
	if !b.IsValidMove(m) {
		return 0, fmt.Errorf("%w: %v on a %dx%d board", ErrInvalidMove, m, b.rows, b.cols)
	}
	return b.ApplyMove(m), nil
}

// Undo restores the state from before the most recent move. With no moves to
// undo the board is left as it is and ErrNothingToUndo is returned.
func (b *Board) Undo() error {
	n := len(b.history)
	if n == 0 {
		return ErrNothingToUndo
	}
	b.bits = b.history[n-1]
	b.history = b.history[:n-1]
	return nil
}

func (b *Board) IsGameOver() bool {
	return b.bits == 0
}

func (b *Board) IsValidMove(m Move) bool {
	switch m.Axis {
	case Row:
		return m.Index >= 0 && m.Index < b.rows
	case Column:
		return m.Index >= 0 && m.Index < b.cols
	}
	return false
}

// ToArray materializes the grid as a rows x cols matrix of 0s and 1s.
func (b *Board) ToArray() [][]int {
	data := make([][]int, b.rows)
	for x := 0; x < b.rows; x++ {
		data[x] = make([]int, b.cols)
		for y := 0; y < b.cols; y++ {
			data[x][y] = b.Get(x, y)
		}
	}
	return data
}

// Copy returns an independent board with the same cells and an empty history.
func (b *Board) Copy() *Board {
	c := *b
	c.history = nil
	return &c
}

// String renders the grid with lettered columns and numbered rows.
func (b *Board) String() string {
	var sb strings.Builder
	sb.WriteString("   ")
	for y := 0; y < b.cols; y++ {
		fmt.Fprintf(&sb, " %c", 'A'+y%26)
	}
	sb.WriteString("\n")
	for x := 0; x < b.rows; x++ {
		fmt.Fprintf(&sb, "%3d", x+1)
		for y := 0; y < b.cols; y++ {
			fmt.Fprintf(&sb, " %d", b.Get(x, y))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
