// Package boardtxt reads and writes the plain-text board format:
//
//	R C
//	<R lines of C whitespace-separated 0/1 tokens>
package boardtxt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/domino14/lineclear/bitboard"
)

var (
	ErrMalformedHeader = errors.New("first line must be two integers: rows cols")
	ErrRowCount        = errors.New("wrong number of rows")
	ErrColumnCount     = errors.New("wrong number of columns")
	ErrBadToken        = errors.New("cells must be 0 or 1")
)

// Parse reads a board in text format. Blank lines are ignored; anything else
// that does not match the declared shape is an error.
func Parse(r io.Reader) (*bitboard.Board, error) {
	scanner := bufio.NewScanner(r)
	lineNum := 0
	nextLine := func() ([]string, bool) {
		for scanner.Scan() {
			lineNum++
			fields := strings.Fields(scanner.Text())
			if len(fields) > 0 {
				return fields, true
			}
		}
		return nil, false
	}

	header, ok := nextLine()
	if !ok {
		if err := scanner.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: empty input", ErrMalformedHeader)
	}
	if len(header) != 2 {
		return nil, fmt.Errorf("%w: line %d has %d fields", ErrMalformedHeader, lineNum, len(header))
	}
	rows, err := strconv.Atoi(header[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedHeader, err)
	}
	cols, err := strconv.Atoi(header[1])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedHeader, err)
	}
	b, err := bitboard.New(rows, cols)
	if err != nil {
		return nil, err
	}

	for x := 0; x < rows; x++ {
		fields, ok := nextLine()
		if !ok {
			if err := scanner.Err(); err != nil {
				return nil, err
			}
			return nil, fmt.Errorf("%w: expected %d, got %d", ErrRowCount, rows, x)
		}
		if len(fields) != cols {
			return nil, fmt.Errorf("%w: line %d has %d cells, expected %d",
				ErrColumnCount, lineNum, len(fields), cols)
		}
		for y, tok := range fields {
			switch tok {
			case "0":
			case "1":
				b.Set(x, y, 1)
			default:
				return nil, fmt.Errorf("%w: line %d has %q", ErrBadToken, lineNum, tok)
			}
		}
	}
	if _, extra := nextLine(); extra {
		return nil, fmt.Errorf("%w: more than %d rows (line %d)", ErrRowCount, rows, lineNum)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	log.Debug().Int("rows", rows).Int("cols", cols).Int("active", b.Count()).Msg("parsed-board")
	return b, nil
}

func ParseString(s string) (*bitboard.Board, error) {
	return Parse(strings.NewReader(s))
}

// FromUpload decodes the matrix shape the web client sends: the first row
// holds [rows, cols] and the rest hold the cells.
func FromUpload(data [][]int) (*bitboard.Board, error) {
	if len(data) == 0 || len(data[0]) != 2 {
		return nil, ErrMalformedHeader
	}
	return bitboard.FromMatrix(data[0][0], data[0][1], data[1:])
}

// Write emits the board in the same format Parse reads.
func Write(w io.Writer, b *bitboard.Board) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d %d\n", b.Rows(), b.Cols())
	for _, row := range b.ToArray() {
		bw.WriteString(strings.Join(lo.Map(row, func(v int, _ int) string {
			return strconv.Itoa(v)
		}), " "))
		bw.WriteString("\n")
	}
	return bw.Flush()
}

func String(b *bitboard.Board) string {
	var sb strings.Builder
	// strings.Builder never returns a write error.
	_ = Write(&sb, b)
	return sb.String()
}
