// Package generator deals out random boards for new games.
package generator

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/domino14/lineclear/bitboard"
)

const (
	DefaultMinDim = 3
	DefaultMaxDim = 8
)

// Generate returns a rows x cols board where every cell is active with
// probability 1/2.
func Generate(rows, cols int) (*bitboard.Board, error) {
	b, err := bitboard.New(rows, cols)
	if err != nil {
		return nil, err
	}
	for x := 0; x < rows; x++ {
		for y := 0; y < cols; y++ {
			b.Set(x, y, frand.Intn(2))
		}
	}
	return b, nil
}

// Random picks both dimensions uniformly from [minDim, maxDim] and then
// generates a board of that size.
func Random(minDim, maxDim int) (*bitboard.Board, error) {
	if minDim < 1 || maxDim < minDim {
		return nil, fmt.Errorf("%w: dimension range [%d, %d]", bitboard.ErrInvalidDimensions, minDim, maxDim)
	}
	rows := minDim + frand.Intn(maxDim-minDim+1)
	cols := minDim + frand.Intn(maxDim-minDim+1)
	b, err := Generate(rows, cols)
	if err != nil {
		return nil, err
	}
	log.Debug().Int("rows", rows).Int("cols", cols).Int("active", b.Count()).Msg("generated-board")
	return b, nil
}
