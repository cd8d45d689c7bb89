package alphabeta

import (
	"fmt"

	"github.com/domino14/lineclear/bitboard"
)

// Credit: MIT-licensed https://github.com/algerbrex/blunder/blob/main/engine/search.go
type PVLine struct {
	Moves []bitboard.Move
	score int
}

// Clear the principal variation line.
func (pvLine *PVLine) Clear() {
	pvLine.Moves = pvLine.Moves[:0]
}

// Update the principal variation line with a new best move,
// and a new line of best play after the best move.
func (pvLine *PVLine) Update(m bitboard.Move, newPVLine PVLine, score int) {
	pvLine.Clear()
	pvLine.Moves = append(pvLine.Moves, m)
	pvLine.Moves = append(pvLine.Moves, newPVLine.Moves...)
	pvLine.score = score
}

// GetPVMove returns the first move of the line, if there is one.
func (pvLine *PVLine) GetPVMove() (bitboard.Move, bool) {
	if len(pvLine.Moves) == 0 {
		return bitboard.Move{}, false
	}
	return pvLine.Moves[0], true
}

func (pvLine PVLine) String() string {
	s := fmt.Sprintf("PV; val %d\n", pvLine.score)
	for i, m := range pvLine.Moves {
		s += fmt.Sprintf("%d: %s\n", i+1, m.ShortDescription())
	}
	return s
}

// NLBString is String without line breaks, for log fields.
func (pvLine PVLine) NLBString() string {
	s := fmt.Sprintf("PV; val %d; ", pvLine.score)
	for i, m := range pvLine.Moves {
		s += fmt.Sprintf("%d: %s; ", i+1, m.ShortDescription())
	}
	return s
}
