package api

import (
	"github.com/domino14/lineclear/bitboard"
	"github.com/domino14/lineclear/game"
)

// MoveRequest is the payload for /games/:id/move. Index is 1-based.
type MoveRequest struct {
	Direction string `json:"direction" binding:"required"`
	Index     int    `json:"index" binding:"required"`
}

// BoardResponse is returned by every endpoint that changes or shows a board.
type BoardResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
	game.Snapshot
}

type MoveResponse struct {
	BoardResponse
	Move   bitboard.Move `json:"move"`
	Points int           `json:"points"`
}

type SolutionResponse struct {
	Move    *bitboard.Move  `json:"move"`
	Points  int             `json:"points"`
	Seconds float64         `json:"seconds"`
	PV      []bitboard.Move `json:"pv"`
	Nodes   uint64          `json:"nodes"`
}

type UploadResponse struct {
	BoardResponse
	Solution SolutionResponse `json:"solution"`
	Result   string           `json:"result"`
}

type CheckResponse struct {
	Success bool `json:"success"`
	game.Outcome
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
