package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/domino14/lineclear/bitboard"
	"github.com/domino14/lineclear/boardtxt"
	"github.com/domino14/lineclear/endgame/alphabeta"
	"github.com/domino14/lineclear/game"
	"github.com/domino14/lineclear/generator"
)

// maxUploadSize is far more than any 64-cell board needs.
const maxUploadSize = 1 << 16

func errorStatus(err error) int {
	switch {
	case errors.Is(err, game.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, game.ErrGameOver):
		return http.StatusConflict
	case errors.Is(err, bitboard.ErrInvalidMove),
		errors.Is(err, bitboard.ErrInvalidDimensions),
		errors.Is(err, bitboard.ErrBoardTooLarge),
		errors.Is(err, bitboard.ErrMalformedBoard),
		errors.Is(err, boardtxt.ErrMalformedHeader),
		errors.Is(err, boardtxt.ErrRowCount),
		errors.Is(err, boardtxt.ErrColumnCount),
		errors.Is(err, boardtxt.ErrBadToken),
		errors.Is(err, game.ErrEmptyLine):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func abortWithError(c *gin.Context, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("request-failed")
	}
	c.AbortWithStatusJSON(status, ErrorResponse{Success: false, Message: err.Error()})
}

func boardResponse(s *game.Session) BoardResponse {
	return BoardResponse{Success: true, ID: s.ID(), Snapshot: s.Snapshot()}
}

func solutionResponse(sol *alphabeta.Solution) SolutionResponse {
	return SolutionResponse{
		Move:    sol.Move,
		Points:  sol.Score,
		Seconds: sol.Elapsed.Seconds(),
		PV:      sol.PV,
		Nodes:   sol.Nodes,
	}
}

// sessionFromParam looks up the :id path parameter, aborting the request if
// there is no such session.
func sessionFromParam(c *gin.Context, store *game.MemoryStore) (*game.Session, bool) {
	s, err := store.Get(c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return nil, false
	}
	return s, true
}

// CreateHandler starts a game on a random board.
func CreateHandler(store *game.MemoryStore, minDim, maxDim int) gin.HandlerFunc {
	return func(c *gin.Context) {
		b, err := generator.Random(minDim, maxDim)
		if err != nil {
			abortWithError(c, err)
			return
		}
		s, err := store.Create(b)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, boardResponse(s))
	}
}

// UploadHandler starts a game on an uploaded text board and solves it right
// away, the way the result file is produced from the command line.
func UploadHandler(store *game.MemoryStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		fh, err := c.FormFile("file")
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Message: "file required"})
			return
		}
		if fh.Size > maxUploadSize {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, ErrorResponse{Message: "file too large"})
			return
		}
		f, err := fh.Open()
		if err != nil {
			abortWithError(c, err)
			return
		}
		defer f.Close()
		b, err := boardtxt.Parse(f)
		if err != nil {
			abortWithError(c, err)
			return
		}
		s, err := store.Create(b)
		if err != nil {
			abortWithError(c, err)
			return
		}
		sol, err := s.Hint(c.Request.Context())
		if err != nil {
			store.Delete(s.ID())
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, UploadResponse{
			BoardResponse: boardResponse(s),
			Solution:      solutionResponse(sol),
			Result:        boardtxt.ResultString(sol),
		})
	}
}

func GetHandler(store *game.MemoryStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := sessionFromParam(c, store)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, boardResponse(s))
	}
}

// MoveHandler plays the human's move.
func MoveHandler(store *game.MemoryStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := sessionFromParam(c, store)
		if !ok {
			return
		}
		var req MoveRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Message: "direction and index required"})
			return
		}
		axis, err := bitboard.ParseAxis(req.Direction)
		if err != nil {
			abortWithError(c, err)
			return
		}
		m := bitboard.Move{Index: req.Index - 1, Axis: axis}
		p, err := s.PlayerMove(m)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, MoveResponse{BoardResponse: boardResponse(s), Move: m, Points: p})
	}
}

// AIHandler lets the solver play for the AI.
func AIHandler(store *game.MemoryStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := sessionFromParam(c, store)
		if !ok {
			return
		}
		m, p, err := s.AIMove(c.Request.Context())
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, MoveResponse{BoardResponse: boardResponse(s), Move: m, Points: p})
	}
}

func HintHandler(store *game.MemoryStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := sessionFromParam(c, store)
		if !ok {
			return
		}
		sol, err := s.Hint(c.Request.Context())
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "solution": solutionResponse(sol)})
	}
}

func CheckHandler(store *game.MemoryStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := sessionFromParam(c, store)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, CheckResponse{Success: true, Outcome: s.Outcome()})
	}
}

func PointsHandler(store *game.MemoryStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := sessionFromParam(c, store)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, s.Points())
	}
}
