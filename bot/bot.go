package bot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/domino14/lineclear/bitboard"
	"github.com/domino14/lineclear/boardtxt"
	"github.com/domino14/lineclear/cache"
	"github.com/domino14/lineclear/config"
	"github.com/domino14/lineclear/endgame/alphabeta"
)

// HardTimeLimit caps any single solve, whatever the request asks for.
const HardTimeLimit = 180 * time.Second

// SolveRequest carries a board in text format.
type SolveRequest struct {
	Board          string `json:"board"`
	TimeoutSeconds int    `json:"timeout_seconds,omitempty"`
}

type SolveResponse struct {
	Score  int             `json:"score"`
	Move   *bitboard.Move  `json:"move,omitempty"`
	PV     []bitboard.Move `json:"pv,omitempty"`
	Nodes  uint64          `json:"nodes"`
	Result string          `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// solvedCacheSize bounds how many solved boards a bot remembers.
const solvedCacheSize = 4096

type Bot struct {
	config *config.Config
	solved *cache.Cache[*SolveResponse]
}

func NewBot(cfg *config.Config) *Bot {
	return &Bot{config: cfg, solved: cache.New[*SolveResponse](solvedCacheSize)}
}

func errorResponse(message string, err error) *SolveResponse {
	msg := message
	if err != nil {
		msg = fmt.Sprintf("%s: %s", msg, err.Error())
	}
	return &SolveResponse{Error: msg}
}

func (bot *Bot) timeout(req SolveRequest) time.Duration {
	t := bot.config.GetDuration(config.ConfigSolverTimeout)
	if req.TimeoutSeconds > 0 {
		t = time.Duration(req.TimeoutSeconds) * time.Second
	}
	if t <= 0 || t > HardTimeLimit {
		t = HardTimeLimit
	}
	return t
}

// Solve never panics and never returns nil; failures are reported in the
// Error field. Boards that were solved before are answered from the cache.
func (bot *Bot) Solve(ctx context.Context, req SolveRequest) *SolveResponse {
	b, err := boardtxt.ParseString(req.Board)
	if err != nil {
		return errorResponse("Could not parse board", err)
	}
	resp, err := bot.solved.Get(boardtxt.String(b), func(string) (*SolveResponse, error) {
		return bot.solve(ctx, b, req)
	})
	if err != nil {
		return errorResponse("Could not solve board", err)
	}
	return resp
}

func (bot *Bot) solve(ctx context.Context, b *bitboard.Board, req SolveRequest) (*SolveResponse, error) {
	s := &alphabeta.Solver{}
	if err := s.Init(b); err != nil {
		return nil, err
	}
	s.SetTranspositionTableOptim(bot.config.GetBool(config.ConfigSolverTT))
	s.SetTranspositionTableMemoryFraction(bot.config.GetFloat64(config.ConfigSolverTTMemoryFraction))

	ctx, cancel := context.WithTimeout(ctx, bot.timeout(req))
	defer cancel()
	sol, err := s.Solve(ctx)
	if err != nil {
		return nil, err
	}
	return &SolveResponse{
		Score:  sol.Score,
		Move:   sol.Move,
		PV:     sol.PV,
		Nodes:  sol.Nodes,
		Result: boardtxt.ResultString(sol),
	}, nil
}

// Handle decodes a JSON SolveRequest and solves it.
func (bot *Bot) Handle(ctx context.Context, data []byte) *SolveResponse {
	var req SolveRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return errorResponse("Could not parse request", err)
	}
	return bot.Solve(ctx, req)
}

// Connect dials NATS, retrying with backoff until ctx is done or attempts run
// out.
func Connect(ctx context.Context, url string, attempts uint) (*nats.Conn, error) {
	var nc *nats.Conn
	err := retry.Do(
		func() error {
			var err error
			nc, err = nats.Connect(url)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.LastErrorOnly(true),
		retry.DelayType(func(n uint, err error, rc *retry.Config) time.Duration {
			log.Err(err).Uint("n", n).Str("url", url).Msg("nats-connect-failed-try-again")
			return retry.BackOffDelay(n, err, rc)
		}),
	)
	if err != nil {
		return nil, err
	}
	return nc, nil
}

// Main serves solve requests on channel until ctx is cancelled.
func Main(ctx context.Context, channel string, bot *Bot) error {
	nc, err := Connect(ctx, bot.config.GetString(config.ConfigNatsURL), 10)
	if err != nil {
		return err
	}
	defer nc.Close()

	sub, err := nc.Subscribe(channel, func(m *nats.Msg) {
		log.Info().Int("bytes", len(m.Data)).Msg("solve-request-received")
		resp := bot.Handle(ctx, m.Data)
		data, err := json.Marshal(resp)
		if err != nil {
			// Should never happen, but the requester still needs an answer.
			m.Respond([]byte(err.Error()))
			return
		}
		if err := m.Respond(data); err != nil {
			log.Err(err).Msg("respond-failed")
		}
	})
	if err != nil {
		return err
	}
	if err := nc.Flush(); err != nil {
		return err
	}
	if err := nc.LastError(); err != nil {
		return err
	}
	log.Info().Str("channel", channel).Msg("listening")

	<-ctx.Done()
	log.Info().Msg("draining-subscription")
	if err := sub.Drain(); err != nil && !errors.Is(err, nats.ErrConnectionClosed) {
		return err
	}
	return nil
}
