package bot

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/domino14/lineclear/bitboard"
	"github.com/domino14/lineclear/boardtxt"
)

type Client struct {
	// NATS connection
	nc      *nats.Conn
	channel string
}

func NewClient(nc *nats.Conn, channel string) *Client {
	return &Client{nc: nc, channel: channel}
}

func MakeRequest(b *bitboard.Board, timeout time.Duration) ([]byte, error) {
	req := SolveRequest{
		Board:          boardtxt.String(b),
		TimeoutSeconds: int(timeout.Seconds()),
	}
	return json.Marshal(req)
}

// RequestSolve sends a board to the bot and waits up to timeout for the
// solution.
func (c *Client) RequestSolve(b *bitboard.Board, timeout time.Duration) (*SolveResponse, error) {
	data, err := MakeRequest(b, timeout)
	if err != nil {
		return nil, err
	}
	res, err := c.nc.Request(c.channel, data, timeout)
	if err != nil {
		if c.nc.LastError() != nil {
			log.Error().Msgf("%v for request", c.nc.LastError())
		}
		log.Error().Msgf("%v for request", err)
		return nil, err
	}
	log.Debug().Msgf("res: %v", string(res.Data))

	resp := &SolveResponse{}
	if err := json.Unmarshal(res.Data, resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, errors.New("Bot returned: " + resp.Error)
	}
	return resp, nil
}
