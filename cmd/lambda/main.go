package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/domino14/lineclear/bot"
	"github.com/domino14/lineclear/config"
	"github.com/domino14/lineclear/logging"
)

var cfg *config.Config
var nc *nats.Conn

func HandleRequest(ctx context.Context, evt bot.LambdaEvent) (*bot.SolveResponse, error) {
	logger := log.With().
		Str("requestID", evt.RequestID).
		Logger()

	resp := bot.NewBot(cfg).Solve(ctx, evt.SolveRequest())
	if resp.Error != "" {
		logger.Error().Str("error", resp.Error).Msg("solve-failed")
		return nil, errors.New(resp.Error)
	}
	logger.Info().Int("score", resp.Score).Uint64("nodes", resp.Nodes).Msg("solved")

	if evt.ReplyChannel != "" && nc != nil {
		data, err := json.Marshal(resp)
		if err != nil {
			return nil, err
		}
		logger.Info().Msg("solve-success-sending-via-nats")
		err = retry.Do(
			func() error {
				// We're just waiting for an acknowledgement. The actual
				// data doesn't matter.
				_, err := nc.Request(evt.ReplyChannel, data, 3*time.Second)
				return err
			},
			retry.Context(ctx),
			retry.Attempts(5),
			retry.DelayType(func(n uint, err error, rc *retry.Config) time.Duration {
				logger.Err(err).Uint("n", n).
					Msg("did-not-receive-ack-try-again")
				return retry.BackOffDelay(n, err, rc)
			}),
		)
		if err != nil {
			logger.Err(err).Msg("reply-failed")
		}
	}
	logger.Info().Msg("exiting-fn")
	return resp, nil
}

func main() {
	cfg = &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logging.SetupJSON(os.Stderr, cfg.GetBool(config.ConfigDebug))

	if url := cfg.GetString(config.ConfigNatsURL); url != "" {
		var err error
		nc, err = bot.Connect(context.Background(), url, 3)
		if err != nil {
			// Solves still work; replies just won't be published.
			log.Warn().AnErr("natsConnectErr", err).Msg("no-nats-connection")
		}
	}

	lambda.Start(HandleRequest)
}
