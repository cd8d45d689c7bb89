package main

import (
	"context"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/lineclear/bitboard"
	"github.com/domino14/lineclear/bot"
	"github.com/domino14/lineclear/config"
)

func TestHandleRequest(t *testing.T) {
	is := is.New(t)
	evt := bot.LambdaEvent{
		Board:          "3 3\n1 1 1\n0 0 1\n0 0 1\n",
		RequestID:      "foo",
		TimeoutSeconds: 10,
	}
	cfg = config.DefaultConfig()
	ctx := context.Background()
	ret, err := HandleRequest(ctx, evt)
	is.NoErr(err)
	is.Equal(ret.Score, 1)
	is.Equal(*ret.Move, bitboard.Move{Index: 0, Axis: bitboard.Row})
}

func TestHandleRequestBadBoard(t *testing.T) {
	is := is.New(t)
	cfg = config.DefaultConfig()
	_, err := HandleRequest(context.Background(), bot.LambdaEvent{Board: "2 2\n1\n"})
	is.True(err != nil)
}
