package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/lineclear/boardtxt"
)

func TestRun(t *testing.T) {
	is := is.New(t)
	out := filepath.Join(t.TempDir(), "board.txt")
	is.NoErr(run([]string{"4", "5", out}))

	f, err := os.Open(out)
	is.NoErr(err)
	defer f.Close()
	b, err := boardtxt.Parse(f)
	is.NoErr(err)
	is.Equal(b.Rows(), 4)
	is.Equal(b.Cols(), 5)
}

func TestRunBadArgs(t *testing.T) {
	is := is.New(t)
	out := filepath.Join(t.TempDir(), "board.txt")
	is.True(run([]string{"4", "5"}) != nil)
	is.True(run([]string{"x", "5", out}) != nil)
	is.True(run([]string{"9", "9", out}) != nil)
}
