package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/lineclear/config"
)

func TestRun(t *testing.T) {
	is := is.New(t)
	dir := t.TempDir()
	input := filepath.Join(dir, "input.txt")
	output := filepath.Join(dir, "output.txt")
	is.NoErr(os.WriteFile(input, []byte("3 1\n1\n1\n1\n"), 0o644))

	cfg := &config.Config{}
	is.NoErr(cfg.Load([]string{"-i", input, "-o", output}))
	var stdout strings.Builder
	is.NoErr(run(context.Background(), cfg, &stdout))

	res, err := os.ReadFile(output)
	is.NoErr(err)
	lines := strings.Split(string(res), "\n")
	is.Equal(lines[0], "Column # : 1")
	is.Equal(lines[1], "3 points")
	is.True(strings.HasPrefix(lines[2], "Total run time: "))
	is.True(strings.Contains(stdout.String(), "Column # : 1"))
}

func TestRunMissingInput(t *testing.T) {
	is := is.New(t)
	cfg := &config.Config{}
	is.NoErr(cfg.Load([]string{"-i", filepath.Join(t.TempDir(), "nope.txt")}))
	var stdout strings.Builder
	is.True(run(context.Background(), cfg, &stdout) != nil)
}
