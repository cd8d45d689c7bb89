package boardtxt

import (
	"fmt"
	"io"
	"strings"

	"github.com/domino14/lineclear/endgame/alphabeta"
)

// WriteResult writes a solution in the result file format:
//
//	Row # : 2
//	3 points
//	Total run time: 0.0012 s
//
// An already empty board has no move, and its first line is "None".
func WriteResult(w io.Writer, sol *alphabeta.Solution) error {
	var err error
	if m, ok := sol.BestMove(); ok {
		_, err = fmt.Fprintf(w, "%s # : %d\n", m.Axis, m.Index+1)
	} else {
		_, err = fmt.Fprintln(w, "None")
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%d points\nTotal run time: %v s\n", sol.Score, sol.Elapsed.Seconds())
	return err
}

func ResultString(sol *alphabeta.Solution) string {
	var sb strings.Builder
	_ = WriteResult(&sb, sol)
	return sb.String()
}
