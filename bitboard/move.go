package bitboard

import (
	"fmt"
	"strings"
)

// Axis says whether a move clears a row or a column.
type Axis uint8

const (
	Row Axis = iota
	Column
)

func (a Axis) String() string {
	switch a {
	case Row:
		return "Row"
	case Column:
		return "Column"
	}
	return "none"
}

// ParseAxis accepts the spellings a user is likely to type.
func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "row", "r":
		return Row, nil
	case "column", "col", "c":
		return Column, nil
	}
	return 0, fmt.Errorf("%w: unknown axis %q", ErrInvalidMove, s)
}

func (a Axis) MarshalText() ([]byte, error) {
	switch a {
	case Row:
		return []byte("row"), nil
	case Column:
		return []byte("column"), nil
	}
	return nil, fmt.Errorf("cannot marshal axis %d", a)
}

func (a *Axis) UnmarshalText(text []byte) error {
	parsed, err := ParseAxis(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// A Move clears every cell of one line. Index is 0-based.
type Move struct {
	Index int  `json:"index"`
	Axis  Axis `json:"axis"`
}

// String uses 1-based numbering, which is how lines are shown to people.
func (m Move) String() string {
	return fmt.Sprintf("%v %d", m.Axis, m.Index+1)
}

// ShortDescription is the compact form used in logs and PV lines, e.g. "R1" or "C3".
func (m Move) ShortDescription() string {
	prefix := "R"
	if m.Axis == Column {
		prefix = "C"
	}
	return fmt.Sprintf("%s%d", prefix, m.Index+1)
}
