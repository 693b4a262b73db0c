package command

import (
	"iter"
	"strconv"
	"strings"
)

// Lines yields the newline-separated pieces of s together with their index.
func Lines(s string) iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		i := 0
		found := true
		var piece string
		for found {
			piece, s, found = strings.Cut(s, "\n")
			if !yield(i, strings.TrimRight(piece, "\r")) {
				return
			}
			i += 1
		}
	}
}

// LineError locates a malformed command within a batch.
type LineError struct {
	Line int    `json:"line"`
	Err  error  `json:"-"`
	Text string `json:"error"`
}

func (e *LineError) Error() string {
	return "line " + strconv.Itoa(e.Line) + ": " + e.Err.Error()
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// ParseBatch parses every line of a batch up front so that a malformed line
// rejects the whole batch before anything is applied. Blank lines are skipped.
func ParseBatch(batch string) ([]Command, error) {
	var cmds []Command
	for i, line := range Lines(batch) {
		if strings.TrimSpace(line) == "" {
			continue
		}
		c, err := Parse(line)
		if err != nil {
			return nil, &LineError{Line: i, Err: err, Text: err.Error()}
		}
		cmds = append(cmds, c)
	}
	return cmds, nil
}
