package command

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/sweeper/internal/mines"
)

func TestLines(t *testing.T) {
	testCases := []struct {
		input string
		array []string
	}{
		{"o 1 2", []string{"o 1 2"}},
		{"foo\nbar\nbaz\n\nbazz", []string{"foo", "bar", "baz", "", "bazz"}},
		{"a\r\nb", []string{"a", "b"}},
	}
	for _, test := range testCases {
		var got []string
		for i, p := range Lines(test.input) {
			require.Equal(t, len(got), i)
			got = append(got, p)
		}
		assert.Equal(t, test.array, got)
	}
}

func TestLinesStopsEarly(t *testing.T) {
	n := 0
	for range Lines("a\nb\nc") {
		n++
		break
	}
	assert.Equal(t, 1, n)
}

func TestParse(t *testing.T) {
	tests := []struct {
		line string
		want Command
		err  error
	}{
		{"o 1 2", Command{Verb: Open, Row: 1, Col: 2}, nil},
		{"  f   0 7 ", Command{Verb: Flag, Row: 0, Col: 7}, nil},
		{"o -1 99", Command{Verb: Open, Row: -1, Col: 99}, nil},
		{"n", Command{Verb: Restart}, nil},
		{"g", Command{Verb: Get}, nil},
		{"", Command{}, ErrEmpty},
		{"x 1 2", Command{}, ErrUnknownCommand},
		{"open 1 2", Command{}, ErrUnknownCommand},
		{"o 1", Command{}, ErrArity},
		{"n 1", Command{}, ErrArity},
		{"o a 2", Command{}, ErrBadArgument},
		{"f 1 b", Command{}, ErrBadArgument},
	}
	for _, test := range tests {
		t.Run(test.line, func(t *testing.T) {
			got, err := Parse(test.line)
			if test.err != nil {
				assert.ErrorIs(t, err, test.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.want, got)
			assert.Equal(t, got, mustParse(t, got.String()))
		})
	}
}

func mustParse(t *testing.T, line string) Command {
	t.Helper()
	c, err := Parse(line)
	require.NoError(t, err)
	return c
}

func TestParseBatch(t *testing.T) {
	cmds, err := ParseBatch("o 0 0\n\nf 1 1\ng\n")
	require.NoError(t, err)
	assert.Equal(t, []Command{
		{Verb: Open, Row: 0, Col: 0},
		{Verb: Flag, Row: 1, Col: 1},
		{Verb: Get},
	}, cmds)

	_, err = ParseBatch("o 0 0\nz\nf 1 1")
	var lineErr *LineError
	require.True(t, errors.As(err, &lineErr))
	assert.Equal(t, 1, lineErr.Line)
	assert.ErrorIs(t, err, ErrUnknownCommand)
}

func TestApply(t *testing.T) {
	game, err := mines.NewSession(
		mines.GameParams{Width: 2, Height: 2, MineCount: 0}, nil,
	)
	require.NoError(t, err)

	assert.False(t, mustParse(t, "f 0 0").Apply(game))
	assert.Equal(t, mines.Flagged, game.Board().Cell(0, 0).State)

	assert.False(t, mustParse(t, "o 1 1").Apply(game))
	assert.Equal(t, mines.Won, game.Outcome())

	assert.True(t, mustParse(t, "n").Apply(game))
	assert.False(t, mustParse(t, "g").Apply(game))
}
