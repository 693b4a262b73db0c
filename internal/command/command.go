// Package command implements the line-based move protocol shared by the
// terminal shell, the batch endpoint and the websocket endpoint:
//
//	o row col // reveal the cell at row:col
//	f row col // toggle a flag at row:col
//	n         // deal a new round with the same params
//	g         // do nothing, just report the state
package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/vancomm/sweeper/internal/mines"
)

var (
	ErrEmpty          = errors.New("empty command")
	ErrUnknownCommand = errors.New("unknown command")
	ErrArity          = errors.New("invalid number of arguments")
	ErrBadArgument    = errors.New("arguments must be integers")
)

type Verb byte

const (
	Get     Verb = 'g'
	Open    Verb = 'o'
	Flag    Verb = 'f'
	Restart Verb = 'n'
)

// Maps known commands to number of arguments
var verbNargs = map[Verb]int{
	Get:     0,
	Open:    2,
	Flag:    2,
	Restart: 0,
}

type Command struct {
	Verb     Verb
	Row, Col int
}

func (c Command) String() string {
	if verbNargs[c.Verb] == 2 {
		return fmt.Sprintf("%c %d %d", c.Verb, c.Row, c.Col)
	}
	return string(c.Verb)
}

func parseRowCol(twoStrings []string) (row int, col int, err error) {
	if row, err = strconv.Atoi(twoStrings[0]); err != nil {
		return 0, 0, fmt.Errorf("%w: row %q", ErrBadArgument, twoStrings[0])
	}
	if col, err = strconv.Atoi(twoStrings[1]); err != nil {
		return 0, 0, fmt.Errorf("%w: col %q", ErrBadArgument, twoStrings[1])
	}
	return
}

// Parse reads one command. Coordinates are not checked against any board:
// out-of-bounds moves are no-ops for the game, not protocol errors.
func Parse(line string) (Command, error) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return Command{}, ErrEmpty
	}
	if len(parts[0]) != 1 {
		return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, parts[0])
	}
	verb := Verb(parts[0][0])
	nargs, ok := verbNargs[verb]
	if !ok {
		return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, parts[0])
	}
	if nargs != len(parts)-1 {
		return Command{}, fmt.Errorf("%w: %q takes %d", ErrArity, parts[0], nargs)
	}
	c := Command{Verb: verb}
	if nargs == 2 {
		row, col, err := parseRowCol(parts[1:])
		if err != nil {
			return Command{}, err
		}
		c.Row, c.Col = row, col
	}
	return c, nil
}

// Apply executes a move on g. Restart is not a move on a round, so it is
// reported back to the caller, which owns the round and its params.
func (c Command) Apply(g *mines.GameState) (restart bool) {
	switch c.Verb {
	case Open:
		g.Reveal(c.Row, c.Col)
	case Flag:
		g.ToggleFlag(c.Row, c.Col)
	case Restart:
		return true
	}
	return false
}
