package mines

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
)

var Log *slog.Logger = slog.Default()

type Outcome int8

const (
	Playing Outcome = iota
	Won
	Lost
)

func (o Outcome) String() string {
	switch o {
	case Playing:
		return "playing"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return fmt.Sprintf("Outcome(%d)", int8(o))
	}
}

// [Outcome] implements [encoding.TextMarshaler]
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Outcome) UnmarshalText(text []byte) error {
	switch string(text) {
	case "playing":
		*o = Playing
	case "won":
		*o = Won
	case "lost":
		*o = Lost
	default:
		return fmt.Errorf("unknown outcome %q", text)
	}
	return nil
}

func (o Outcome) Terminal() bool {
	return o == Won || o == Lost
}

// GameState is one round: the board and its outcome. Only [GameState.Reveal]
// changes the outcome.
type GameState struct {
	board    *Board
	outcome  Outcome
	exploded int
}

// NewSession builds a ready-to-play round: mines placed and adjacency counts
// computed. The board never escapes half-initialized.
func NewSession(params GameParams, r *rand.Rand) (*GameState, error) {
	board, err := NewBoard(params.Unpack())
	if err != nil {
		return nil, err
	}
	board.PlaceMines(r)
	board.ComputeAdjacencyCounts()
	return &GameState{board: board, outcome: Playing, exploded: -1}, nil
}

// Restart discards the current round and deals a new one.
func Restart(params GameParams, r *rand.Rand) (*GameState, error) {
	return NewSession(params, r)
}

func (s *GameState) Board() *Board { return s.board }
func (s *GameState) Outcome() Outcome { return s.outcome }
func (s *GameState) Finished() bool { return s.outcome.Terminal() }
func (s *GameState) Params() GameParams { return s.board.Params() }

// Exploded returns the coordinates of the mine that ended the round.
func (s *GameState) Exploded() (row, col int, ok bool) {
	if s.exploded < 0 {
		return 0, 0, false
	}
	row, col = s.board.point(s.exploded)
	return row, col, true
}

// Reveal opens row:col. Out-of-bounds coordinates, already revealed cells and
// finished rounds are ignored. Opening a mine loses the round immediately;
// otherwise the round is won as soon as every safe cell is open.
func (s *GameState) Reveal(row, col int) {
	if s.Finished() || !s.board.InBounds(row, col) {
		return
	}
	if s.board.reveal(row, col) {
		s.outcome = Lost
		s.exploded = s.board.index(row, col)
		return
	}
	if s.board.cleared() {
		s.outcome = Won
	}
}

// ToggleFlag flips a hidden cell to flagged and back. Flags are bookkeeping
// for the player only: they neither block reveals nor count towards a win.
func (s *GameState) ToggleFlag(row, col int) {
	if s.Finished() || !s.board.InBounds(row, col) {
		return
	}
	cell := &s.board.cells[s.board.index(row, col)]
	switch cell.State {
	case Hidden:
		cell.State = Flagged
	case Flagged:
		cell.State = Hidden
	}
}
