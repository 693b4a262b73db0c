package mines

import (
	"fmt"
	"strconv"
	"strings"
)

// Square is what the player sees in one cell.
type Square int8

const (
	Unknown       Square = -2
	Flag          Square = -1
	CorrectFlag   Square = 64 // post-game-over
	ExplodedMine  Square = 65
	WrongFlag     Square = 66
	UnflaggedMine Square = 67
	// 0-8 for an open cell with the given number of mined neighbours
)

func (s Square) String() string {
	switch s {
	case Unknown:
		return "-"
	case Flag:
		return "F"
	case 0:
		return "."
	case 1, 2, 3, 4, 5, 6, 7, 8:
		return strconv.Itoa(int(s))
	case CorrectFlag:
		return "+"
	case ExplodedMine:
		return "X"
	case WrongFlag:
		return "x"
	case UnflaggedMine:
		return "*"
	default:
		return "!"
	}
}

type Grid []Square

func (g Grid) ToString(width int) string {
	var b strings.Builder
	for y := range len(g) / width {
		for x := range width {
			fmt.Fprint(&b, g[y*width+x].String()+" ")
		}
		fmt.Fprint(&b, "\n")
	}
	return b.String()
}

// PlayerGrid renders the board for the player. Mines stay hidden while the
// round is being played; once it is over every mine and flag is disclosed.
func (s *GameState) PlayerGrid() Grid {
	b := s.board
	grid := make(Grid, len(b.cells))
	over := s.Finished()
	for i, cell := range b.cells {
		switch {
		case i == s.exploded:
			grid[i] = ExplodedMine
		case cell.State == Revealed && cell.HasMine:
			grid[i] = UnflaggedMine
		case cell.State == Revealed:
			grid[i] = Square(cell.AdjacentMines)
		case cell.State == Flagged && !over:
			grid[i] = Flag
		case cell.State == Flagged && cell.HasMine:
			grid[i] = CorrectFlag
		case cell.State == Flagged:
			grid[i] = WrongFlag
		case over && cell.HasMine:
			grid[i] = UnflaggedMine
		default:
			grid[i] = Unknown
		}
	}
	return grid
}
