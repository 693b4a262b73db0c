package mines

import (
	"iter"
	"math/rand/v2"
)

type CellState int8

const (
	Hidden CellState = iota
	Revealed
	Flagged
)

func (s CellState) String() string {
	switch s {
	case Hidden:
		return "hidden"
	case Revealed:
		return "revealed"
	case Flagged:
		return "flagged"
	default:
		return "invalid"
	}
}

// Cell is a single grid position. AdjacentMines is meaningful only when
// HasMine is false.
type Cell struct {
	HasMine       bool
	AdjacentMines int
	State         CellState
}

// Board owns a width x height grid stored row-major. The zero Board is not
// usable; build one with [NewBoard] or [NewSession].
type Board struct {
	width, height, mineCount int
	cells                    []Cell
}

// NewBoard allocates a board with every cell hidden and unmined.
func NewBoard(width, height, mineCount int) (*Board, error) {
	params := GameParams{Width: width, Height: height, MineCount: mineCount}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Board{
		width:     width,
		height:    height,
		mineCount: mineCount,
		cells:     make([]Cell, width*height),
	}, nil
}

func (b *Board) Width() int { return b.width }
func (b *Board) Height() int { return b.height }
func (b *Board) MineCount() int { return b.mineCount }

func (b *Board) Params() GameParams {
	return GameParams{Width: b.width, Height: b.height, MineCount: b.mineCount}
}

func (b *Board) InBounds(row, col int) bool {
	return 0 <= row && row < b.height && 0 <= col && col < b.width
}

// Cell returns a copy of the cell at row:col. It panics when the coordinate is
// out of bounds.
func (b *Board) Cell(row, col int) Cell {
	return b.cells[b.index(row, col)]
}

func (b *Board) index(row, col int) int {
	return row*b.width + col
}

func (b *Board) point(i int) (row, col int) {
	return i / b.width, i % b.width
}

// Neighbours yields the in-bounds cells around row:col, excluding row:col
// itself. Edge cells simply have fewer neighbours.
func (b *Board) Neighbours(row, col int) iter.Seq2[int, int] {
	return func(yield func(int, int) bool) {
		for dr := -1; dr <= 1; dr++ {
			for dc := -1; dc <= 1; dc++ {
				if dr == 0 && dc == 0 {
					continue
				}
				r, c := row+dr, col+dc
				if !b.InBounds(r, c) {
					continue
				}
				if !yield(r, c) {
					return
				}
			}
		}
	}
}

// PlaceMines mines MineCount distinct cells chosen uniformly at random. A
// drawn coordinate that already holds a mine is discarded and drawn again.
// It must run exactly once, before [Board.ComputeAdjacencyCounts].
func (b *Board) PlaceMines(r *rand.Rand) {
	placed, draws := 0, 0
	for placed < b.mineCount {
		draws++
		i := b.index(r.IntN(b.height), r.IntN(b.width))
		if b.cells[i].HasMine {
			continue
		}
		b.cells[i].HasMine = true
		placed++
	}
	Log.Debug("mines placed", "params", b.Params().String(), "draws", draws)
}

func (b *Board) ComputeAdjacencyCounts() {
	for i := range b.cells {
		if b.cells[i].HasMine {
			continue
		}
		row, col := b.point(i)
		n := 0
		for r, c := range b.Neighbours(row, col) {
			if b.cells[b.index(r, c)].HasMine {
				n++
			}
		}
		b.cells[i].AdjacentMines = n
	}
}

// reveal opens row:col and, when it has no mined neighbours, every cell of
// the surrounding zero region plus its numbered border. Revealed cells act as
// the visited set. It reports whether the opened cell was a mine, in which
// case nothing else is opened.
func (b *Board) reveal(row, col int) (exploded bool) {
	start := b.index(row, col)
	if b.cells[start].State == Revealed {
		return false
	}
	b.cells[start].State = Revealed
	if b.cells[start].HasMine {
		return true
	}

	todo := []int{start}
	for len(todo) > 0 {
		i := todo[len(todo)-1]
		todo = todo[:len(todo)-1]
		if b.cells[i].AdjacentMines != 0 {
			continue
		}
		r, c := b.point(i)
		for rr, cc := range b.Neighbours(r, c) {
			j := b.index(rr, cc)
			if b.cells[j].State == Revealed {
				continue
			}
			b.cells[j].State = Revealed
			todo = append(todo, j)
		}
	}
	return false
}

// cleared reports whether every non-mine cell is revealed.
func (b *Board) cleared() bool {
	for _, cell := range b.cells {
		if !cell.HasMine && cell.State != Revealed {
			return false
		}
	}
	return true
}

func (b *Board) countState(state CellState) (n int) {
	for _, cell := range b.cells {
		if cell.State == state {
			n++
		}
	}
	return
}

// Revealed returns the number of revealed cells.
func (b *Board) Revealed() int {
	return b.countState(Revealed)
}

// Flags returns the number of flagged cells.
func (b *Board) Flags() int {
	return b.countState(Flagged)
}
