package mines

import (
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	Log = slog.New(slog.NewTextHandler(io.Discard, nil))
	os.Exit(m.Run())
}

// riggedGame builds a playing round with mines at exactly the given points.
func riggedGame(t *testing.T, width, height int, mines ...[2]int) *GameState {
	t.Helper()
	board, err := NewBoard(width, height, len(mines))
	require.NoError(t, err)
	for _, p := range mines {
		board.cells[board.index(p[0], p[1])].HasMine = true
	}
	board.ComputeAdjacencyCounts()
	return &GameState{board: board, outcome: Playing, exploded: -1}
}

func TestNewBoardValidation(t *testing.T) {
	tests := []struct {
		name                     string
		width, height, mineCount int
		valid                    bool
	}{
		{"1x1(0)", 1, 1, 0, true},
		{"10x10(10)", 10, 10, 10, true},
		{"3x2(5)", 3, 2, 5, true},
		{"zero width", 0, 5, 0, false},
		{"negative height", 5, -1, 0, false},
		{"negative mines", 5, 5, -1, false},
		{"board full of mines", 3, 3, 9, false},
		{"more mines than cells", 2, 2, 7, false},
		{"1x1(1)", 1, 1, 1, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			board, err := NewBoard(test.width, test.height, test.mineCount)
			if !test.valid {
				require.ErrorIs(t, err, ErrInvalidConfiguration)
				var ce *InvalidConfigurationError
				require.ErrorAs(t, err, &ce)
				assert.Equal(t, test.mineCount, ce.MineCount)
				assert.Nil(t, board)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.width, board.Width())
			assert.Equal(t, test.height, board.Height())
			assert.Equal(t, test.mineCount, board.MineCount())
			for row := range test.height {
				for col := range test.width {
					assert.Equal(t, Cell{State: Hidden}, board.Cell(row, col))
				}
			}
		})
	}
}

func TestInBounds(t *testing.T) {
	board, err := NewBoard(4, 3, 0)
	require.NoError(t, err)

	assert.True(t, board.InBounds(0, 0))
	assert.True(t, board.InBounds(2, 3))
	assert.False(t, board.InBounds(3, 0))
	assert.False(t, board.InBounds(0, 4))
	assert.False(t, board.InBounds(-1, 0))
	assert.False(t, board.InBounds(0, -1))
}

func TestNeighbours(t *testing.T) {
	board, err := NewBoard(3, 3, 0)
	require.NoError(t, err)

	count := func(row, col int) (n int) {
		for r, c := range board.Neighbours(row, col) {
			assert.True(t, board.InBounds(r, c))
			assert.False(t, r == row && c == col)
			n++
		}
		return
	}

	assert.Equal(t, 3, count(0, 0))
	assert.Equal(t, 5, count(0, 1))
	assert.Equal(t, 8, count(1, 1))
	assert.Equal(t, 3, count(2, 2))
}

func naiveAdjacent(b *Board, row, col int) (n int) {
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			r, c := row+dr, col+dc
			if (dr != 0 || dc != 0) && r >= 0 && r < b.height && c >= 0 && c < b.width &&
				b.cells[r*b.width+c].HasMine {
				n++
			}
		}
	}
	return
}

func TestNewSessionMinesAndCounts(t *testing.T) {
	tests := []GameParams{
		{Width: 1, Height: 1, MineCount: 0},
		{Width: 2, Height: 2, MineCount: 3},
		{Width: 10, Height: 10, MineCount: 10},
		{Width: 9, Height: 9, MineCount: 35},
		{Width: 16, Height: 16, MineCount: 99},
		{Width: 30, Height: 16, MineCount: 170},
		{Width: 1, Height: 40, MineCount: 39},
	}

	r := rand.New(rand.NewPCG(1, 2))
	for _, params := range tests {
		t.Run(params.String(), func(t *testing.T) {
			for range 20 {
				game, err := NewSession(params, r)
				require.NoError(t, err)
				require.Equal(t, Playing, game.Outcome())

				b := game.Board()
				mines := 0
				for row := range b.Height() {
					for col := range b.Width() {
						cell := b.Cell(row, col)
						assert.Equal(t, Hidden, cell.State)
						if cell.HasMine {
							mines++
							continue
						}
						assert.Equal(t, naiveAdjacent(b, row, col), cell.AdjacentMines,
							"adjacency at %d:%d", row, col)
					}
				}
				assert.Equal(t, params.MineCount, mines)
			}
		})
	}
}

func TestNewSessionInvalid(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	_, err := NewSession(GameParams{Width: 3, Height: 3, MineCount: 9}, r)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestPlaceMinesCoversBoard(t *testing.T) {
	if testing.Short() {
		t.Skip()
	}

	// every cell must be reachable by the sampler
	r := rand.New(rand.NewPCG(1, 2))
	seen := make([]bool, 5*4)
	for range 500 {
		board, err := NewBoard(5, 4, 1)
		require.NoError(t, err)
		board.PlaceMines(r)
		for i, cell := range board.cells {
			if cell.HasMine {
				seen[i] = true
			}
		}
	}
	for i, ok := range seen {
		assert.True(t, ok, "cell %d never mined", i)
	}
}

func TestCountersAndParams(t *testing.T) {
	game := riggedGame(t, 3, 3, [2]int{2, 2})
	b := game.Board()
	assert.Equal(t, GameParams{Width: 3, Height: 3, MineCount: 1}, b.Params())
	assert.Equal(t, 0, b.Revealed())

	game.ToggleFlag(2, 2)
	assert.Equal(t, 1, b.Flags())

	game.Reveal(1, 1)
	assert.Equal(t, 1, b.Revealed())
}
