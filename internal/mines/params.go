package mines

import (
	"fmt"
	"math"
	"strings"
)

type GameParams struct {
	Width, Height, MineCount int
}

func (p GameParams) Unpack() (w int, h int, mc int) {
	return p.Width, p.Height, p.MineCount
}

// Validate reports an [InvalidConfigurationError] unless both dimensions are
// positive and 0 <= MineCount < Width*Height.
func (p GameParams) Validate() error {
	w, h, mc := p.Unpack()
	if w <= 0 || h <= 0 || mc < 0 || w > math.MaxInt/h || mc >= w*h {
		return &InvalidConfigurationError{Width: w, Height: h, MineCount: mc}
	}
	return nil
}

func (p GameParams) Seed() string {
	return fmt.Sprintf("%d:%d:%d", p.Width, p.Height, p.MineCount)
}

func (p GameParams) String() string {
	return fmt.Sprintf("%dx%d(%d)", p.Width, p.Height, p.MineCount)
}

// ParseSeed is the inverse of [GameParams.Seed]. It only checks the format;
// call [GameParams.Validate] for the board constraints.
func ParseSeed(seed string) (*GameParams, error) {
	p := &GameParams{}
	sseed := strings.ReplaceAll(strings.TrimSpace(seed), ":", " ")
	n, err := fmt.Sscanf(sseed, "%d %d %d", &p.Width, &p.Height, &p.MineCount)
	if n != 3 || err != nil {
		return nil, fmt.Errorf(
			`invalid game params seed (seed = "%s", n = %d, err = %w)`,
			seed, n, err,
		)
	}
	return p, nil
}
