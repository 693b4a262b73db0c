package mines

import (
	"errors"
	"fmt"
)

var ErrInvalidConfiguration = errors.New("invalid board configuration")

// InvalidConfigurationError is returned when a board cannot be built from the
// requested dimensions and mine count.
type InvalidConfigurationError struct {
	Width, Height, MineCount int
}

// [InvalidConfigurationError] implements [error]
func (e *InvalidConfigurationError) Error() string {
	switch {
	case e.Width <= 0:
		return fmt.Sprintf("invalid board configuration: width must be positive, got %d", e.Width)
	case e.Height <= 0:
		return fmt.Sprintf("invalid board configuration: height must be positive, got %d", e.Height)
	case e.MineCount < 0:
		return fmt.Sprintf("invalid board configuration: negative mine count %d", e.MineCount)
	default:
		return fmt.Sprintf(
			"invalid board configuration: %d mines do not fit a %dx%d board",
			e.MineCount, e.Width, e.Height,
		)
	}
}

func (e *InvalidConfigurationError) Is(target error) bool {
	return target == ErrInvalidConfiguration
}
