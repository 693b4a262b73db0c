package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/vancomm/sweeper/internal/mines"
)

// DefaultGameParams are the board dimensions used when a client does not ask
// for specific ones.
var DefaultGameParams = mines.GameParams{Width: 10, Height: 10, MineCount: 10}

const (
	defaultIdleTimeout  = 30 * time.Minute
	defaultMaxDimension = 256
)

func GameParams() (mines.GameParams, error) {
	seed, ok := os.LookupEnv("GAME_PARAMS")
	if !ok {
		return DefaultGameParams, nil
	}
	params, err := mines.ParseSeed(seed)
	if err != nil {
		return mines.GameParams{}, fmt.Errorf("unable to parse GAME_PARAMS: %w", err)
	}
	if err := params.Validate(); err != nil {
		return mines.GameParams{}, fmt.Errorf("invalid GAME_PARAMS: %w", err)
	}
	return *params, nil
}

func IdleTimeout() (time.Duration, error) {
	timeoutStr, ok := os.LookupEnv("SESSION_IDLE_TIMEOUT")
	if !ok {
		return defaultIdleTimeout, nil
	}
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return 0, fmt.Errorf("unable to parse SESSION_IDLE_TIMEOUT: %w", err)
	}
	if timeout <= 0 {
		return 0, fmt.Errorf("SESSION_IDLE_TIMEOUT must be positive, got %s", timeout)
	}
	return timeout, nil
}

// MaxDimension caps the width and height a client may ask for.
func MaxDimension() (int, error) {
	maxStr, ok := os.LookupEnv("GAME_MAX_DIMENSION")
	if !ok {
		return defaultMaxDimension, nil
	}
	maxDim, err := strconv.Atoi(maxStr)
	if err != nil {
		return 0, fmt.Errorf("unable to parse GAME_MAX_DIMENSION: %w", err)
	}
	if maxDim <= 0 {
		return 0, fmt.Errorf("GAME_MAX_DIMENSION must be positive, got %d", maxDim)
	}
	return maxDim, nil
}
