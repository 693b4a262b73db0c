package handlers

import (
	"errors"
	"fmt"

	"github.com/gorilla/schema"

	"github.com/vancomm/sweeper/internal/mines"
	"github.com/vancomm/sweeper/internal/session"
)

var ErrBoardTooLarge = errors.New("board too large")

func newDecoder() *schema.Decoder {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	return dec
}

type CreateNewGameDTO struct {
	Width     int `schema:"width"`
	Height    int `schema:"height"`
	MineCount int `schema:"mine_count"`
}

// ParseCreateNewGameDTO fills in the parameters missing from src with
// defaults. Boards wider or taller than maxDimension are rejected.
func ParseCreateNewGameDTO(
	dec *schema.Decoder, src map[string][]string, defaults mines.GameParams, maxDimension int,
) (mines.GameParams, error) {
	dto := CreateNewGameDTO{
		Width:     defaults.Width,
		Height:    defaults.Height,
		MineCount: defaults.MineCount,
	}
	if err := dec.Decode(&dto, src); err != nil {
		return mines.GameParams{}, err
	}
	if dto.Width > maxDimension || dto.Height > maxDimension {
		return mines.GameParams{}, fmt.Errorf(
			"%w: %dx%d exceeds %dx%d",
			ErrBoardTooLarge, dto.Width, dto.Height, maxDimension, maxDimension,
		)
	}
	params := mines.GameParams(dto)
	return params, params.Validate()
}

type PositionDTO struct {
	Row int `schema:"row,required"`
	Col int `schema:"col,required"`
}

func ParsePosition(dec *schema.Decoder, src map[string][]string) (PositionDTO, error) {
	var dto PositionDTO
	err := dec.Decode(&dto, src)
	return dto, err
}

type GameSessionDTO struct {
	SessionId string        `json:"session_id"`
	Token     string        `json:"token,omitempty"`
	Round     int           `json:"round"`
	Grid      mines.Grid    `json:"grid"`
	Width     int           `json:"width"`
	Height    int           `json:"height"`
	MineCount int           `json:"mine_count"`
	Outcome   mines.Outcome `json:"outcome"`
	Revealed  int           `json:"revealed"`
	Flags     int           `json:"flags"`
	StartedAt int64         `json:"started_at"`
}

func NewGameSessionDTO(s session.Snapshot) *GameSessionDTO {
	return &GameSessionDTO{
		SessionId: s.SessionId,
		Round:     s.Round,
		Grid:      s.Grid,
		Width:     s.Params.Width,
		Height:    s.Params.Height,
		MineCount: s.Params.MineCount,
		Outcome:   s.Outcome,
		Revealed:  s.Revealed,
		Flags:     s.Flags,
		StartedAt: s.StartedAt.UnixMilli(),
	}
}

type RoundsQueryDTO struct {
	Outcome   string `schema:"outcome"`
	Width     int    `schema:"width"`
	Height    int    `schema:"height"`
	MineCount int    `schema:"mine_count"`
	Limit     int    `schema:"limit"`
}
