package handlers

import (
	"errors"
	"net/http"

	"github.com/vancomm/sweeper/internal/mines"
	"github.com/vancomm/sweeper/internal/repository"
)

var (
	ErrHistoryDisabled = errors.New("round history is not enabled")
	ErrPartialParams   = errors.New("width and height must be given together")
	ErrOutcomeFilter   = errors.New("outcome must be won or lost")
)

func ParseRoundFilter(dto RoundsQueryDTO) (repository.RoundFilter, error) {
	filter := repository.RoundFilter{Limit: dto.Limit}
	if dto.Outcome != "" {
		var outcome mines.Outcome
		if err := outcome.UnmarshalText([]byte(dto.Outcome)); err != nil || !outcome.Terminal() {
			return filter, ErrOutcomeFilter
		}
		filter.Outcome = &outcome
	}
	switch {
	case dto.Width != 0 && dto.Height != 0:
		filter.Params = &mines.GameParams{
			Width:     dto.Width,
			Height:    dto.Height,
			MineCount: dto.MineCount,
		}
	case dto.Width != 0 || dto.Height != 0 || dto.MineCount != 0:
		return filter, ErrPartialParams
	}
	return filter, nil
}

func (g GameHandler) Rounds(w http.ResponseWriter, r *http.Request) {
	if g.rounds == nil {
		sendError(w, g.logger, http.StatusNotFound, ErrHistoryDisabled)
		return
	}

	var dto RoundsQueryDTO
	if err := g.dec.Decode(&dto, r.URL.Query()); err != nil {
		sendError(w, g.logger, http.StatusBadRequest, err)
		return
	}
	filter, err := ParseRoundFilter(dto)
	if err != nil {
		sendError(w, g.logger, http.StatusBadRequest, err)
		return
	}

	rounds, err := g.rounds.ListRounds(r.Context(), filter)
	if err != nil {
		internalError(w, g.logger, "unable to list rounds", err)
		return
	}
	if rounds == nil {
		rounds = []repository.Round{}
	}
	sendJSONOrLog(w, g.logger, rounds)
}
