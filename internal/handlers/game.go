package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/gorilla/schema"

	"github.com/vancomm/sweeper/internal/command"
	"github.com/vancomm/sweeper/internal/config"
	"github.com/vancomm/sweeper/internal/middleware"
	"github.com/vancomm/sweeper/internal/mines"
	"github.com/vancomm/sweeper/internal/repository"
	"github.com/vancomm/sweeper/internal/session"
)

const maxBatchBytes = 64 << 10

var (
	ErrUnauthorized = errors.New("a valid token for this session is required")
	ErrNoSession    = errors.New("no such session")
)

// RoundStore records finished rounds. The repository implements it.
type RoundStore interface {
	CreateRound(context.Context, repository.CreateRoundParams) (*repository.Round, error)
	ListRounds(context.Context, repository.RoundFilter) ([]repository.Round, error)
}

type GameHandler struct {
	logger   *slog.Logger
	store    *session.Store
	tokens   *config.Tokens
	ws       *config.WebSocket
	rounds   RoundStore
	defaults mines.GameParams
	maxDim   int
	dec      *schema.Decoder
}

// NewGameHandler wires the game endpoints. rounds may be nil, in which case
// finished rounds are not recorded. maxDimension bounds the width and height
// of new boards.
func NewGameHandler(
	logger *slog.Logger,
	store *session.Store,
	tokens *config.Tokens,
	ws *config.WebSocket,
	rounds RoundStore,
	defaults mines.GameParams,
	maxDimension int,
) *GameHandler {
	return &GameHandler{
		logger:   logger,
		store:    store,
		tokens:   tokens,
		ws:       ws,
		rounds:   rounds,
		defaults: defaults,
		maxDim:   maxDimension,
		dec:      newDecoder(),
	}
}

func (g GameHandler) NewGame(w http.ResponseWriter, r *http.Request) {
	params, err := ParseCreateNewGameDTO(g.dec, r.URL.Query(), g.defaults, g.maxDim)
	if err != nil {
		sendError(w, g.logger, http.StatusBadRequest, err)
		return
	}

	s, err := g.store.Create(params)
	if err != nil {
		internalError(w, g.logger, "unable to create a new game", err)
		return
	}

	token, err := g.tokens.Sign(s.Id())
	if err != nil {
		g.store.Delete(s.Id())
		internalError(w, g.logger, "unable to sign session token", err)
		return
	}

	dto := NewGameSessionDTO(s.Snapshot())
	dto.Token = token
	w.Header().Set("Location", "/game/"+s.Id())
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	sendJSONOrLog(w, g.logger, dto)
}

// authorizedSession resolves the {id} path value to a session the caller
// holds a token for. It writes the error response itself.
func (g GameHandler) authorizedSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := r.PathValue("id")
	claims, ok := middleware.SessionClaims(r.Context())
	if !ok || claims.Authorize(id) != nil {
		sendError(w, g.logger, http.StatusUnauthorized, ErrUnauthorized)
		return nil, false
	}
	s, err := g.store.Get(id)
	if errors.Is(err, session.ErrNotFound) {
		sendError(w, g.logger, http.StatusNotFound, ErrNoSession)
		return nil, false
	}
	if err != nil {
		internalError(w, g.logger, "unable to fetch session", err)
		return nil, false
	}
	return s, true
}

func (g GameHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	s, ok := g.authorizedSession(w, r)
	if !ok {
		return
	}
	sendJSONOrLog(w, g.logger, NewGameSessionDTO(s.Snapshot()))
}

func (g GameHandler) move(verb command.Verb) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := g.authorizedSession(w, r)
		if !ok {
			return
		}
		pos, err := ParsePosition(g.dec, r.URL.Query())
		if err != nil {
			sendError(w, g.logger, http.StatusBadRequest, err)
			return
		}
		g.apply(w, r, s, command.Command{Verb: verb, Row: pos.Row, Col: pos.Col})
	}
}

func (g GameHandler) Reveal(w http.ResponseWriter, r *http.Request) {
	g.move(command.Open)(w, r)
}

func (g GameHandler) Flag(w http.ResponseWriter, r *http.Request) {
	g.move(command.Flag)(w, r)
}

func (g GameHandler) Restart(w http.ResponseWriter, r *http.Request) {
	s, ok := g.authorizedSession(w, r)
	if !ok {
		return
	}
	snap, err := s.Restart()
	if err != nil {
		internalError(w, g.logger, "unable to restart session", err)
		return
	}
	sendJSONOrLog(w, g.logger, NewGameSessionDTO(snap))
}

// Batch accepts newline-separated commands in the request body (see package
// command). A malformed line rejects the whole batch with its line number;
// otherwise commands run in order until one ends the round.
func (g GameHandler) Batch(w http.ResponseWriter, r *http.Request) {
	s, ok := g.authorizedSession(w, r)
	if !ok {
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBatchBytes+1))
	if err != nil {
		internalError(w, g.logger, "unable to read request body", err)
		return
	}
	if len(body) > maxBatchBytes {
		sendError(w, g.logger, http.StatusRequestEntityTooLarge,
			fmt.Errorf("batch must not exceed %d bytes", maxBatchBytes))
		return
	}
	cmds, err := command.ParseBatch(string(body))
	var lineErr *command.LineError
	if errors.As(err, &lineErr) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, g.logger, lineErr)
		return
	}
	g.apply(w, r, s, cmds...)
}

func (g GameHandler) apply(w http.ResponseWriter, r *http.Request, s *session.Session, cmds ...command.Command) {
	res, err := s.Apply(cmds...)
	if err != nil {
		internalError(w, g.logger, "unable to apply commands", err)
		return
	}
	g.finish(r.Context(), s, res)
	sendJSONOrLog(w, g.logger, NewGameSessionDTO(res.Snapshot))
}

// finish records a round that the last commands ended. Failing to record is
// logged and otherwise ignored: the game itself has already moved on.
func (g GameHandler) finish(ctx context.Context, s *session.Session, res session.Result) {
	if !res.Finished {
		return
	}
	g.logger.Info("round finished",
		slog.String("session", s.Id()),
		slog.Int("round", res.Round),
		slog.String("outcome", res.Snapshot.Outcome.String()),
	)
	if g.rounds == nil {
		return
	}
	_, err := g.rounds.CreateRound(ctx, repository.CreateRoundParams{
		SessionId: s.Id(),
		Round:     res.Round,
		Params:    res.Snapshot.Params,
		Outcome:   res.Snapshot.Outcome,
		Revealed:  res.Snapshot.Revealed,
	})
	if errors.Is(err, repository.ErrRoundExists) {
		g.logger.Warn("round already recorded", slog.Any("error", err))
		return
	}
	if err != nil {
		g.logger.Error("unable to record round", slog.Any("error", err))
	}
}
