package session

import (
	"errors"
	"hash/maphash"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/vancomm/sweeper/internal/mines"
)

var ErrNotFound = errors.New("session not found")

// Store keeps live sessions in memory, keyed by random ids that are never
// reused, not even across restarts. Sessions are never written anywhere
// else and vanish on restart or after [Store.Sweep].
type Store struct {
	logger *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session

	rndMu sync.Mutex
	rnd   *rand.Rand
}

func NewRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

// NewStore creates an empty store. Per-session generators are seeded from
// rnd, so a fixed rnd makes the dealt boards reproducible.
func NewStore(logger *slog.Logger, rnd *rand.Rand) *Store {
	if rnd == nil {
		rnd = NewRand()
	}
	return &Store{
		logger:   logger,
		sessions: make(map[string]*Session),
		rnd:      rnd,
	}
}

func (st *Store) sessionRand() *rand.Rand {
	st.rndMu.Lock()
	defer st.rndMu.Unlock()
	return rand.New(rand.NewPCG(st.rnd.Uint64(), st.rnd.Uint64()))
}

// Create deals the first round of a new session.
func (st *Store) Create(params mines.GameParams) (*Session, error) {
	rnd := st.sessionRand()
	game, err := mines.NewSession(params, rnd)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	s := &Session{
		id:        newId(),
		params:    params,
		startedAt: now,
		rnd:       rnd,
		game:      game,
		round:     1,
		lastSeen:  now,
	}

	st.mu.Lock()
	st.sessions[s.id] = s
	st.mu.Unlock()

	st.logger.Debug("session created",
		slog.String("session", s.id), slog.String("params", params.Seed()))
	return s, nil
}

func (st *Store) Get(id string) (*Session, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

func (st *Store) Delete(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}

func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Sweep removes sessions that have not been used for longer than maxIdle and
// returns how many were removed.
func (st *Store) Sweep(now time.Time, maxIdle time.Duration) int {
	st.mu.Lock()
	defer st.mu.Unlock()
	removed := 0
	for id, s := range st.sessions {
		if now.Sub(s.idleSince()) > maxIdle {
			delete(st.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		st.logger.Info("swept idle sessions",
			slog.Int("removed", removed), slog.Int("left", len(st.sessions)))
	}
	return removed
}
