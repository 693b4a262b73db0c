package session

import (
	"encoding/base64"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vancomm/sweeper/internal/command"
	"github.com/vancomm/sweeper/internal/mines"
)

// Session is one player's live game. All access goes through its mutex.
type Session struct {
	id        string
	params    mines.GameParams
	startedAt time.Time

	mu       sync.Mutex
	rnd      *rand.Rand
	game     *mines.GameState
	round    int
	lastSeen time.Time
}

// Snapshot is an immutable view of a session for rendering.
type Snapshot struct {
	SessionId string
	Round     int
	Params    mines.GameParams
	Outcome   mines.Outcome
	Grid      mines.Grid
	Revealed  int
	Flags     int
	StartedAt time.Time
}

// Result describes what a batch of commands did to a session.
type Result struct {
	// Finished is set when a command moved the round from playing to won or
	// lost. Round is the number of that round.
	Finished bool
	Round    int
	Snapshot Snapshot
}

func (s *Session) Id() string {
	return s.id
}

func (s *Session) Params() mines.GameParams {
	return s.params
}

func (s *Session) touch(now time.Time) {
	s.lastSeen = now
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) snapshot() Snapshot {
	b := s.game.Board()
	return Snapshot{
		SessionId: s.id,
		Round:     s.round,
		Params:    s.params,
		Outcome:   s.game.Outcome(),
		Grid:      s.game.PlayerGrid(),
		Revealed:  b.Revealed(),
		Flags:     b.Flags(),
		StartedAt: s.startedAt,
	}
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch(time.Now())
	return s.snapshot()
}

// restart must be called with s.mu held.
func (s *Session) restart() error {
	game, err := mines.Restart(s.params, s.rnd)
	if err != nil {
		return err
	}
	s.game = game
	s.round++
	return nil
}

func (s *Session) Restart() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch(time.Now())
	if err := s.restart(); err != nil {
		return Snapshot{}, err
	}
	return s.snapshot(), nil
}

// Apply runs cmds in order and stops after the command that ends the round,
// so moves queued behind a finishing move are dropped.
func (s *Session) Apply(cmds ...command.Command) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch(time.Now())

	var res Result
	for _, c := range cmds {
		wasOver := s.game.Finished()
		if c.Apply(s.game) {
			if err := s.restart(); err != nil {
				return Result{}, err
			}
			continue
		}
		if !wasOver && s.game.Finished() {
			res.Finished = true
			res.Round = s.round
			break
		}
	}
	res.Snapshot = s.snapshot()
	return res, nil
}

// newId returns 128 random bits, URL-safe. Ids outlive the process inside
// session tokens and round history, so they must not repeat.
func newId() string {
	u := [16]byte(uuid.New())
	return base64.RawURLEncoding.EncodeToString(u[:])
}
