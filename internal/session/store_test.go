package session

import (
	"io"
	"log/slog"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/sweeper/internal/command"
	"github.com/vancomm/sweeper/internal/mines"
)

func newTestStore() *Store {
	return NewStore(
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		rand.New(rand.NewPCG(1, 2)),
	)
}

func cmds(t *testing.T, batch string) []command.Command {
	t.Helper()
	c, err := command.ParseBatch(batch)
	require.NoError(t, err)
	return c
}

func TestCreateAndGet(t *testing.T) {
	st := newTestStore()
	params := mines.GameParams{Width: 9, Height: 9, MineCount: 10}

	a, err := st.Create(params)
	require.NoError(t, err)
	b, err := st.Create(params)
	require.NoError(t, err)

	assert.NotEqual(t, a.Id(), b.Id())
	assert.Equal(t, 2, st.Len())

	got, err := st.Get(a.Id())
	require.NoError(t, err)
	assert.Same(t, a, got)

	snap := a.Snapshot()
	assert.Equal(t, 1, snap.Round)
	assert.Equal(t, mines.Playing, snap.Outcome)
	assert.Equal(t, params, snap.Params)
	assert.Len(t, snap.Grid, 81)
	for _, sq := range snap.Grid {
		assert.Equal(t, mines.Unknown, sq)
	}

	_, err = st.Get("nope")
	assert.ErrorIs(t, err, ErrNotFound)

	st.Delete(a.Id())
	_, err = st.Get(a.Id())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIdsAreNotReused(t *testing.T) {
	params := mines.GameParams{Width: 2, Height: 2, MineCount: 1}
	seen := make(map[string]bool)
	// same seed twice, as after a restart
	for range 2 {
		st := newTestStore()
		for range 50 {
			s, err := st.Create(params)
			require.NoError(t, err)
			assert.Len(t, s.Id(), 22)
			assert.False(t, seen[s.Id()], "id %s reused", s.Id())
			seen[s.Id()] = true
		}
	}
}

func TestCreateInvalid(t *testing.T) {
	st := newTestStore()
	_, err := st.Create(mines.GameParams{Width: 2, Height: 2, MineCount: 4})
	assert.ErrorIs(t, err, mines.ErrInvalidConfiguration)
	assert.Equal(t, 0, st.Len())
}

func TestApplyFinishesRound(t *testing.T) {
	st := newTestStore()
	s, err := st.Create(mines.GameParams{Width: 3, Height: 3, MineCount: 0})
	require.NoError(t, err)

	res, err := s.Apply(cmds(t, "f 2 2\no 0 0\nf 1 1")...)
	require.NoError(t, err)

	assert.True(t, res.Finished)
	assert.Equal(t, 1, res.Round)
	assert.Equal(t, mines.Won, res.Snapshot.Outcome)
	assert.Equal(t, 9, res.Snapshot.Revealed)
	assert.Equal(t, 0, res.Snapshot.Flags)

	again, err := s.Apply(cmds(t, "o 1 1")...)
	require.NoError(t, err)
	assert.False(t, again.Finished)
	assert.Equal(t, mines.Won, again.Snapshot.Outcome)
}

func TestApplyRestart(t *testing.T) {
	st := newTestStore()
	s, err := st.Create(mines.GameParams{Width: 2, Height: 1, MineCount: 0})
	require.NoError(t, err)

	res, err := s.Apply(cmds(t, "o 0 0\nn\nf 0 1")...)
	require.NoError(t, err)

	assert.True(t, res.Finished)
	assert.Equal(t, 1, res.Snapshot.Round)

	res, err = s.Apply(cmds(t, "n\nf 0 1")...)
	require.NoError(t, err)
	assert.False(t, res.Finished)
	assert.Equal(t, 2, res.Snapshot.Round)
	assert.Equal(t, mines.Playing, res.Snapshot.Outcome)
	assert.Equal(t, mines.Grid{mines.Unknown, mines.Flag}, res.Snapshot.Grid)

	snap, err := s.Restart()
	require.NoError(t, err)
	assert.Equal(t, 3, snap.Round)
	assert.Equal(t, 0, snap.Flags)
}

func TestSweep(t *testing.T) {
	st := newTestStore()
	params := mines.GameParams{Width: 4, Height: 4, MineCount: 2}
	old, err := st.Create(params)
	require.NoError(t, err)
	fresh, err := st.Create(params)
	require.NoError(t, err)

	old.mu.Lock()
	old.lastSeen = time.Now().Add(-time.Hour)
	old.mu.Unlock()

	assert.Equal(t, 1, st.Sweep(time.Now(), 30*time.Minute))
	_, err = st.Get(old.Id())
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = st.Get(fresh.Id())
	assert.NoError(t, err)
}

func TestConcurrentApply(t *testing.T) {
	st := newTestStore()
	s, err := st.Create(mines.GameParams{Width: 16, Height: 16, MineCount: 40})
	require.NoError(t, err)

	var wg sync.WaitGroup
	finished := make(chan bool, 16*16)
	for row := range 16 {
		for col := range 16 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				res, err := s.Apply(command.Command{Verb: command.Open, Row: row, Col: col})
				if err == nil {
					finished <- res.Finished
				}
			}()
		}
	}
	wg.Wait()
	close(finished)

	n := 0
	for f := range finished {
		if f {
			n++
		}
	}
	assert.Equal(t, 1, n)
	assert.NotEqual(t, mines.Playing, s.Snapshot().Outcome)
}
