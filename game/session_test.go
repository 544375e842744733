package game

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dimaq12/mines/models"
	"github.com/dimaq12/mines/store"
)

type fakeRecorder struct {
	results []store.Result
	err     error
}

func (r *fakeRecorder) Record(_ context.Context, res store.Result) error {
	r.results = append(r.results, res)
	return r.err
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestSession(seed uint64, rec Recorder) (*Session, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	s := NewSession(Beginner, rand.New(rand.NewPCG(seed, seed+1)), rec, zerolog.Nop())
	s.now = clock.now
	return s, clock
}

// startedSession opens the center square and returns a session that is
// still in progress afterwards.
func startedSession(t *testing.T, rec Recorder) (*Session, *fakeClock) {
	t.Helper()
	for seed := uint64(1); seed < 100; seed++ {
		s, clock := newTestSession(seed, rec)
		_, err := s.Play(4, 4, models.Reveal)
		require.NoError(t, err)
		if s.State() == Playing {
			return s, clock
		}
	}
	t.Fatal("no seed left the game in progress after the first reveal")
	return nil, nil
}

func mineSquares(t *testing.T, b *models.Board) []models.Coordinate {
	t.Helper()
	var out []models.Coordinate
	for y := 0; y < b.Height(); y++ {
		for x := 0; x < b.Width(); x++ {
			sq, err := b.Square(x, y)
			require.NoError(t, err)
			if sq.IsMine {
				out = append(out, models.Coordinate{X: x, Y: y})
			}
		}
	}
	return out
}

func TestSession_FirstRevealIsSafe(t *testing.T) {
	for seed := uint64(0); seed < 30; seed++ {
		s, _ := newTestSession(seed, nil)
		require.False(t, s.Board().IsPopulated())

		res, err := s.Play(4, 4, models.Reveal)
		require.NoError(t, err)

		assert.NotEqual(t, models.Explosion, res.Kind, "seed %d", seed)
		assert.NotEqual(t, EndedLoss, s.State(), "seed %d", seed)
		assert.True(t, s.Board().IsPopulated())
		assert.Len(t, mineSquares(t, s.Board()), 10)
		sq, err := s.Board().Square(4, 4)
		require.NoError(t, err)
		assert.False(t, sq.IsMine)
		assert.True(t, sq.IsRevealed)
	}
}

func TestSession_FlagBeforeStart(t *testing.T) {
	s, _ := newTestSession(1, nil)

	res, err := s.Play(0, 0, models.Flag)
	require.NoError(t, err)

	assert.Equal(t, models.Flagged, res.Kind)
	assert.True(t, res.FlagState)
	assert.Equal(t, NotStarted, s.State())
	assert.False(t, s.Board().IsPopulated())
	assert.Equal(t, 9, s.MinesRemaining())
	assert.Zero(t, s.Elapsed())
}

func TestSession_InvalidFirstClick(t *testing.T) {
	s, _ := newTestSession(1, nil)

	_, err := s.Play(9, 0, models.Reveal)
	assert.ErrorIs(t, err, models.ErrInvalidCoordinates)
	assert.Equal(t, NotStarted, s.State())
	assert.False(t, s.Board().IsPopulated())
}

func TestSession_LossRecordsDetonation(t *testing.T) {
	rec := &fakeRecorder{}
	s, clock := startedSession(t, rec)
	mine := mineSquares(t, s.Board())[0]
	clock.advance(3 * time.Second)

	res, err := s.Play(mine.X, mine.Y, models.Reveal)
	require.NoError(t, err)

	assert.Equal(t, models.Explosion, res.Kind)
	assert.Equal(t, EndedLoss, s.State())
	at, ok := s.Detonated()
	require.True(t, ok)
	assert.Equal(t, mine, at)
	assert.Equal(t, 3*time.Second, s.Elapsed())

	require.Len(t, rec.results, 1)
	assert.False(t, rec.results[0].Won)
	assert.Equal(t, "beginner", rec.results[0].Difficulty)
	assert.Equal(t, 10, rec.results[0].Mines)
	assert.Equal(t, 3*time.Second, rec.results[0].Elapsed)

	res, err = s.Play(0, 0, models.Reveal)
	require.NoError(t, err)
	assert.Equal(t, models.NoChange, res.Kind, "finished games ignore plays")
	assert.Len(t, rec.results, 1)
}

func TestSession_WinFlagsAllMines(t *testing.T) {
	rec := &fakeRecorder{}
	s, clock := startedSession(t, rec)
	clock.advance(90 * time.Second)

	b := s.Board()
	for y := 0; y < b.Height() && !s.State().Ended(); y++ {
		for x := 0; x < b.Width() && !s.State().Ended(); x++ {
			sq, err := b.Square(x, y)
			require.NoError(t, err)
			if sq.IsMine || sq.IsRevealed {
				continue
			}
			_, err = s.Play(x, y, models.Reveal)
			require.NoError(t, err)
		}
	}

	assert.Equal(t, EndedWin, s.State())
	assert.Equal(t, 10, b.NumFlags())
	assert.Equal(t, 0, s.MinesRemaining())
	_, ok := s.Detonated()
	assert.False(t, ok)
	require.Len(t, rec.results, 1)
	assert.True(t, rec.results[0].Won)
	assert.Equal(t, 90*time.Second, rec.results[0].Elapsed)
}

func TestSession_RecorderFailureDoesNotFailPlay(t *testing.T) {
	rec := &fakeRecorder{err: errors.New("disk full")}
	s, _ := startedSession(t, rec)
	mine := mineSquares(t, s.Board())[0]

	_, err := s.Play(mine.X, mine.Y, models.Reveal)
	require.NoError(t, err)
	assert.Equal(t, EndedLoss, s.State())
	assert.Len(t, rec.results, 1)
}

func TestSession_PauseFreezesClock(t *testing.T) {
	s, clock := startedSession(t, nil)

	clock.advance(5 * time.Second)
	s.Pause()
	assert.Equal(t, Paused, s.State())
	clock.advance(10 * time.Second)
	assert.Equal(t, 5*time.Second, s.Elapsed())

	res, err := s.Play(0, 0, models.Flag)
	require.NoError(t, err)
	assert.Equal(t, models.NoChange, res.Kind)

	s.Resume()
	clock.advance(2 * time.Second)
	assert.Equal(t, Playing, s.State())
	assert.Equal(t, 7*time.Second, s.Elapsed())
}

func TestSession_PauseOnlyWhilePlaying(t *testing.T) {
	s, _ := newTestSession(1, nil)
	s.Pause()
	assert.Equal(t, NotStarted, s.State())
	s.Resume()
	assert.Equal(t, NotStarted, s.State())
}

func TestSession_RestartKeepsLayout(t *testing.T) {
	s, _ := startedSession(t, nil)
	mines := mineSquares(t, s.Board())
	_, err := s.Play(mines[0].X, mines[0].Y, models.Flag)
	require.NoError(t, err)

	s.Restart()

	assert.Equal(t, NotStarted, s.State())
	assert.True(t, s.Board().IsPopulated())
	assert.Equal(t, 0, s.Board().NumFlags())
	assert.Zero(t, s.Elapsed())

	_, err = s.Play(0, 8, models.Reveal)
	require.NoError(t, err)
	assert.Equal(t, mines, mineSquares(t, s.Board()), "restart must not move mines")
}

func TestSession_NewGameAndDifficulty(t *testing.T) {
	s, _ := startedSession(t, nil)

	s.NewGame()
	assert.Equal(t, NotStarted, s.State())
	assert.False(t, s.Board().IsPopulated())
	assert.Equal(t, 10, s.MinesRemaining())

	s.SetDifficulty(Expert)
	assert.Equal(t, Expert, s.Difficulty())
	assert.Equal(t, 30, s.Board().Width())
	assert.Equal(t, 16, s.Board().Height())
	assert.Equal(t, 99, s.MinesRemaining())
}

func TestParseDifficulty(t *testing.T) {
	for _, d := range []Difficulty{Beginner, Intermediate, Expert} {
		got, err := ParseDifficulty(d.String())
		require.NoError(t, err)
		assert.Equal(t, d, got)
	}

	got, err := ParseDifficulty(" Expert ")
	require.NoError(t, err)
	assert.Equal(t, Expert, got)

	got, err = ParseDifficulty("nightmare")
	assert.Error(t, err)
	assert.Equal(t, Intermediate, got)
}
