package game

import (
	"context"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dimaq12/mines/config"
	"github.com/dimaq12/mines/models"
	"github.com/dimaq12/mines/store"
)

type fakeLeaderboard struct {
	asked []string
}

func (l *fakeLeaderboard) BestTimes(_ context.Context, difficulty string, _ int) ([]store.Result, error) {
	l.asked = append(l.asked, difficulty)
	return []store.Result{{Difficulty: difficulty, Won: true, Elapsed: 12500 * time.Millisecond}}, nil
}

func (l *fakeLeaderboard) Summary(_ context.Context, _ string) (store.Summary, error) {
	return store.Summary{Played: 4, Won: 1}, nil
}

func runeKey(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestActionForKey(t *testing.T) {
	tests := []struct {
		name  string
		event *tcell.EventKey
		chord bool
		want  action
	}{
		{"enter reveals", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), false, action{kind: actPlay, mode: models.Reveal}},
		{"enter reveal-chords", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), true, action{kind: actPlay, mode: models.RevealChord}},
		{"space reveals", runeKey(' '), false, action{kind: actPlay, mode: models.Reveal}},
		{"flag", runeKey('f'), true, action{kind: actPlay, mode: models.Flag}},
		{"chord", runeKey('C'), false, action{kind: actPlay, mode: models.Chord}},
		{"expert", runeKey('3'), false, action{kind: actDifficulty, difficulty: Expert}},
		{"restart", runeKey('r'), false, action{kind: actRestart}},
		{"escape quits", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), false, action{kind: actQuit}},
		{"arrows pass through", tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone), false, action{}},
		{"unknown rune", runeKey('z'), false, action{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, actionForKey(tt.event, tt.chord))
		})
	}
}

func newTestController(t *testing.T) (*GameController, *fakeLeaderboard) {
	t.Helper()
	s, _ := newTestSession(3, nil)
	lb := &fakeLeaderboard{}
	c := NewGameController(s, NewRenderer(true), config.DefaultPreferences(), lb, zerolog.Nop())
	c.redraw()
	return c, lb
}

func TestController_PlaysSelectedSquare(t *testing.T) {
	c, _ := newTestController(t)
	c.renderer.boardTable.Select(2, 3)

	assert.Nil(t, c.handleKey(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone)))

	sq, err := c.session.Board().Square(3, 2)
	require.NoError(t, err)
	assert.True(t, sq.IsRevealed)
	assert.NotEqual(t, NotStarted, c.session.State())
	assert.NotEqual(t, ".", c.renderer.boardTable.GetCell(2, 3).Text)
}

func TestController_EngineErrorIsKept(t *testing.T) {
	c, _ := newTestController(t)
	c.renderer.boardTable.Select(20, 20)

	assert.Nil(t, c.handleKey(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone)))

	require.Error(t, c.err)
	assert.ErrorIs(t, c.err, models.ErrInvalidCoordinates)
	assert.Equal(t, NotStarted, c.session.State())
}

func TestController_ArrowKeysReachTable(t *testing.T) {
	c, _ := newTestController(t)
	ev := tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone)
	assert.Same(t, ev, c.handleKey(ev))
}

func TestController_DifficultyUpdatesPreferences(t *testing.T) {
	c, lb := newTestController(t)

	require.NoError(t, c.apply(action{kind: actDifficulty, difficulty: Expert}))

	assert.Equal(t, "expert", c.Preferences().Difficulty)
	assert.Equal(t, 16, c.renderer.boardTable.GetRowCount())
	assert.Equal(t, 30, c.renderer.boardTable.GetColumnCount())
	assert.Equal(t, []string{"beginner", "expert"}, lb.asked)
	assert.Equal(t, "12.5s", c.best)
	assert.Equal(t, "1/4", c.record)
	assert.Contains(t, c.renderer.status.GetText(false), "Best: 12.5s  Won: 1/4")
}

func TestController_TogglesPreferences(t *testing.T) {
	c, _ := newTestController(t)

	require.NoError(t, c.apply(action{kind: actToggleChord}))
	require.NoError(t, c.apply(action{kind: actToggleDark}))

	prefs := c.Preferences()
	assert.True(t, prefs.LeftClickChord)
	assert.False(t, prefs.DarkMode)
	assert.Equal(t, lightPalette, c.renderer.colors)
	assert.Equal(t, models.RevealChord, actionForKey(runeKey(' '), prefs.LeftClickChord).mode)
}

func TestController_PauseToggles(t *testing.T) {
	c, _ := newTestController(t)
	require.NoError(t, c.apply(action{kind: actPlay, mode: models.Reveal}))
	require.Equal(t, Playing, c.session.State())

	require.NoError(t, c.apply(action{kind: actPause}))
	assert.Equal(t, Paused, c.session.State())
	require.NoError(t, c.apply(action{kind: actPause}))
	assert.Equal(t, Playing, c.session.State())
}
