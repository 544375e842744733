package game

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/rs/zerolog"

	"github.com/dimaq12/mines/config"
	"github.com/dimaq12/mines/models"
	"github.com/dimaq12/mines/store"
)

const tickInterval = 100 * time.Millisecond

// Leaderboard answers best-time and win-rate queries. *store.Results satisfies it.
type Leaderboard interface {
	BestTimes(ctx context.Context, difficulty string, limit int) ([]store.Result, error)
	Summary(ctx context.Context, difficulty string) (store.Summary, error)
}

type actionKind int

const (
	actNone actionKind = iota
	actPlay
	actNewGame
	actRestart
	actPause
	actDifficulty
	actToggleChord
	actToggleDark
	actQuit
)

type action struct {
	kind       actionKind
	mode       models.PlayMode
	difficulty Difficulty
}

// actionForKey maps a key press to what the controller should do. Keys it
// does not know (arrows included) are left to the table.
func actionForKey(event *tcell.EventKey, leftClickChord bool) action {
	reveal := models.Reveal
	if leftClickChord {
		reveal = models.RevealChord
	}

	switch event.Key() {
	case tcell.KeyEnter:
		return action{kind: actPlay, mode: reveal}
	case tcell.KeyEscape:
		return action{kind: actQuit}
	case tcell.KeyRune:
	default:
		return action{}
	}

	switch event.Rune() {
	case ' ':
		return action{kind: actPlay, mode: reveal}
	case 'f', 'F':
		return action{kind: actPlay, mode: models.Flag}
	case 'c', 'C':
		return action{kind: actPlay, mode: models.Chord}
	case 'n', 'N':
		return action{kind: actNewGame}
	case 'r', 'R':
		return action{kind: actRestart}
	case 'p', 'P':
		return action{kind: actPause}
	case '1':
		return action{kind: actDifficulty, difficulty: Beginner}
	case '2':
		return action{kind: actDifficulty, difficulty: Intermediate}
	case '3':
		return action{kind: actDifficulty, difficulty: Expert}
	case 'l', 'L':
		return action{kind: actToggleChord}
	case 'd', 'D':
		return action{kind: actToggleDark}
	case 'q', 'Q':
		return action{kind: actQuit}
	}
	return action{}
}

// GameController routes terminal input to the session and keeps the screen
// in sync with it. All session access happens on the tview event loop.
type GameController struct {
	session     *Session
	renderer    *Renderer
	app         *tview.Application
	prefs       config.Preferences
	leaderboard Leaderboard
	log         zerolog.Logger
	best        string
	record      string
	// err is the engine failure that stopped the app, returned by Run.
	err error
}

// NewGameController wires a session to a renderer. leaderboard may be nil.
func NewGameController(session *Session, renderer *Renderer, prefs config.Preferences, leaderboard Leaderboard, logger zerolog.Logger) *GameController {
	c := &GameController{
		session:     session,
		renderer:    renderer,
		app:         tview.NewApplication(),
		prefs:       prefs,
		leaderboard: leaderboard,
		log:         logger,
	}
	c.refreshBest()
	return c
}

// Preferences returns the preferences as changed during play.
func (c *GameController) Preferences() config.Preferences {
	return c.prefs
}

// Run blocks until the player quits. It returns the engine error that
// stopped the app, if any.
func (c *GameController) Run() error {
	c.redraw()

	layout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(c.renderer.status, 1, 0, false).
		AddItem(c.renderer.boardTable, 0, 1, true)
	c.app.SetRoot(layout, true)
	c.renderer.boardTable.SetInputCapture(c.handleKey)

	done := make(chan struct{})
	defer close(done)
	go c.tick(done)

	if err := c.app.Run(); err != nil {
		return err
	}
	return c.err
}

// tick refreshes the clock. The update itself runs on the event loop.
func (c *GameController) tick(done <-chan struct{}) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			c.app.QueueUpdateDraw(func() {
				c.renderer.DrawStatus(c.session, c.best, c.record)
			})
		}
	}
}

func (c *GameController) handleKey(event *tcell.EventKey) *tcell.EventKey {
	act := actionForKey(event, c.prefs.LeftClickChord)
	if act.kind == actNone {
		return event
	}
	if err := c.apply(act); err != nil {
		c.log.Error().Err(err).Msg("engine rejected play")
		c.err = err
		c.app.Stop()
	}
	return nil
}

func (c *GameController) apply(act action) error {
	switch act.kind {
	case actPlay:
		row, col := c.renderer.boardTable.GetSelection()
		before := c.session.State()
		if _, err := c.session.Play(col, row, act.mode); err != nil {
			return fmt.Errorf("%s at (%d, %d): %w", act.mode, col, row, err)
		}
		if !before.Ended() && c.session.State().Ended() {
			c.refreshBest()
		}
	case actNewGame:
		c.session.NewGame()
	case actRestart:
		c.session.Restart()
	case actPause:
		if c.session.State() == Paused {
			c.session.Resume()
		} else {
			c.session.Pause()
		}
	case actDifficulty:
		c.session.SetDifficulty(act.difficulty)
		c.prefs.Difficulty = act.difficulty.String()
		c.refreshBest()
	case actToggleChord:
		c.prefs.LeftClickChord = !c.prefs.LeftClickChord
	case actToggleDark:
		c.prefs.DarkMode = !c.prefs.DarkMode
		c.renderer.SetDarkMode(c.prefs.DarkMode)
	case actQuit:
		c.app.Stop()
		return nil
	}
	c.redraw()
	return nil
}

func (c *GameController) redraw() {
	c.renderer.DrawBoard(c.session)
	c.renderer.DrawStatus(c.session, c.best, c.record)
}

func (c *GameController) refreshBest() {
	c.best, c.record = "", ""
	if c.leaderboard == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()
	difficulty := c.session.Difficulty().String()

	best, err := c.leaderboard.BestTimes(ctx, difficulty, 1)
	if err != nil {
		c.log.Warn().Err(err).Msg("failed to load best time")
		return
	}
	if len(best) > 0 {
		c.best = fmt.Sprintf("%.1fs", best[0].Elapsed.Seconds())
	}

	sum, err := c.leaderboard.Summary(ctx, difficulty)
	if err != nil {
		c.log.Warn().Err(err).Msg("failed to load summary")
		return
	}
	if sum.Played > 0 {
		c.record = fmt.Sprintf("%d/%d", sum.Won, sum.Played)
	}
}
