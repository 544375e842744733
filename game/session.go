package game

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/dimaq12/mines/models"
	"github.com/dimaq12/mines/store"
)

// State is where a session is in its lifecycle.
type State int

const (
	NotStarted State = iota
	Playing
	Paused
	EndedWin
	EndedLoss
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not started"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case EndedWin:
		return "won"
	case EndedLoss:
		return "lost"
	default:
		return "unknown"
	}
}

// Ended reports whether the game is over.
func (s State) Ended() bool {
	return s == EndedWin || s == EndedLoss
}

// Recorder receives every finished game. *store.Results satisfies it.
type Recorder interface {
	Record(ctx context.Context, res store.Result) error
}

const recordTimeout = 2 * time.Second

// Session is a single game in progress. It owns the board and is not safe
// for concurrent use; the controller calls it from the UI event loop only.
type Session struct {
	board      *models.Board
	difficulty Difficulty
	state      State
	rng        models.Rand
	recorder   Recorder
	log        zerolog.Logger
	now        func() time.Time

	started   time.Time
	elapsed   time.Duration
	detonated *models.Coordinate
}

// NewSession prepares an unpopulated board for difficulty. recorder may be nil.
func NewSession(difficulty Difficulty, rng models.Rand, recorder Recorder, logger zerolog.Logger) *Session {
	s := &Session{
		difficulty: difficulty,
		rng:        rng,
		recorder:   recorder,
		log:        logger,
		now:        time.Now,
	}
	s.SetDifficulty(difficulty)
	return s
}

func (s *Session) Board() *models.Board   { return s.board }
func (s *Session) Difficulty() Difficulty { return s.difficulty }
func (s *Session) State() State           { return s.state }

// Detonated is the square that lost the game, if any.
func (s *Session) Detonated() (models.Coordinate, bool) {
	if s.detonated == nil {
		return models.Coordinate{}, false
	}
	return *s.detonated, true
}

// Elapsed is the play time so far, excluding time spent paused.
func (s *Session) Elapsed() time.Duration {
	if s.state == Playing {
		return s.elapsed + s.now().Sub(s.started)
	}
	return s.elapsed
}

// MinesRemaining is the mine count minus the flags placed. It goes negative
// when the player over-flags.
func (s *Session) MinesRemaining() int {
	mines := s.difficulty.Settings().Mines
	if s.board.IsPopulated() {
		mines = s.board.NumMines()
	}
	return mines - s.board.NumFlags()
}

// Play applies one player action. The first non-flag action of a fresh game
// places the mines around the chosen square and starts the clock. Plays on
// a paused or finished game change nothing.
func (s *Session) Play(x, y int, mode models.PlayMode) (models.PlayResult, error) {
	switch s.state {
	case Paused, EndedWin, EndedLoss:
		return models.PlayResult{Kind: models.NoChange}, nil
	case NotStarted:
		if mode != models.Flag {
			if err := s.start(x, y); err != nil {
				return models.PlayResult{}, err
			}
		}
	}

	res, err := s.board.Play(x, y, mode)
	if err != nil {
		return models.PlayResult{}, err
	}
	s.log.Debug().
		Int("x", x).Int("y", y).
		Stringer("mode", mode).
		Stringer("kind", res.Kind).
		Msg("play")
	s.settle(res)
	return res, nil
}

func (s *Session) start(x, y int) error {
	if !s.board.IsPopulated() {
		keep := models.Coordinate{X: x, Y: y}
		if err := s.board.PopulateMinesAround(s.rng, s.difficulty.Settings().Mines, &keep); err != nil {
			return err
		}
	}
	s.state = Playing
	s.started = s.now()
	s.elapsed = 0
	s.log.Info().
		Stringer("difficulty", s.difficulty).
		Int("x", x).Int("y", y).
		Msg("game started")
	return nil
}

// settle moves the session to an end state when the last play decided the game.
func (s *Session) settle(res models.PlayResult) {
	if s.state != Playing {
		return
	}
	switch s.board.Outcome() {
	case models.Lost:
		if c, ok := res.FirstExplosion(); ok {
			s.detonated = &c
		}
		s.finish(EndedLoss)
	case models.Won:
		s.board.FlagAllMines()
		s.finish(EndedWin)
	}
}

func (s *Session) finish(state State) {
	s.elapsed += s.now().Sub(s.started)
	s.state = state
	s.log.Info().
		Stringer("difficulty", s.difficulty).
		Stringer("state", state).
		Dur("elapsed", s.elapsed).
		Msg("game finished")
	s.record()
}

func (s *Session) record() {
	if s.recorder == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	settings := s.difficulty.Settings()
	err := s.recorder.Record(ctx, store.Result{
		Difficulty: s.difficulty.String(),
		Width:      settings.Width,
		Height:     settings.Height,
		Mines:      s.board.NumMines(),
		Won:        s.state == EndedWin,
		Elapsed:    s.elapsed,
	})
	if err != nil {
		s.log.Error().Err(err).Msg("failed to record result")
	}
}

// Pause stops the clock. Only a game in progress can be paused.
func (s *Session) Pause() {
	if s.state != Playing {
		return
	}
	s.elapsed += s.now().Sub(s.started)
	s.state = Paused
}

// Resume restarts the clock of a paused game.
func (s *Session) Resume() {
	if s.state != Paused {
		return
	}
	s.started = s.now()
	s.state = Playing
}

// NewGame discards the board; mines are placed again on the next first click.
func (s *Session) NewGame() {
	s.board.Reset()
	s.clear()
}

// Restart replays the current layout from scratch.
func (s *Session) Restart() {
	s.board.ResetExisting()
	s.clear()
}

// SetDifficulty switches to a fresh board of the difficulty's size.
func (s *Session) SetDifficulty(d Difficulty) {
	settings := d.Settings()
	s.difficulty = d
	s.board = models.New(settings.Width, settings.Height)
	s.clear()
}

func (s *Session) clear() {
	s.state = NotStarted
	s.elapsed = 0
	s.started = time.Time{}
	s.detonated = nil
}
