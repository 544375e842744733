package models

import "fmt"

// Outcome summarizes the board for the caller deciding whether a game ended.
type Outcome int

const (
	InProgress Outcome = iota
	Won
	Lost
)

func (o Outcome) String() string {
	switch o {
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return "in progress"
	}
}

// Play routes a player action at (x, y).
func (b *Board) Play(x, y int, mode PlayMode) (PlayResult, error) {
	switch mode {
	case Reveal:
		return b.Reveal(x, y)
	case Flag:
		return b.Flag(x, y)
	case Chord:
		return b.Chord(x, y)
	case RevealChord:
		sq, err := b.Square(x, y)
		if err != nil {
			return PlayResult{}, err
		}
		if sq.IsRevealed {
			return b.Chord(x, y)
		}
		return b.Reveal(x, y)
	default:
		return PlayResult{}, fmt.Errorf("%w: %s", ErrUnknownPlayMode, mode)
	}
}

// Reveal opens the square at (x, y). A blank square cascades into its
// neighborhood; a flagged or already revealed square is left alone.
func (b *Board) Reveal(x, y int) (PlayResult, error) {
	if !b.inBounds(x, y) {
		return PlayResult{}, fmt.Errorf("%w: (%d, %d)", ErrInvalidCoordinates, x, y)
	}
	res, opens := b.revealStep(x, y)
	if opens {
		return b.revealNeighbors(x, y), nil
	}
	return res, nil
}

// CascadeFrom reveals the blank square at (x, y) and then every neighbor,
// continuing through any neighbor that is blank too.
func (b *Board) CascadeFrom(x, y int) (PlayResult, error) {
	if !b.inBounds(x, y) {
		return PlayResult{}, fmt.Errorf("%w: (%d, %d)", ErrInvalidCoordinates, x, y)
	}
	sq := &b.squares[b.index(x, y)]
	if sq.IsMine || sq.IsFlagged || sq.Numeral > 0 {
		return PlayResult{}, fmt.Errorf("%w: (%d, %d)", ErrInvalidCascade, x, y)
	}
	sq.IsRevealed = true
	return b.revealNeighbors(x, y), nil
}

// CanChordSquare reports whether (x, y) is blank or has exactly as many
// flagged neighbors as its numeral. More flags than the numeral is ambiguous
// and not chordable. It says nothing about whether the flags are correct.
func (b *Board) CanChordSquare(x, y int) (bool, error) {
	if !b.inBounds(x, y) {
		return false, fmt.Errorf("%w: (%d, %d)", ErrInvalidCoordinates, x, y)
	}
	sq := b.squares[b.index(x, y)]
	return sq.Numeral == 0 || sq.Numeral == b.flaggedNeighborCount(x, y), nil
}

// Chord reveals every neighbor of a revealed, chordable square at (x, y).
// Hidden squares do not chord. A wrongly placed flag makes this explode.
func (b *Board) Chord(x, y int) (PlayResult, error) {
	ok, err := b.CanChordSquare(x, y)
	if err != nil {
		return PlayResult{}, err
	}
	if !ok || !b.squares[b.index(x, y)].IsRevealed {
		return noChange(), nil
	}
	return b.revealNeighbors(x, y), nil
}

// Flag toggles the flag on an unrevealed square.
func (b *Board) Flag(x, y int) (PlayResult, error) {
	if !b.inBounds(x, y) {
		return PlayResult{}, fmt.Errorf("%w: (%d, %d)", ErrInvalidCoordinates, x, y)
	}
	sq := &b.squares[b.index(x, y)]
	if sq.IsRevealed {
		return noChange(), nil
	}
	sq.IsFlagged = !sq.IsFlagged
	return flagged(sq.IsFlagged), nil
}

// IsLossConfiguration reports whether any mine has been revealed.
func (b *Board) IsLossConfiguration() bool {
	for _, sq := range b.squares {
		if sq.IsMine && sq.IsRevealed {
			return true
		}
	}
	return false
}

// IsWinConfiguration reports whether every non-mine square is revealed.
// Mines do not need to be flagged.
func (b *Board) IsWinConfiguration() bool {
	for _, sq := range b.squares {
		if !sq.IsMine && !sq.IsRevealed {
			return false
		}
	}
	return true
}

// Outcome combines both configuration checks. Loss wins a tie.
func (b *Board) Outcome() Outcome {
	if b.IsLossConfiguration() {
		return Lost
	}
	if b.IsWinConfiguration() {
		return Won
	}
	return InProgress
}

// revealStep applies a single reveal to (x, y) without touching neighbors.
// Off-grid squares report NoChange. opens is true when the square was blank
// and its neighbors still have to be revealed; the result is meaningless then.
func (b *Board) revealStep(x, y int) (res PlayResult, opens bool) {
	if !b.inBounds(x, y) {
		return noChange(), false
	}
	sq := &b.squares[b.index(x, y)]
	switch {
	case sq.IsFlagged || sq.IsRevealed:
		return noChange(), false
	case sq.IsMine:
		sq.IsRevealed = true
		return explosion(x, y), false
	case sq.Numeral == 0:
		sq.IsRevealed = true
		return PlayResult{}, true
	default:
		sq.IsRevealed = true
		return revealed(x, y), false
	}
}

type cascadeFrame struct {
	x, y    int
	next    int // index into neighborOffsets
	results []PlayResult
}

// revealNeighbors reveals the 8 neighbors of (x, y) and returns them as a
// CascadedReveal. A blank neighbor pushes a frame of its own, so the flood
// fill runs on an explicit stack and produces the same nested tree, in the
// same order, as a depth-first recursive reveal would. The origin is not
// revisited: every square goes unrevealed to revealed at most once.
func (b *Board) revealNeighbors(x, y int) PlayResult {
	stack := []*cascadeFrame{newCascadeFrame(x, y)}
	for {
		top := stack[len(stack)-1]
		if top.next == len(neighborOffsets) {
			stack = stack[:len(stack)-1]
			done := cascaded(top.results)
			if len(stack) == 0 {
				return done
			}
			parent := stack[len(stack)-1]
			parent.results = append(parent.results, done)
			continue
		}

		off := neighborOffsets[top.next]
		top.next++
		nx, ny := top.x+off[0], top.y+off[1]
		res, opens := b.revealStep(nx, ny)
		if opens {
			stack = append(stack, newCascadeFrame(nx, ny))
			continue
		}
		top.results = append(top.results, res)
	}
}

func newCascadeFrame(x, y int) *cascadeFrame {
	return &cascadeFrame{x: x, y: y, results: make([]PlayResult, 0, len(neighborOffsets))}
}
