package models

import (
	"fmt"
	"strings"
)

// Coordinate addresses a square. Both axes are 0-indexed.
type Coordinate struct {
	X int
	Y int
}

// Matches reports whether c addresses (x, y).
func (c Coordinate) Matches(x, y int) bool {
	return c.X == x && c.Y == y
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%d, %d)", c.X, c.Y)
}

// PlayMode selects what Board.Play does at a coordinate.
type PlayMode int

const (
	Reveal PlayMode = iota
	Flag
	Chord
	// RevealChord reveals an unrevealed square and chords a revealed one.
	RevealChord
)

func (m PlayMode) String() string {
	switch m {
	case Reveal:
		return "reveal"
	case Flag:
		return "flag"
	case Chord:
		return "chord"
	case RevealChord:
		return "reveal-chord"
	default:
		return fmt.Sprintf("PlayMode(%d)", int(m))
	}
}

// ResultKind tags a PlayResult.
type ResultKind int

const (
	NoChange ResultKind = iota
	Flagged
	Explosion
	Revealed
	CascadedReveal
)

func (k ResultKind) String() string {
	switch k {
	case NoChange:
		return "NoChange"
	case Flagged:
		return "Flagged"
	case Explosion:
		return "Explosion"
	case Revealed:
		return "Revealed"
	case CascadedReveal:
		return "CascadedReveal"
	default:
		return fmt.Sprintf("ResultKind(%d)", int(k))
	}
}

// PlayResult describes what a single play changed. Only the payload
// matching Kind is set:
//   - Flagged: FlagState holds the new flag state.
//   - Explosion, Revealed: At holds the square.
//   - CascadedReveal: Results holds one entry per neighbor, in neighbor order.
type PlayResult struct {
	Kind      ResultKind
	FlagState bool
	At        Coordinate
	Results   []PlayResult
}

func noChange() PlayResult { return PlayResult{Kind: NoChange} }

func flagged(state bool) PlayResult { return PlayResult{Kind: Flagged, FlagState: state} }

func explosion(x, y int) PlayResult {
	return PlayResult{Kind: Explosion, At: Coordinate{X: x, Y: y}}
}

func revealed(x, y int) PlayResult {
	return PlayResult{Kind: Revealed, At: Coordinate{X: x, Y: y}}
}

func cascaded(results []PlayResult) PlayResult {
	return PlayResult{Kind: CascadedReveal, Results: results}
}

// FirstExplosion returns the first detonated square found in the result tree,
// searching depth first in neighbor order.
func (r PlayResult) FirstExplosion() (Coordinate, bool) {
	switch r.Kind {
	case Explosion:
		return r.At, true
	case CascadedReveal:
		for _, sub := range r.Results {
			if c, ok := sub.FirstExplosion(); ok {
				return c, true
			}
		}
	}
	return Coordinate{}, false
}

// Revealed lists every square reported as revealed or exploded in the tree.
// Origins of cascades are not reported, since the tree does not carry them.
func (r PlayResult) Revealed() []Coordinate {
	var out []Coordinate
	r.walk(func(p PlayResult) {
		if p.Kind == Revealed || p.Kind == Explosion {
			out = append(out, p.At)
		}
	})
	return out
}

func (r PlayResult) walk(fn func(PlayResult)) {
	fn(r)
	for _, sub := range r.Results {
		sub.walk(fn)
	}
}

func (r PlayResult) String() string {
	switch r.Kind {
	case Flagged:
		return fmt.Sprintf("Flagged(%t)", r.FlagState)
	case Explosion, Revealed:
		return fmt.Sprintf("%s%s", r.Kind, r.At)
	case CascadedReveal:
		parts := make([]string, len(r.Results))
		for i, sub := range r.Results {
			parts[i] = sub.String()
		}
		return "CascadedReveal[" + strings.Join(parts, " ") + "]"
	default:
		return r.Kind.String()
	}
}
