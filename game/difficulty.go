package game

import (
	"fmt"
	"strings"
)

// Difficulty selects one of the preset board sizes.
type Difficulty int

const (
	Beginner Difficulty = iota
	Intermediate
	Expert
)

// Settings are the board dimensions and mine count of a difficulty.
type Settings struct {
	Width  int
	Height int
	Mines  int
}

var presets = map[Difficulty]Settings{
	Beginner:     {Width: 9, Height: 9, Mines: 10},
	Intermediate: {Width: 16, Height: 16, Mines: 40},
	Expert:       {Width: 30, Height: 16, Mines: 99},
}

func (d Difficulty) Settings() Settings {
	if s, ok := presets[d]; ok {
		return s
	}
	return presets[Intermediate]
}

func (d Difficulty) String() string {
	switch d {
	case Beginner:
		return "beginner"
	case Intermediate:
		return "intermediate"
	case Expert:
		return "expert"
	default:
		return fmt.Sprintf("Difficulty(%d)", int(d))
	}
}

// ParseDifficulty accepts the names produced by String, case-insensitively.
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "beginner":
		return Beginner, nil
	case "intermediate":
		return Intermediate, nil
	case "expert":
		return Expert, nil
	default:
		return Intermediate, fmt.Errorf("unknown difficulty %q", s)
	}
}
