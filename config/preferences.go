package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Preferences survive between runs.
type Preferences struct {
	Difficulty     string `yaml:"difficulty"`
	LeftClickChord bool   `yaml:"left_click_chord"`
	DarkMode       bool   `yaml:"dark_mode"`
}

// DefaultPreferences are used when no settings file exists yet.
func DefaultPreferences() Preferences {
	return Preferences{
		Difficulty: "intermediate",
		DarkMode:   true,
	}
}

// LoadPreferences reads the YAML file at path. A missing file yields the
// defaults and no error; keys absent from the file keep their defaults.
func LoadPreferences(path string) (Preferences, error) {
	p := DefaultPreferences()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return p, nil
	}
	if err != nil {
		return p, fmt.Errorf("read preferences: %w", err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return DefaultPreferences(), fmt.Errorf("parse preferences %s: %w", path, err)
	}
	return p, nil
}

// SavePreferences writes p to path, creating the parent directory.
func SavePreferences(path string, p Preferences) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write preferences: %w", err)
	}
	return nil
}
