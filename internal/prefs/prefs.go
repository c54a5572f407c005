// Package prefs persists the small set of user preferences that survive
// restarts, in a YAML file next to the data.
package prefs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"gopkg.in/yaml.v3"

	"github.com/dori/naehbuch/internal/model"
)

// Prefs is the stored preference document
type Prefs struct {
	ViewMode model.ViewMode `yaml:"view_mode"`
}

// Default returns the preferences used when nothing is stored
func Default() Prefs {
	return Prefs{ViewMode: model.ViewCards}
}

// File reads and writes preferences at a fixed path
type File struct {
	path string
	lock *flock.Flock
}

// NewFile returns a preference file at path
func NewFile(path string) *File {
	return &File{
		path: path,
		lock: flock.New(path + ".lock"),
	}
}

// Load returns the stored preferences. A missing file or an unknown view
// mode yields the defaults.
func (f *File) Load() (Prefs, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Default(), fmt.Errorf("failed to read preferences: %w", err)
	}

	var p Prefs
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Default(), fmt.Errorf("failed to parse preferences: %w", err)
	}
	if _, err := model.ParseViewMode(string(p.ViewMode)); err != nil {
		p.ViewMode = model.ViewCards
	}
	return p, nil
}

// Save writes p, replacing the file
func (f *File) Save(p Prefs) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := f.lock.Lock(); err != nil {
		return fmt.Errorf("failed to lock preferences: %w", err)
	}
	defer f.lock.Unlock()

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace preferences: %w", err)
	}
	return nil
}

// SaveViewMode updates only the view mode
func (f *File) SaveViewMode(mode model.ViewMode) error {
	p, err := f.Load()
	if err != nil {
		p = Default()
	}
	p.ViewMode = mode
	return f.Save(p)
}
