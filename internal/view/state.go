// Package view assembles derived views from the current dataset and selection.
package view

import (
	"context"

	"github.com/verte-zerg/runboard/internal/model"
	"github.com/verte-zerg/runboard/internal/parser"
	"github.com/verte-zerg/runboard/internal/selection"
)

// State is the application state the views are derived from.
// Dataset and Err are never both set.
type State struct {
	Dataset   model.Dataset
	Selection model.Selection
	Source    string
	Err       error
	MaxBytes  int64
}

// NewState returns an empty state selecting all runners.
func NewState(maxBytes int64) *State {
	return &State{Selection: model.AllRunners, MaxBytes: maxBytes}
}

// HasData reports whether a dataset is loaded.
func (s *State) HasData() bool {
	return len(s.Dataset) > 0
}

// Load reads and parses the file at path, replacing the current dataset.
func (s *State) Load(ctx context.Context, path string) error {
	ds, err := parser.LoadAndParse(ctx, path, s.MaxBytes)
	s.set(ds, path, err)
	return err
}

// Apply parses text already in memory, replacing the current dataset.
func (s *State) Apply(text, source string) error {
	ds, err := parser.Parse(text)
	s.set(ds, source, err)
	return err
}

// Accept installs a dataset or error produced elsewhere, such as an
// asynchronous load.
func (s *State) Accept(ds model.Dataset, source string, err error) {
	s.set(ds, source, err)
}

func (s *State) set(ds model.Dataset, source string, err error) {
	s.Source = source
	if err != nil {
		s.Dataset = nil
		s.Err = err
		s.Selection = model.AllRunners
		return
	}
	s.Dataset = ds
	s.Err = nil
	if !selection.Contains(ds, s.Selection) {
		s.Selection = model.AllRunners
	}
}

// Select changes the active selection. Unknown runners reset to all.
func (s *State) Select(sel model.Selection) {
	sel = sel.Normalize()
	if !selection.Contains(s.Dataset, sel) {
		sel = model.AllRunners
	}
	s.Selection = sel
}

// Cycle moves the selection through all runners and each person.
func (s *State) Cycle(delta int) {
	s.Selection = selection.Cycle(s.Dataset, s.Selection, delta)
}
