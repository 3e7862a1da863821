// Package model defines shared data structures.
package model

import "time"

// AllRunners is the selection sentinel meaning no person filter.
const AllRunners Selection = "all"

// Row is one validated (date, person, miles) record.
type Row struct {
	Date   string
	Person string
	Miles  float64
}

// Dataset is the ordered row sequence produced by one parse.
type Dataset []Row

// Selection is either AllRunners or a person identifier.
type Selection string

// Normalize maps an empty selection to AllRunners.
func (s Selection) Normalize() Selection {
	if s == "" {
		return AllRunners
	}
	return s
}

// IsAll reports whether the selection applies no person filter.
func (s Selection) IsAll() bool {
	return s.Normalize() == AllRunners
}

// Statistics summarizes the miles of a row sequence.
type Statistics struct {
	Total   float64 `json:"total" yaml:"total"`
	Average float64 `json:"average" yaml:"average"`
	Min     float64 `json:"min" yaml:"min"`
	Max     float64 `json:"max" yaml:"max"`
}

// Point is one key with its summed miles.
type Point struct {
	Key   string
	Miles float64
}

// GroupedSeries holds summed points in first-occurrence key order.
type GroupedSeries []Point

// Keys returns the series keys in order.
func (g GroupedSeries) Keys() []string {
	keys := make([]string, len(g))
	for i, p := range g {
		keys[i] = p.Key
	}
	return keys
}

// Values returns the series values in order.
func (g GroupedSeries) Values() []float64 {
	values := make([]float64, len(g))
	for i, p := range g {
		values[i] = p.Miles
	}
	return values
}

// DashboardConfig defines dashboard and report settings.
type DashboardConfig struct {
	Runner     Selection
	Smooth     int
	PlotHeight int
	Color      bool
	History    bool
	MaxBytes   int64
}

// LoadRecord captures one load attempt for the history list.
type LoadRecord struct {
	ID         int64
	Path       string
	LoadedAt   time.Time
	Rows       int
	Runners    int
	TotalMiles float64
	Error      string
}

// OK reports whether the load succeeded.
func (r LoadRecord) OK() bool {
	return r.Error == ""
}
