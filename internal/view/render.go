package view

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/runboard/internal/model"
	"github.com/verte-zerg/runboard/internal/stats"
)

// Format selects how a View is written by Encode.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (use text, json or yaml)", s)
	}
}

// RenderOptions controls the text report.
type RenderOptions struct {
	Smooth int
	Width  int
	Height int
	Color  bool
}

type datePoint struct {
	Date  string  `json:"date" yaml:"date"`
	Miles float64 `json:"miles" yaml:"miles"`
}

type personPoint struct {
	Person string  `json:"person" yaml:"person"`
	Miles  float64 `json:"miles" yaml:"miles"`
}

type encodedView struct {
	Source      string           `json:"source,omitempty" yaml:"source,omitempty"`
	Selection   string           `json:"selection" yaml:"selection"`
	Stats       model.Statistics `json:"stats" yaml:"stats"`
	Timeline    []datePoint      `json:"timeline" yaml:"timeline"`
	Persons     []personPoint    `json:"persons" yaml:"persons"`
	PersonList  []string         `json:"personList" yaml:"personList"`
	ShowPersons bool             `json:"showPersons" yaml:"showPersons"`
	Rows        int              `json:"rows" yaml:"rows"`
}

func encode(v View) encodedView {
	out := encodedView{
		Source:      v.Source,
		Selection:   string(v.Selection),
		Stats:       v.Stats,
		Timeline:    make([]datePoint, 0, len(v.Timeline)),
		Persons:     make([]personPoint, 0, len(v.Persons)),
		PersonList:  append([]string{}, v.PersonList...),
		ShowPersons: v.ShowPersons,
		Rows:        v.Rows,
	}
	for _, p := range v.Timeline {
		out.Timeline = append(out.Timeline, datePoint{Date: p.Key, Miles: p.Miles})
	}
	for _, p := range v.Persons {
		out.Persons = append(out.Persons, personPoint{Person: p.Key, Miles: p.Miles})
	}
	return out
}

// Encode writes v in the given format.
func Encode(w io.Writer, v View, format Format, opts RenderOptions) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(encode(v))
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(encode(v)); err != nil {
			return err
		}
		return enc.Close()
	case FormatText, "":
		return Render(w, v, opts)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// Render writes the text report: summary, timeline and, for all runners, the
// per-runner breakdown.
func Render(w io.Writer, v View, opts RenderOptions) error {
	if v.Source != "" {
		if _, err := fmt.Fprintf(w, "Source: %s\n", v.Source); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "Runner: %s (%d runs)\n\n", selectionLabel(v.Selection), v.Rows); err != nil {
		return err
	}
	if err := stats.RenderSummary(w, v.Stats); err != nil {
		return err
	}
	if err := stats.RenderTimelineWithSize(w, v.Timeline, opts.Smooth, opts.Width, opts.Height, opts.Color); err != nil {
		return err
	}
	if !v.ShowPersons {
		return nil
	}
	if err := stats.RenderPersonTable(w, v.Persons); err != nil {
		return err
	}
	return stats.RenderPersonBars(w, v.Persons, opts.Width)
}

func selectionLabel(sel model.Selection) string {
	if sel.IsAll() {
		return "All Runners"
	}
	return string(sel)
}
