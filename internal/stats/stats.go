// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/runboard/internal/model"
)

const sparkChars = " .:-=+*#%@"

// Summarize computes total, average, min and max miles for rows.
// An empty sequence yields all zeros.
func Summarize(rows model.Dataset) model.Statistics {
	if len(rows) == 0 {
		return model.Statistics{}
	}
	total := 0.0
	minVal := rows[0].Miles
	maxVal := rows[0].Miles
	for _, row := range rows {
		total += row.Miles
		if row.Miles < minVal {
			minVal = row.Miles
		}
		if row.Miles > maxVal {
			maxVal = row.Miles
		}
	}
	return model.Statistics{
		Total:   total,
		Average: total / float64(len(rows)),
		Min:     minVal,
		Max:     maxVal,
	}
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 || len(values) == 0 {
		copy(out, values)
		return out
	}
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		den := float64(i + 1)
		if i >= window {
			sum -= values[i-window]
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := seriesMinMaxSingle(values)
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		b.WriteByte(sparkChars[max(0, min(idx, len(sparkChars)-1))])
	}
	return b.String()
}

// RenderSummary prints the four summary statistics to two decimal places.
func RenderSummary(w io.Writer, s model.Statistics) error {
	lines := []string{
		"Summary",
		fmt.Sprintf("Total Miles: %.2f", s.Total),
		fmt.Sprintf("Average: %.2f", s.Average),
		fmt.Sprintf("Minimum: %.2f", s.Min),
		fmt.Sprintf("Maximum: %.2f", s.Max),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderTimelineWithSize prints the miles-over-time plot sized to a given total
// width. A window above one adds a moving-average overlay.
func RenderTimelineWithSize(w io.Writer, timeline model.GroupedSeries, window, totalWidth, height int, useColor bool) error {
	if len(timeline) == 0 {
		_, err := fmt.Fprintln(w, "No runs for this selection.")
		return err
	}
	values := timeline.Values()
	series := []Series{{Name: "Miles", Values: values}}
	if window > 1 && len(values) > 1 {
		series = append(series, Series{
			Name:   fmt.Sprintf("Avg (%d)", window),
			Values: MovingAverage(values, window),
		})
	}
	keys := timeline.Keys()
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	return Plot{
		Title:   "Miles Over Time",
		Series:  series,
		XLabels: []string{keys[0], keys[len(keys)-1]},
		Width:   width,
		Height:  height,
		Color:   useColor,
	}.Render(w)
}

// RenderPersonTable prints per-runner totals with their share of all miles.
func RenderPersonTable(w io.Writer, persons model.GroupedSeries) error {
	if len(persons) == 0 {
		_, err := fmt.Fprintln(w, "No runners found.")
		return err
	}
	total := 0.0
	for _, p := range persons {
		total += p.Miles
	}
	headers := []string{"Runner", "Miles", "Share"}
	rows := make([][]string, 0, len(persons))
	for _, p := range persons {
		share := 0.0
		if total > 0 {
			share = p.Miles / total * 100
		}
		rows = append(rows, []string{p.Key, fmt.Sprintf("%.2f", p.Miles), fmt.Sprintf("%.1f%%", share)})
	}
	if _, err := fmt.Fprintln(w, "Total Miles by Runner"); err != nil {
		return err
	}
	for _, line := range formatTable(headers, rows, map[int]bool{1: true, 2: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}
