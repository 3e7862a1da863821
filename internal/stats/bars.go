package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/runboard/internal/model"
)

const (
	maxBarLabelWidth = 16
	minBarWidth      = 10
)

var barEighths = []rune{' ', '▏', '▎', '▍', '▌', '▋', '▊', '▉'}

// RenderPersonBars prints a horizontal bar chart of per-runner totals.
// totalWidth <= 0 uses the terminal width.
func RenderPersonBars(w io.Writer, persons model.GroupedSeries, totalWidth int) error {
	if len(persons) == 0 {
		return nil
	}
	if totalWidth <= 0 {
		totalWidth = terminalWidth()
	}
	labelWidth := 0
	valueWidth := 0
	maxVal := 0.0
	for _, p := range persons {
		labelWidth = max(labelWidth, min(displayWidth(p.Key), maxBarLabelWidth))
		valueWidth = max(valueWidth, len(fmt.Sprintf("%.2f", p.Miles)))
		maxVal = math.Max(maxVal, p.Miles)
	}
	barWidth := max(minBarWidth, totalWidth-labelWidth-valueWidth-4)

	if _, err := fmt.Fprintln(w, "Share of Miles"); err != nil {
		return err
	}
	for _, p := range persons {
		label := runewidth.FillRight(runewidth.Truncate(p.Key, labelWidth, "…"), labelWidth)
		bar := runewidth.FillRight(renderBar(p.Miles, maxVal, barWidth), barWidth)
		if _, err := fmt.Fprintf(w, "%s │%s %*.2f\n", label, bar, valueWidth, p.Miles); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// renderBar returns a bar of at most width cells using eighth-block precision.
func renderBar(value, maxVal float64, width int) string {
	if maxVal <= 0 || value <= 0 || width <= 0 {
		return ""
	}
	eighths := int(math.Round(value / maxVal * float64(width*8)))
	full := eighths / 8
	var b strings.Builder
	b.WriteString(strings.Repeat("█", full))
	if rem := eighths % 8; rem > 0 {
		b.WriteRune(barEighths[rem])
	}
	return b.String()
}
