package stats

import (
	"bytes"
	"strings"
	"testing"
)

func TestPlotRender(t *testing.T) {
	var buf bytes.Buffer
	err := Plot{
		Title: "Test Plot",
		Series: []Series{
			{Name: "A", Values: []float64{1, 2, 3, 2, 1}},
			{Name: "B", Values: []float64{1, 1, 2, 3, 4}},
		},
		Width:  5,
		Height: 4,
	}.Render(&buf)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Test Plot") {
		t.Fatalf("expected title in output")
	}
	if !strings.Contains(out, "A: min=1.00 max=3.00") {
		t.Fatalf("expected raw min/max for A in output:\n%s", out)
	}
	if !strings.Contains(out, "    4.0 │ ") || !strings.Contains(out, "    0.0 │ ") {
		t.Fatalf("expected shared axis labels in output:\n%s", out)
	}
	if !strings.Contains(out, "Legend:") {
		t.Fatalf("expected legend in output")
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	expected := 1 + 2 + 4 + 1
	if len(lines) != expected {
		t.Fatalf("expected %d lines of output, got %d", expected, len(lines))
	}
}

func TestPlotSkipsEmptySeries(t *testing.T) {
	var buf bytes.Buffer
	if err := (Plot{Title: "Empty", Series: []Series{{Name: "A"}}, Width: 20, Height: 4}).Render(&buf); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}

func TestPlotRendersXLabels(t *testing.T) {
	var buf bytes.Buffer
	err := Plot{
		Series:  []Series{{Name: "Miles", Values: []float64{2, 3}}},
		XLabels: []string{"2024-01-01", "2024-01-09"},
		Width:   30,
		Height:  3,
	}.Render(&buf)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	want := strings.Repeat(" ", 10) + "2024-01-01" + strings.Repeat(" ", 10) + "2024-01-09"
	if !strings.Contains(buf.String(), want+"\n") {
		t.Fatalf("expected x labels line %q in:\n%s", want, buf.String())
	}
}

func TestPlotWidthFor(t *testing.T) {
	if got := PlotWidthFor(80); got != 70 {
		t.Fatalf("expected width 70, got %d", got)
	}
	if got := PlotWidthFor(0); got != minPlotWidth {
		t.Fatalf("expected min width %d, got %d", minPlotWidth, got)
	}
	if got := PlotWidthFor(12); got != minPlotWidth {
		t.Fatalf("expected min width %d for narrow terminal, got %d", minPlotWidth, got)
	}
}

func TestResampleSeries(t *testing.T) {
	got := resampleSeries([]float64{0, 4}, 5)
	want := []float64{0, 1, 2, 3, 4}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("resample stretch = %v, want %v", got, want)
		}
	}
	got = resampleSeries([]float64{1, 3, 5, 7}, 2)
	if got[0] != 2 || got[1] != 6 {
		t.Fatalf("resample shrink = %v, want [2 6]", got)
	}
}
