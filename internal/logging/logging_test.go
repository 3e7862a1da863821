package logging

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/verte-zerg/runboard/internal/parser"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New(&bytes.Buffer{}, "loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestLevelFiltersMessages(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "warn")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	logger.Info("hidden")
	logger.Warn("shown")
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Fatalf("unexpected output: %q", out)
	}
	if !strings.Contains(out, prefix) {
		t.Fatalf("expected prefix in output: %q", out)
	}
}

func TestLoadResult(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "debug")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	_, parseErr := parser.Parse("date,person\n2024-01-01,Alice\n")
	LoadResult(logger, "runs.csv", 0, parseErr)
	LoadResult(logger, "runs.txt", 0, fmt.Errorf("runs.txt: %w", parser.ErrNotCSV))
	LoadResult(logger, "gone.csv", 0, errors.New("disk"))
	LoadResult(logger, "ok.csv", 4, nil)

	out := buf.String()
	for _, want := range []string{"parse failed", "kind=schema", "file rejected", "load failed", "loaded file", "rows=4"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestLoadResultNilLogger(t *testing.T) {
	LoadResult(nil, "runs.csv", 1, nil)
}

func TestOpenFileAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "runboard.log")
	for i := 0; i < 2; i++ {
		logger, closeFn, err := OpenFile(path, "info")
		if err != nil {
			t.Fatalf("OpenFile failed: %v", err)
		}
		logger.Info("started", "run", i)
		if err := closeFn(); err != nil {
			t.Fatalf("close failed: %v", err)
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if got := strings.Count(string(data), "started"); got != 2 {
		t.Fatalf("expected 2 entries, got %d:\n%s", got, data)
	}
}
