package parser

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadAndParse(t *testing.T) {
	path := writeFile(t, "runs.CSV", "date,person,miles run\n2024-01-01,Alice,3.5\n2024-01-01,Bob,2\n")
	ds, err := LoadAndParse(context.Background(), path, 0)
	if err != nil {
		t.Fatalf("LoadAndParse failed: %v", err)
	}
	if len(ds) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(ds))
	}
}

func TestLoadAndParseRejectsNonCSV(t *testing.T) {
	path := writeFile(t, "runs.txt", "date,person,miles run\n2024-01-01,Alice,3.5\n")
	_, err := LoadAndParse(context.Background(), path, 0)
	if !errors.Is(err, ErrNotCSV) {
		t.Fatalf("expected ErrNotCSV, got %v", err)
	}
}

func TestLoadAndParseEnforcesSizeLimit(t *testing.T) {
	path := writeFile(t, "runs.csv", "date,person,miles run\n2024-01-01,Alice,3.5\n")
	_, err := LoadAndParse(context.Background(), path, 10)
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
}

func TestLoadAndParseHonoursCancelledContext(t *testing.T) {
	path := writeFile(t, "runs.csv", "date,person,miles run\n2024-01-01,Alice,3.5\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := LoadAndParse(ctx, path, 0)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestLoadAndParseMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.csv")
	_, err := LoadAndParse(context.Background(), path, 0)
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected os.ErrNotExist, got %v", err)
	}
}

func TestLoadAndParsePropagatesParseErrors(t *testing.T) {
	path := writeFile(t, "runs.csv", "date,person\n2024-01-01,Alice\n")
	_, err := LoadAndParse(context.Background(), path, 0)
	if !IsKind(err, KindSchema) {
		t.Fatalf("expected schema error, got %v", err)
	}
}
