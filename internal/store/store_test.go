package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/runboard/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "runboard.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Errorf("Close failed: %v", err)
		}
	})
	return st
}

func TestInsertAndListLoads(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	first := model.LoadRecord{Path: "/runs/a.csv", LoadedAt: base, Rows: 3, Runners: 2, TotalMiles: 10}
	second := model.LoadRecord{Path: "/runs/b.csv", LoadedAt: base.Add(time.Minute), Error: "Row 2: Invalid date \"x\""}
	for _, rec := range []model.LoadRecord{first, second} {
		if _, err := st.InsertLoad(ctx, rec); err != nil {
			t.Fatalf("InsertLoad failed: %v", err)
		}
	}

	loads, err := st.ListLoads(ctx, 10)
	if err != nil {
		t.Fatalf("ListLoads failed: %v", err)
	}
	if len(loads) != 2 {
		t.Fatalf("expected 2 loads, got %d", len(loads))
	}
	if loads[0].Path != "/runs/b.csv" || loads[0].OK() {
		t.Fatalf("expected failed b.csv first, got %+v", loads[0])
	}
	got := loads[1]
	if got.Path != first.Path || got.Rows != 3 || got.Runners != 2 || got.TotalMiles != 10 || !got.OK() {
		t.Fatalf("unexpected record: %+v", got)
	}
	if !got.LoadedAt.Equal(base) {
		t.Fatalf("expected loaded_at %v, got %v", base, got.LoadedAt)
	}

	limited, err := st.ListLoads(ctx, 1)
	if err != nil {
		t.Fatalf("ListLoads failed: %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("expected limit to apply, got %d", len(limited))
	}
	none, err := st.ListLoads(ctx, 0)
	if err != nil || len(none) != 0 {
		t.Fatalf("expected nothing for zero limit, got %v, %v", none, err)
	}
}

func TestRecentPathsSkipsFailuresAndDuplicates(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	recs := []model.LoadRecord{
		{Path: "/runs/a.csv", LoadedAt: base},
		{Path: "/runs/b.csv", LoadedAt: base.Add(time.Minute)},
		{Path: "/runs/bad.csv", LoadedAt: base.Add(2 * time.Minute), Error: "No valid data found in CSV"},
		{Path: "/runs/a.csv", LoadedAt: base.Add(3 * time.Minute)},
	}
	for _, rec := range recs {
		if _, err := st.InsertLoad(ctx, rec); err != nil {
			t.Fatalf("InsertLoad failed: %v", err)
		}
	}
	paths, err := st.RecentPaths(ctx, 5)
	if err != nil {
		t.Fatalf("RecentPaths failed: %v", err)
	}
	if len(paths) != 2 || paths[0] != "/runs/a.csv" || paths[1] != "/runs/b.csv" {
		t.Fatalf("unexpected paths: %v", paths)
	}
}

func TestInsertLoadDefaultsTimestamp(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	before := time.Now().Add(-time.Second)
	if _, err := st.InsertLoad(ctx, model.LoadRecord{Path: "/runs/a.csv"}); err != nil {
		t.Fatalf("InsertLoad failed: %v", err)
	}
	loads, err := st.ListLoads(ctx, 1)
	if err != nil || len(loads) != 1 {
		t.Fatalf("ListLoads = %v, %v", loads, err)
	}
	if loads[0].LoadedAt.Before(before) {
		t.Fatalf("expected a current timestamp, got %v", loads[0].LoadedAt)
	}
}
