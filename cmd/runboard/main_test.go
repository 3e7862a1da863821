package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleCSV = "date,person,miles run\n" +
	"2024-01-01,Alice,3\n" +
	"2024-01-01,Bob,2\n" +
	"2024-01-02,Alice,5\n"

func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	path := filepath.Join(dir, "runs.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestSummaryText(t *testing.T) {
	path := setupEnv(t)
	out, _, err := execute(t, "summary", path, "--width", "60", "--smooth", "1")
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}
	for _, want := range []string{"Total Miles: 10.00", "Average: 3.33", "Miles Over Time", "Total Miles by Runner"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestSummaryJSONForRunner(t *testing.T) {
	path := setupEnv(t)
	out, _, err := execute(t, "summary", path, "--format", "json", "--runner", "Alice")
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}
	var got struct {
		Selection   string `json:"selection"`
		ShowPersons bool   `json:"showPersons"`
		Stats       struct {
			Total float64 `json:"total"`
			Min   float64 `json:"min"`
		} `json:"stats"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid json: %v\n%s", err, out)
	}
	if got.Selection != "Alice" || got.ShowPersons || got.Stats.Total != 8 || got.Stats.Min != 3 {
		t.Fatalf("unexpected summary: %+v", got)
	}
}

func TestSummaryParseErrorVerbatim(t *testing.T) {
	path := setupEnv(t)
	bad := filepath.Join(filepath.Dir(path), "bad.csv")
	if err := os.WriteFile(bad, []byte("date,person,miles run\n2024-01-01,,3\n"), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	_, stderr, err := execute(t, "summary", bad)
	if err == nil || err.Error() != "Row 2: Person name is empty" {
		t.Fatalf("expected verbatim row error, got %v", err)
	}
	if !strings.Contains(stderr, "kind=row") {
		t.Fatalf("expected warn log with kind, got %q", stderr)
	}
}

func TestSummaryRejectsUnknownFormat(t *testing.T) {
	path := setupEnv(t)
	if _, _, err := execute(t, "summary", path, "--format", "xml"); err == nil {
		t.Fatalf("expected format error")
	}
}

func TestRunnersListsSelections(t *testing.T) {
	path := setupEnv(t)
	out, _, err := execute(t, "runners", path)
	if err != nil {
		t.Fatalf("runners failed: %v", err)
	}
	want := "all\t10.00\nAlice\t8.00\nBob\t2.00\n"
	if out != want {
		t.Fatalf("runners output = %q, want %q", out, want)
	}
}

func TestHistoryListsLoads(t *testing.T) {
	path := setupEnv(t)
	if _, _, err := execute(t, "summary", path, "--format", "json"); err != nil {
		t.Fatalf("summary failed: %v", err)
	}
	if _, _, err := execute(t, "runners", filepath.Join(filepath.Dir(path), "missing.txt")); err == nil {
		t.Fatalf("expected error for non-csv file")
	}
	out, _, err := execute(t, "history", "--limit", "5")
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 history lines, got %d:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "err") || !strings.Contains(lines[0], "please provide a CSV file") {
		t.Fatalf("expected newest failed load first: %q", lines[0])
	}
	if !strings.Contains(lines[1], "ok") || !strings.Contains(lines[1], "3 runs") {
		t.Fatalf("expected successful load: %q", lines[1])
	}
}

func TestHistoryDisabledSkipsRecording(t *testing.T) {
	path := setupEnv(t)
	if _, _, err := execute(t, "summary", path, "--history=false"); err != nil {
		t.Fatalf("summary failed: %v", err)
	}
	out, _, err := execute(t, "history")
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if strings.TrimSpace(out) != "No files loaded yet." {
		t.Fatalf("expected empty history, got %q", out)
	}
}

func TestConfigFileAppliesUnlessFlagSet(t *testing.T) {
	path := setupEnv(t)
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(cfgPath, []byte("[dashboard]\nrunner = \"Bob\"\nhistory = false\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	out, _, err := execute(t, "summary", path, "--config", cfgPath, "--format", "json")
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}
	if !strings.Contains(out, `"selection": "Bob"`) {
		t.Fatalf("expected config runner, got:\n%s", out)
	}
	out, _, err = execute(t, "summary", path, "--config", cfgPath, "--format", "json", "--runner", "all")
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}
	if !strings.Contains(out, `"selection": "all"`) {
		t.Fatalf("expected flag to win, got:\n%s", out)
	}
}

func TestSummaryUnknownRunnerFallsBackToAll(t *testing.T) {
	path := setupEnv(t)
	out, stderr, err := execute(t, "summary", path, "--format", "json", "--runner", "Zed")
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}
	if !strings.Contains(stderr, `runner "Zed" not found; showing all runners`) {
		t.Fatalf("expected fallback notice on stderr, got %q", stderr)
	}
	if !strings.Contains(out, `"selection": "all"`) {
		t.Fatalf("expected all runners selected, got:\n%s", out)
	}
}

func TestFlagOverridesValidConfigAndIsChecked(t *testing.T) {
	path := setupEnv(t)
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(cfgPath, []byte("[dashboard]\nsmooth = 5\nplot-height = 6\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, _, err := execute(t, "summary", path, "--config", cfgPath, "--smooth", "0")
	if err == nil || !strings.Contains(err.Error(), "smooth must be >= 1") {
		t.Fatalf("expected smooth validation error, got %v", err)
	}
	if _, _, err := execute(t, "summary", path, "--config", cfgPath, "--plot-height", "4"); err != nil {
		t.Fatalf("summary failed: %v", err)
	}
}

func TestInvalidSmoothRejected(t *testing.T) {
	path := setupEnv(t)
	if _, _, err := execute(t, "summary", path, "--smooth", "0"); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestEnsureConfigFileWritesTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runboard", "config.toml")
	if err := ensureConfigFile(path); err != nil {
		t.Fatalf("ensureConfigFile failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if !strings.Contains(string(data), "[dashboard]") || !strings.Contains(string(data), "[log]") {
		t.Fatalf("unexpected template:\n%s", data)
	}
}
