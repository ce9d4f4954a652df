package cli

import (
	"bytes"
	"encoding/json"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/headline-goat/goatchart/tests/testutil"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append(args, "--log-level", "error"))
	err := cmd.Execute()
	return out.String(), err
}

func TestSeries(t *testing.T) {
	path := testutil.WriteJSONDataset(t, testutil.SampleDataset(14))

	output, err := runCLI(t, "series", "--data", path)
	if err != nil {
		t.Fatalf("series failed: %v", err)
	}

	expectations := []string{
		"VIEW: all (day, 14 of 14 points, 2024-01-01 to 2024-01-14)",
		"DATE",
		"Control",
		"Treatment",
		"10.00%",
		"20.00%",
		"BEST",
	}
	for _, expected := range expectations {
		if !strings.Contains(output, expected) {
			t.Errorf("series output missing %q\n\nGot:\n%s", expected, output)
		}
	}
}

func TestSeries_BestColumn(t *testing.T) {
	path := testutil.WriteJSONDataset(t, testutil.SampleDataset(3))

	output, err := runCLI(t, "series", "--data", path)
	if err != nil {
		t.Fatalf("series failed: %v", err)
	}

	rows := 0
	for _, line := range strings.Split(output, "\n") {
		if !strings.HasPrefix(line, "2024-01-") {
			continue
		}
		rows++
		if !strings.HasSuffix(strings.TrimSpace(line), "Treatment") {
			t.Errorf("row %q: want Treatment as best", line)
		}
	}
	if rows != 3 {
		t.Errorf("got %d rows, want 3\n%s", rows, output)
	}
}

func TestSeries_ViewActions(t *testing.T) {
	path := testutil.WriteJSONDataset(t, testutil.SampleDataset(100))

	output, err := runCLI(t, "series", "--data", path, "--view", "zoom-in,pan-left")
	if err != nil {
		t.Fatalf("series failed: %v", err)
	}
	// [15, 84] panned left by 13
	if !strings.Contains(output, "VIEW: [2, 71] (day, 70 of 100 points, 2024-01-03 to 2024-03-12)") {
		t.Errorf("unexpected view line:\n%s", output)
	}
}

func TestSeries_UnknownViewAction(t *testing.T) {
	path := testutil.WriteJSONDataset(t, testutil.SampleDataset(3))

	if _, err := runCLI(t, "series", "--data", path, "--view", "spin"); err == nil {
		t.Error("expected error for unknown view action")
	}
}

func TestSeries_FromSQLite(t *testing.T) {
	path := testutil.WriteSQLiteDataset(t, testutil.SampleDataset(7))

	output, err := runCLI(t, "series", "--data", path)
	if err != nil {
		t.Fatalf("series failed: %v", err)
	}
	if !strings.Contains(output, "7 of 7 points") {
		t.Errorf("expected 7 points from SQLite, got:\n%s", output)
	}
}

func TestSeries_MissingSource(t *testing.T) {
	if _, err := runCLI(t, "series", "--data", filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing dataset")
	}
}

func TestExport_WeeklyJSON(t *testing.T) {
	path := testutil.WriteJSONDataset(t, testutil.SampleDataset(14))

	output, err := runCLI(t, "export", "--data", path, "--format", "json", "-g", "week")
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var points []map[string]any
	if err := json.Unmarshal([]byte(output), &points); err != nil {
		t.Fatalf("failed to decode export: %v\n%s", err, output)
	}
	if len(points) != 2 {
		t.Fatalf("got %d weekly points, want 2", len(points))
	}
	if points[0]["date"] != "2024-01-01" || points[1]["date"] != "2024-01-08" {
		t.Errorf("unexpected week labels: %v, %v", points[0]["date"], points[1]["date"])
	}
	if points[0]["var_1"] != 10.0 || points[0]["var_2"] != 20.0 {
		t.Errorf("unexpected rates: %v", points[0])
	}
}

func TestExport_CSVSelection(t *testing.T) {
	path := testutil.WriteJSONDataset(t, testutil.SampleDataset(2))

	output, err := runCLI(t, "export", "--data", path, "--variations", "2")
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	want := "date,var_2\n2024-01-01,20\n2024-01-02,20\n"
	if output != want {
		t.Errorf("got:\n%s\nwant:\n%s", output, want)
	}
}

func TestExport_InvalidFormat(t *testing.T) {
	path := testutil.WriteJSONDataset(t, testutil.SampleDataset(2))

	if _, err := runCLI(t, "export", "--data", path, "--format", "xml"); err == nil {
		t.Error("expected error for invalid format")
	}
}

func TestResults(t *testing.T) {
	path := testutil.WriteJSONDataset(t, testutil.SampleDataset(14))

	output, err := runCLI(t, "results", "--data", path)
	if err != nil {
		t.Fatalf("results failed: %v", err)
	}

	var leading string
	for _, line := range strings.Split(output, "\n") {
		if strings.Contains(line, "← LEADING") {
			leading = line
		}
	}
	if !strings.HasPrefix(leading, "Treatment") {
		t.Errorf("expected Treatment to lead, got line %q\n%s", leading, output)
	}
	if !strings.Contains(output, `confident "Treatment" is the winner`) {
		t.Errorf("expected significant winner:\n%s", output)
	}
}

func TestResults_NoSelection(t *testing.T) {
	path := testutil.WriteJSONDataset(t, testutil.SampleDataset(3))

	output, err := runCLI(t, "results", "--data", path, "--variations", "")
	if err != nil {
		t.Fatalf("results failed: %v", err)
	}
	if !strings.Contains(output, "No variations selected.") {
		t.Errorf("unexpected output:\n%s", output)
	}
}

func TestVariations(t *testing.T) {
	path := testutil.WriteJSONDataset(t, testutil.SampleDataset(14))

	output, err := runCLI(t, "variations", "--data", path)
	if err != nil {
		t.Fatalf("variations failed: %v", err)
	}

	expectations := []string{"ID", "#5E5D67", "#3838E7", "Control", "Treatment", "1,400", "280"}
	for _, expected := range expectations {
		if !strings.Contains(output, expected) {
			t.Errorf("variations output missing %q\n\nGot:\n%s", expected, output)
		}
	}
}

func TestChart(t *testing.T) {
	path := testutil.WriteJSONDataset(t, testutil.SampleDataset(10))
	out := filepath.Join(t.TempDir(), "rates.png")

	_, err := runCLI(t, "chart", "--data", path, "--out", out, "--width", "400", "--height", "200", "--style", "area", "--theme", "dark")
	if err != nil {
		t.Fatalf("chart failed: %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("chart not written: %v", err)
	}
	defer f.Close()

	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatalf("not a PNG: %v", err)
	}
	if cfg.Width != 400 || cfg.Height != 200 {
		t.Errorf("size = %dx%d, want 400x200", cfg.Width, cfg.Height)
	}
}

func TestChart_BadStyle(t *testing.T) {
	path := testutil.WriteJSONDataset(t, testutil.SampleDataset(3))
	out := filepath.Join(t.TempDir(), "rates.png")

	if _, err := runCLI(t, "chart", "--data", path, "--out", out, "--style", "smooth"); err == nil {
		t.Error("expected error for unsupported style")
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("expected no file for a rejected chart")
	}
}

func TestFormatNumber(t *testing.T) {
	tests := map[int]string{
		0:       "0",
		999:     "999",
		1400:    "1,400",
		1234567: "1,234,567",
	}
	for in, want := range tests {
		if got := formatNumber(in); got != want {
			t.Errorf("formatNumber(%d) = %s, want %s", in, got, want)
		}
	}
}
