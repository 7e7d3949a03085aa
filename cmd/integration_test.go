package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/splitcmp-cli/internal/project"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// resetFlags clears values and Changed state that persist across
// invocations of the shared rootCmd.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// execCmd runs the root command with args and returns its error.
func execCmd(args ...string) error {
	resetFlags(rootCmd)
	cfg = nil
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

// runCmd is a helper to execute the root command with args.
func runCmd(t *testing.T, args ...string) {
	t.Helper()
	if err := execCmd(args...); err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
}

// isolate points HOME at a temp dir and writes the health-spending fixture.
func isolate(t *testing.T) (home, data string) {
	t.Helper()
	home = t.TempDir()
	t.Setenv("HOME", home)
	data = filepath.Join(home, "health.csv")
	csv := strings.Join([]string{
		"Country,2021_GDP,2019_HE,2021_HE",
		"A,900,10,14",
		"B,800,12,15",
		"C,700,11,13",
		"D,600,13,16",
		"E,500,12,15",
		"F,400,14,10",
		"G,300,15,12",
		"H,200,13,11",
		"I,100,16,13",
		"J,50,15,",
	}, "\n") + "\n"
	if err := os.WriteFile(data, []byte(csv), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return home, data
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(b)
}

func TestCLI_AnalyzeMarkdown(t *testing.T) {
	home, data := isolate(t)
	out := filepath.Join(home, "report.md")
	runCmd(t, "analyze", data, "-o", out)

	md := readFile(t, out)
	for _, want := range []string{
		"Split: 2021_GDP at 50% (cutoff 5)",
		"## Top 50% (n=5)",
		"| Significant | Yes |",
		"## Bottom 50% (n=5)",
		"| Count | 5 | 4 |",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("report missing %q:\n%s", want, md)
		}
	}
}

func TestCLI_AnalyzeJSONWithFlags(t *testing.T) {
	home, data := isolate(t)
	out := filepath.Join(home, "report.json")
	runCmd(t, "analyze", data, "--percentile", "30", "--format", "json", "-o", out)

	var doc struct {
		Cutoff int      `json:"cutoff"`
		Order  []string `json:"order"`
	}
	if err := json.Unmarshal([]byte(readFile(t, out)), &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc.Cutoff != 3 {
		t.Fatalf("expected cutoff 3, got %d", doc.Cutoff)
	}
	if len(doc.Order) != 2 || doc.Order[0] != "Top 30%" || doc.Order[1] != "Bottom 70%" {
		t.Fatalf("unexpected order %v", doc.Order)
	}
}

func TestCLI_AnalyzeMissingColumnFails(t *testing.T) {
	_, data := isolate(t)
	err := execCmd("analyze", data, "--ref", "2018_HE")
	if err == nil {
		t.Fatal("expected missing column error")
	}
	if !strings.Contains(err.Error(), `"2018_HE" not found`) {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCLI_AnalyzeRejectsUnknownFormat(t *testing.T) {
	_, data := isolate(t)
	if err := execCmd("analyze", data, "--format", "xml"); err == nil {
		t.Fatal("expected error for --format xml")
	}
}

func TestCLI_InitAnalyzeIntoProject(t *testing.T) {
	_, data := isolate(t)
	runCmd(t, "init", "health", "-d", "integration test")
	runCmd(t, "analyze", data, "-p", "health", "--desc", "first")
	runCmd(t, "analyze", data, "-p", "health", "--desc", "second")
	runCmd(t, "list", "--reports", "-p", "health")

	projDir, err := resolveProjectDirByName("health")
	if err != nil {
		t.Fatalf("resolve project: %v", err)
	}
	p, err := project.LoadProject(projDir)
	if err != nil {
		t.Fatalf("load project: %v", err)
	}
	if len(p.Reports) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(p.Reports))
	}
	first := filepath.Join(projDir, "reports", "health__50pct.md")
	second := filepath.Join(projDir, "reports", "health__50pct__2.md")
	for _, f := range []string{first, second} {
		if _, err := os.Stat(f); err != nil {
			t.Fatalf("missing report file: %v", err)
		}
	}
	for _, r := range p.Reports {
		if !r.Significant["Top 50%"] || r.Significant["Bottom 50%"] {
			t.Fatalf("unexpected significance: %v", r.Significant)
		}
	}

	// Removing a report deletes its file too.
	r := p.SortedReports()[0]
	runCmd(t, "project", "remove-report", r.ID, "-p", "health")
	if _, err := os.Stat(filepath.Join(projDir, r.File)); !os.IsNotExist(err) {
		t.Fatalf("report file should be gone: %v", err)
	}
}

func TestCLI_InitRefusesExistingProject(t *testing.T) {
	isolate(t)
	runCmd(t, "init", "dup")
	if err := execCmd("init", "dup"); err == nil {
		t.Fatal("expected error re-initializing project")
	}
}

func TestCLI_InitStoresDefaults(t *testing.T) {
	_, data := isolate(t)
	runCmd(t, "init", "pinned", "--percentile", "30", "--dataset", data)

	projDir, err := resolveProjectDirByName("pinned")
	if err != nil {
		t.Fatalf("resolve project: %v", err)
	}
	p, err := project.LoadProject(projDir)
	if err != nil {
		t.Fatalf("load project: %v", err)
	}
	if p.Defaults == nil || p.Defaults.Percentile != 30 || p.Defaults.RankColumn != "2021_GDP" || p.Defaults.ComparisonColumn != "2021_HE" {
		t.Fatalf("unexpected defaults: %+v", p.Defaults)
	}

	// The stored percentile applies without a flag; a flag still wins.
	runCmd(t, "analyze", data, "-p", "pinned")
	runCmd(t, "analyze", data, "-p", "pinned", "--percentile", "60")
	for name, label := range map[string]string{"health__30pct.md": "## Top 30% (n=3)", "health__60pct.md": "## Top 60% (n=6)"} {
		if !strings.Contains(readFile(t, filepath.Join(projDir, "reports", name)), label) {
			t.Fatalf("%s missing %q", name, label)
		}
	}
}

func TestCLI_InitValidatesColumns(t *testing.T) {
	home, data := isolate(t)
	if err := execCmd("init", "bad", "--cmp", "2022_HE", "--dataset", data); err == nil || !strings.Contains(err.Error(), "2022_HE") {
		t.Fatalf("expected missing column error, got %v", err)
	}
	if err := execCmd("init", "same", "--ref", "2021_HE"); err == nil {
		t.Fatal("expected error for identical reference and comparison columns")
	}
	for _, name := range []string{"bad", "same"} {
		if _, err := os.Stat(filepath.Join(home, ".splitcmp", "projects", name)); !os.IsNotExist(err) {
			t.Fatalf("project %s should not exist: %v", name, err)
		}
	}
	if err := execCmd("init", "../escape"); err == nil {
		t.Fatal("expected error for a project name with a path")
	}
}

func TestCLI_AnalyzeNonFinitePercentileJSON(t *testing.T) {
	home, data := isolate(t)
	out := filepath.Join(home, "nan.json")
	runCmd(t, "analyze", data, "--percentile", "NaN", "--format", "json", "-o", out)
	var doc map[string]any
	if err := json.Unmarshal([]byte(readFile(t, out)), &doc); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	req := doc["request"].(map[string]any)
	if v, ok := req["percentile"]; !ok || v != nil {
		t.Fatalf("percentile = %v, want null", v)
	}
}

func TestCLI_Sweep(t *testing.T) {
	home, data := isolate(t)
	out := filepath.Join(home, "sweep.md")
	runCmd(t, "sweep", data, "--min", "40", "--max", "60", "--step", "10", "-q", "-o", out)

	table := readFile(t, out)
	for _, want := range []string{
		"## health.csv: 2021_HE > 2019_HE by 2021_GDP",
		"| 40% | Top 40% | 4 |",
		"| 50% | Top 50% | 5 |",
		"| 60% | Bottom 40% | 4 |",
	} {
		if !strings.Contains(table, want) {
			t.Fatalf("sweep missing %q:\n%s", want, table)
		}
	}
	if err := execCmd("sweep", filepath.Join(home, "nothing*.csv")); err == nil {
		t.Fatal("expected error when no inputs match")
	}
}

func TestCLI_Plot(t *testing.T) {
	home, data := isolate(t)
	outDir := filepath.Join(home, "charts")
	runCmd(t, "plot", data, "--out-dir", outDir)
	for _, name := range []string{
		"kde_top_50pct.svg", "hist_top_50pct.svg", "box_top_50pct.svg",
		"kde_bottom_50pct.svg", "hist_bottom_50pct.svg", "box_bottom_50pct.svg",
		"report.md",
	} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Fatalf("missing %s: %v", name, err)
		}
	}
	if !strings.Contains(readFile(t, filepath.Join(outDir, "kde_top_50pct.svg")), "<svg") {
		t.Fatal("expected SVG output")
	}
	if !strings.Contains(readFile(t, filepath.Join(outDir, "box_bottom_50pct.svg")), "2021_HE mean") {
		t.Fatal("expected a mean marker in the box plot")
	}
}

func TestCLI_ConfigSetAffectsAnalyze(t *testing.T) {
	home, data := isolate(t)
	runCmd(t, "config", "set", "percentile", "20")
	runCmd(t, "config", "show")
	out := filepath.Join(home, "r.md")
	runCmd(t, "analyze", data, "-o", out)
	if !strings.Contains(readFile(t, out), "## Top 20% (n=2)") {
		t.Fatalf("config percentile not applied")
	}
	if err := execCmd("config", "set", "percentile", "abc"); err == nil {
		t.Fatal("expected error for invalid percentile")
	}
	if err := execCmd("config", "set", "nope", "1"); err == nil {
		t.Fatal("expected error for unknown key")
	}
}
