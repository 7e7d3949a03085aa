package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/splitcmp-cli/internal/analysis"
	"github.com/KaramelBytes/splitcmp-cli/internal/project"
	"github.com/KaramelBytes/splitcmp-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	anaFlags       dataFlags
	anaProject     string
	anaOutputPath  string
	anaDescription string
	anaFormat      string
	anaRows        bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Split a dataset at a percentile and compare two columns in each group",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		format := strings.ToLower(strings.TrimSpace(anaFormat))
		ext, err := formatExt(format)
		if err != nil {
			return err
		}
		var proj *project.Project
		if anaProject != "" {
			projDir, err := resolveProjectDirByName(anaProject)
			if err != nil {
				return err
			}
			if proj, err = project.LoadProject(projDir); err != nil {
				return err
			}
		}
		ds, req, err := anaFlags.load(cmd, path, proj)
		if err != nil {
			return err
		}
		res, err := analysis.NewAnalyzer(logger).Analyze(ds, req)
		if err != nil {
			return err
		}
		out, err := renderResult(res, format, anaRows)
		if err != nil {
			return err
		}

		// Decide where to write: --output path, or attach to project, or stdout
		written := false
		if anaOutputPath != "" {
			if err := os.WriteFile(anaOutputPath, out, 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Printf("✓ Wrote analysis to %s\n", anaOutputPath)
			written = true
		}
		if p := proj; p != nil {
			outDir := p.ReportsDir()
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}
			base := filepath.Base(path)
			safe := utils.SlugName(strings.TrimSuffix(base, filepath.Ext(base)))
			outFile := uniquePath(outDir, fmt.Sprintf("%s__%s", safe, utils.SlugName(analysisPct(req.Percentile))), ext)
			if err := utils.SafeWriteFile(outFile, out); err != nil {
				return fmt.Errorf("write project report: %w", err)
			}
			desc := anaDescription
			if desc == "" {
				desc = "Split analysis"
			}
			rel, err := filepath.Rel(p.RootDir(), outFile)
			if err != nil {
				rel = outFile
			}
			id, err := p.AddReport(project.NewReport(res, rel, desc))
			if err != nil {
				return err
			}
			if err := p.Save(); err != nil {
				return err
			}
			fmt.Printf("✓ Added report %s to project '%s' as %s\n", id, p.Name, rel)
			written = true
		}
		if !written {
			fmt.Println(strings.TrimRight(string(out), "\n"))
		}
		return nil
	},
}

func formatExt(format string) (string, error) {
	switch format {
	case "", "markdown", "md":
		return "md", nil
	case "json":
		return "json", nil
	case "yaml", "yml":
		return "yaml", nil
	}
	return "", fmt.Errorf("unsupported --format: %s (use markdown|json|yaml)", format)
}

func renderResult(res *analysis.Result, format string, withRows bool) ([]byte, error) {
	switch format {
	case "json":
		return res.JSON(withRows)
	case "yaml", "yml":
		return res.YAML(withRows)
	}
	return []byte(res.Markdown()), nil
}

// uniquePath returns dir/base.ext, or dir/base__N.ext for the first N >= 2
// that does not exist yet.
func uniquePath(dir, base, ext string) string {
	out := filepath.Join(dir, base+"."+ext)
	if _, err := os.Stat(out); err != nil {
		return out
	}
	for idx := 2; ; idx++ {
		cand := filepath.Join(dir, fmt.Sprintf("%s__%d.%s", base, idx, ext))
		if _, err := os.Stat(cand); os.IsNotExist(err) {
			fmt.Printf("⚠ Detected existing report, writing to %s to avoid overwrite.\n", filepath.Base(cand))
			return cand
		}
	}
}

func analysisPct(p float64) string { return fmt.Sprintf("%g%%", p) }

func init() {
	rootCmd.AddCommand(analyzeCmd)
	anaFlags.register(analyzeCmd, true)
	analyzeCmd.Flags().StringVarP(&anaProject, "project", "p", "", "project name to archive the report in")
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "optional path to write the report")
	analyzeCmd.Flags().StringVar(&anaDescription, "desc", "", "description when archiving to a project")
	analyzeCmd.Flags().StringVarP(&anaFormat, "format", "f", "markdown", "output format: markdown|json|yaml")
	analyzeCmd.Flags().BoolVar(&anaRows, "rows", false, "json/yaml: include the rows of each group")
}
