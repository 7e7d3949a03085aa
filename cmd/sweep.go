package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/KaramelBytes/splitcmp-cli/internal/analysis"
	"github.com/spf13/cobra"
)

var (
	swFlags      dataFlags
	swMin        float64
	swMax        float64
	swStep       float64
	swOutputPath string
	swQuiet      bool
)

var sweepCmd = &cobra.Command{
	Use:   "sweep <files...>",
	Short: "Run the split analysis at every percentile position for one or more datasets",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := expandInputs(args)
		if err != nil {
			return err
		}
		c, err := settings()
		if err != nil {
			return err
		}
		rng := analysis.SweepRange{Min: c.SweepMin, Max: c.SweepMax, Step: c.SweepStep}
		f := cmd.Flags()
		if f.Changed("min") {
			rng.Min = swMin
		}
		if f.Changed("max") {
			rng.Max = swMax
		}
		if f.Changed("step") {
			rng.Step = swStep
		}
		if _, err := rng.Percentiles(); err != nil {
			return err
		}

		an := analysis.NewAnalyzer(logger)
		var sb strings.Builder
		total := len(files)
		for i, path := range files {
			if !swQuiet {
				fmt.Printf("[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			ds, req, err := swFlags.load(cmd, path, nil)
			if err != nil {
				return err
			}
			results, err := an.Sweep(ds, req, rng)
			if err != nil {
				return err
			}
			if sb.Len() > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(fmt.Sprintf("## %s: %s > %s by %s\n\n", ds.Name, req.ComparisonColumn, req.ReferenceColumn, req.RankColumn))
			sb.WriteString(analysis.SweepTable(results))
		}

		if swOutputPath != "" {
			if err := os.WriteFile(swOutputPath, []byte(sb.String()), 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Printf("✓ Wrote sweep to %s\n", swOutputPath)
			return nil
		}
		fmt.Print(sb.String())
		return nil
	},
}

// expandInputs resolves globs and literal paths, deduplicated and sorted.
func expandInputs(args []string) ([]string, error) {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			// treat as literal path if exists
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no input files matched")
	}
	sort.Strings(files)
	return files, nil
}

func init() {
	rootCmd.AddCommand(sweepCmd)
	swFlags.register(sweepCmd, false)
	sweepCmd.Flags().Float64Var(&swMin, "min", 5, "first percentile (default from config)")
	sweepCmd.Flags().Float64Var(&swMax, "max", 95, "last percentile (default from config)")
	sweepCmd.Flags().Float64Var(&swStep, "step", 5, "percentile step (default from config)")
	sweepCmd.Flags().StringVarP(&swOutputPath, "output", "o", "", "optional path to write the sweep tables")
	sweepCmd.Flags().BoolVarP(&swQuiet, "quiet", "q", false, "suppress progress lines")
}
