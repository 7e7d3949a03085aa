package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/KaramelBytes/splitcmp-cli/internal/analysis"
	"github.com/KaramelBytes/splitcmp-cli/internal/charts"
	"github.com/KaramelBytes/splitcmp-cli/internal/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	plotFlags  dataFlags
	plotOutDir string
)

var plotCmd = &cobra.Command{
	Use:   "plot <file>",
	Short: "Write box, density and histogram charts (SVG) plus the report for each group",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, req, err := plotFlags.load(cmd, args[0], nil)
		if err != nil {
			return err
		}
		res, err := analysis.NewAnalyzer(logger).Analyze(ds, req)
		if err != nil {
			return err
		}
		c, err := settings()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(plotOutDir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
		size := charts.Size{Width: c.ChartWidth, Height: c.ChartHeight}
		panels := charts.Build(res, charts.Options{KDEPoints: c.KDEPoints, HistogramBins: c.HistogramBins})
		for _, p := range panels {
			slug := utils.SlugName(p.Label)
			if err := writeChart(filepath.Join(plotOutDir, "kde_"+slug+".svg"), func(buf *bytes.Buffer) error {
				return charts.RenderKDE(buf, p, size)
			}); err != nil {
				return err
			}
			if err := writeChart(filepath.Join(plotOutDir, "hist_"+slug+".svg"), func(buf *bytes.Buffer) error {
				return charts.RenderHistogram(buf, p, size)
			}); err != nil {
				return err
			}
			if err := writeChart(filepath.Join(plotOutDir, "box_"+slug+".svg"), func(buf *bytes.Buffer) error {
				return charts.RenderBox(buf, p, size)
			}); err != nil {
				return err
			}
		}
		report := filepath.Join(plotOutDir, "report.md")
		if err := utils.SafeWriteFile(report, []byte(res.Markdown())); err != nil {
			return err
		}
		fmt.Printf("✓ Wrote charts and report to %s\n", plotOutDir)
		return nil
	},
}

// writeChart renders into memory first so a failed render leaves no file.
func writeChart(path string, render func(*bytes.Buffer) error) error {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		if errors.Is(err, charts.ErrNoData) {
			fmt.Printf("⚠ Skipped %s: %v\n", filepath.Base(path), err)
			return nil
		}
		return err
	}
	if err := utils.SafeWriteFile(path, buf.Bytes()); err != nil {
		return err
	}
	logger.Debug("chart written", zap.String("path", path))
	return nil
}

func init() {
	rootCmd.AddCommand(plotCmd)
	plotFlags.register(plotCmd, true)
	plotCmd.Flags().StringVar(&plotOutDir, "out-dir", "charts", "directory for the SVG charts and report.md")
}
