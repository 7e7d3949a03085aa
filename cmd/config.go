package cmd

import (
	"fmt"
	"strconv"
	"strings"

	cfgpkg "github.com/KaramelBytes/splitcmp-cli/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set splitcmp configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Println("No config loaded")
			return nil
		}
		fmt.Printf("rank_column: %s\n", cfg.RankColumn)
		fmt.Printf("reference_column: %s\n", cfg.ReferenceColumn)
		fmt.Printf("comparison_column: %s\n", cfg.ComparisonColumn)
		fmt.Printf("percentile: %g\n", cfg.Percentile)
		fmt.Printf("sweep: %g..%g step %g\n", cfg.SweepMin, cfg.SweepMax, cfg.SweepStep)
		if cfg.Delimiter != "" {
			fmt.Printf("delimiter: %q\n", cfg.Delimiter)
		}
		if cfg.DecimalSeparator != "" {
			fmt.Printf("decimal_separator: %q\n", cfg.DecimalSeparator)
		}
		if cfg.ThousandsSeparator != "" {
			fmt.Printf("thousands_separator: %q\n", cfg.ThousandsSeparator)
		}
		fmt.Printf("kde_points: %d\n", cfg.KDEPoints)
		fmt.Printf("histogram_bins: %d\n", cfg.HistogramBins)
		fmt.Printf("chart_size: %dx%d\n", cfg.ChartWidth, cfg.ChartHeight)
		fmt.Printf("listen_addr: %s\n", cfg.ListenAddr)
		fmt.Printf("projects_dir: %s\n", cfg.ProjectsDir)
		fmt.Printf("log_level: %s\n", cfg.LogLevel)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		c, err := settings()
		if err != nil {
			return err
		}
		if err := setKey(c, key, val); err != nil {
			return err
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		logger.Debug("config saved", zap.String("key", key))
		fmt.Println("Saved config")
		return nil
	},
}

func setKey(c *cfgpkg.Global, key, val string) error {
	switch key {
	case "rank_column":
		c.RankColumn = val
	case "reference_column":
		c.ReferenceColumn = val
	case "comparison_column":
		c.ComparisonColumn = val
	case "percentile":
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("invalid float for percentile: %w", err)
		}
		c.Percentile = f
	case "sweep_min", "sweep_max", "sweep_step":
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("invalid float for %s: %w", key, err)
		}
		switch key {
		case "sweep_min":
			c.SweepMin = f
		case "sweep_max":
			c.SweepMax = f
		default:
			if f <= 0 {
				return fmt.Errorf("sweep_step must be positive: %v", val)
			}
			c.SweepStep = f
		}
	case "delimiter":
		c.Delimiter = val
	case "decimal_separator":
		c.DecimalSeparator = val
	case "thousands_separator":
		c.ThousandsSeparator = val
	case "kde_points", "histogram_bins", "chart_width", "chart_height":
		i, err := strconv.Atoi(val)
		if err != nil || i <= 0 {
			return fmt.Errorf("invalid positive int for %s: %v", key, val)
		}
		switch key {
		case "kde_points":
			c.KDEPoints = i
		case "histogram_bins":
			c.HistogramBins = i
		case "chart_width":
			c.ChartWidth = i
		default:
			c.ChartHeight = i
		}
	case "listen_addr":
		c.ListenAddr = val
	case "projects_dir":
		c.ProjectsDir = val
	case "log_level":
		switch strings.ToLower(val) {
		case "debug", "info", "warn", "error":
			c.LogLevel = strings.ToLower(val)
		default:
			return fmt.Errorf("invalid log_level: %s (use debug|info|warn|error)", val)
		}
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
