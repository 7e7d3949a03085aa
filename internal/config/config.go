package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Columns and split point
	RankColumn       string  `mapstructure:"rank_column" yaml:"rank_column"`
	ReferenceColumn  string  `mapstructure:"reference_column" yaml:"reference_column"`
	ComparisonColumn string  `mapstructure:"comparison_column" yaml:"comparison_column"`
	Percentile       float64 `mapstructure:"percentile" yaml:"percentile"`

	// Sweep positions
	SweepMin  float64 `mapstructure:"sweep_min" yaml:"sweep_min"`
	SweepMax  float64 `mapstructure:"sweep_max" yaml:"sweep_max"`
	SweepStep float64 `mapstructure:"sweep_step" yaml:"sweep_step"`

	// Loader
	Delimiter          string `mapstructure:"delimiter" yaml:"delimiter"`
	DecimalSeparator   string `mapstructure:"decimal_separator" yaml:"decimal_separator"`
	ThousandsSeparator string `mapstructure:"thousands_separator" yaml:"thousands_separator"`

	// Charts
	KDEPoints     int `mapstructure:"kde_points" yaml:"kde_points"`
	HistogramBins int `mapstructure:"histogram_bins" yaml:"histogram_bins"`
	ChartWidth    int `mapstructure:"chart_width" yaml:"chart_width"`
	ChartHeight   int `mapstructure:"chart_height" yaml:"chart_height"`

	ListenAddr  string `mapstructure:"listen_addr" yaml:"listen_addr"`
	ProjectsDir string `mapstructure:"projects_dir" yaml:"projects_dir"`
	LogLevel    string `mapstructure:"log_level" yaml:"log_level"`
}

const dirName = ".splitcmp"

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.splitcmp/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, dirName)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("SPLITCMP")
	v.AutomaticEnv()

	v.SetDefault("rank_column", "2021_GDP")
	v.SetDefault("reference_column", "2019_HE")
	v.SetDefault("comparison_column", "2021_HE")
	v.SetDefault("percentile", 50.0)
	v.SetDefault("sweep_min", 5.0)
	v.SetDefault("sweep_max", 95.0)
	v.SetDefault("sweep_step", 5.0)
	v.SetDefault("delimiter", "")
	v.SetDefault("decimal_separator", "")
	v.SetDefault("thousands_separator", "")
	v.SetDefault("kde_points", 1000)
	v.SetDefault("histogram_bins", 15)
	v.SetDefault("chart_width", 600)
	v.SetDefault("chart_height", 400)
	v.SetDefault("listen_addr", "127.0.0.1:8050")
	v.SetDefault("projects_dir", "")
	v.SetDefault("log_level", "info")

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, dirName)
		_ = os.MkdirAll(dir, 0o755)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	// Resolve projects_dir default: ~/.splitcmp/projects
	if c.ProjectsDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		c.ProjectsDir = filepath.Join(home, dirName, "projects")
	}
	return &c, nil
}
