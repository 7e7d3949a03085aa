package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/splitcmp-cli/internal/project"
	"github.com/KaramelBytes/splitcmp-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	initDescription string
	initDataset     string
	initFlags       dataFlags
)

var initCmd = &cobra.Command{
	Use:   "init <project-name>",
	Short: "Initialize a project that pins a split analysis and archives its reports",
	Long: `Initialize a project. The rank, reference and comparison columns and the
percentile (flags, else config) are stored as the project's defaults and used
by "analyze -p" unless overridden. With --dataset the columns are checked
against that file before the project is created.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		projDir, err := resolveProjectDirByName(name)
		if err != nil {
			return err
		}
		if err := ensureFreshProjectDir(projDir); err != nil {
			return err
		}
		c, err := settings()
		if err != nil {
			return err
		}
		defaults := initFlags.request(cmd, configRequest(c))
		if err := defaults.Validate(); err != nil {
			return err
		}
		if initDataset != "" {
			ds, _, err := initFlags.load(cmd, initDataset, nil)
			if err != nil {
				return err
			}
			if err := ds.Require(defaults.RankColumn, defaults.ReferenceColumn, defaults.ComparisonColumn); err != nil {
				return fmt.Errorf("check %s: %w", ds.Name, err)
			}
			fmt.Printf("✓ Columns found in %s (%d rows)\n", ds.Name, ds.Len())
		}

		if err := utils.EnsureProjectDir(projDir); err != nil {
			return err
		}
		p := project.NewProject(name, initDescription, projDir)
		p.Defaults = &defaults
		if err := p.Save(); err != nil {
			return err
		}
		fmt.Printf("✓ Project initialized: %s\n", projDir)
		fmt.Printf("  %s vs %s, split on %s at %g%%\n",
			defaults.ComparisonColumn, defaults.ReferenceColumn, defaults.RankColumn, defaults.Percentile)
		return nil
	},
}

// ensureFreshProjectDir accepts a missing or empty directory only.
func ensureFreshProjectDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("inspect project directory: %w", err)
	}
	for _, e := range entries {
		if e.Name() == "project.json" {
			return fmt.Errorf("project already exists at %s", dir)
		}
	}
	if len(entries) > 0 {
		return fmt.Errorf("directory %s already exists and is not empty; refusing to initialize project", dir)
	}
	return nil
}

// defaultProjectsDir is projects_dir from config, or ~/.splitcmp/projects.
// It is created on first use.
func defaultProjectsDir() (string, error) {
	dir := filepath.Join("~", ".splitcmp", "projects")
	if cfg != nil && cfg.ProjectsDir != "" {
		dir = cfg.ProjectsDir
	}
	dir, err := expandHome(dir)
	if err != nil {
		return "", err
	}
	if err := utils.EnsureProjectDir(dir); err != nil {
		return "", err
	}
	return dir, nil
}

func expandHome(dir string) (string, error) {
	if dir != "~" && !strings.HasPrefix(dir, "~/") && !strings.HasPrefix(dir, "~"+string(os.PathSeparator)) {
		return filepath.Clean(dir), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, dir[1:]), nil
}

func resolveProjectDirByName(name string) (string, error) {
	if name == "" {
		return "", errors.New("project name is required")
	}
	if name != filepath.Base(name) || name == "." || name == ".." {
		return "", fmt.Errorf("invalid project name %q", name)
	}
	root, err := defaultProjectsDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, name), nil
}

func init() {
	rootCmd.AddCommand(initCmd)
	initFlags.register(initCmd, true)
	initCmd.Flags().StringVarP(&initDescription, "desc", "d", "", "project description")
	initCmd.Flags().StringVar(&initDataset, "dataset", "", "dataset whose columns must contain the project's columns")
}
