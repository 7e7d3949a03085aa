package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/KaramelBytes/splitcmp-cli/internal/project"
	"github.com/spf13/cobra"
)

var (
	pmProject  string
	pmKeepFile bool
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage archived reports of a project",
}

var projectShowCmd = &cobra.Command{
	Use:   "show <report-id>",
	Short: "Print an archived report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadNamedProject()
		if err != nil {
			return err
		}
		r, ok := p.Reports[args[0]]
		if !ok {
			return fmt.Errorf("report %s not found in project %s", args[0], p.Name)
		}
		b, err := os.ReadFile(filepath.Join(p.RootDir(), r.File))
		if err != nil {
			return fmt.Errorf("read report: %w", err)
		}
		fmt.Println(string(b))
		return nil
	},
}

var projectRemoveCmd = &cobra.Command{
	Use:   "remove-report <report-id>",
	Short: "Remove an archived report and its file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadNamedProject()
		if err != nil {
			return err
		}
		r, ok := p.Reports[args[0]]
		if !ok {
			return fmt.Errorf("report %s not found in project %s", args[0], p.Name)
		}
		if err := p.RemoveReport(r.ID); err != nil {
			return err
		}
		if err := p.Save(); err != nil {
			return err
		}
		if !pmKeepFile {
			if err := os.Remove(filepath.Join(p.RootDir(), r.File)); err != nil && !os.IsNotExist(err) {
				fmt.Printf("⚠ Could not remove %s: %v\n", r.File, err)
			}
		}
		fmt.Printf("✓ Removed report %s from %s\n", r.ID, p.Name)
		return nil
	},
}

func loadNamedProject() (*project.Project, error) {
	if pmProject == "" {
		return nil, fmt.Errorf("--project is required")
	}
	dir, err := resolveProjectDirByName(pmProject)
	if err != nil {
		return nil, err
	}
	return project.LoadProject(dir)
}

func init() {
	rootCmd.AddCommand(projectCmd)
	projectCmd.AddCommand(projectShowCmd)
	projectCmd.AddCommand(projectRemoveCmd)
	projectCmd.PersistentFlags().StringVarP(&pmProject, "project", "p", "", "project name")
	projectRemoveCmd.Flags().BoolVar(&pmKeepFile, "keep-file", false, "keep the rendered report file on disk")
}
