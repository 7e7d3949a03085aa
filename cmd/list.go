package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/KaramelBytes/splitcmp-cli/internal/project"
	"github.com/KaramelBytes/splitcmp-cli/internal/split"
	"github.com/spf13/cobra"
)

var (
	listProjects bool
	listReports  bool
	listProjName string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects or archived reports",
	RunE: func(cmd *cobra.Command, args []string) error {
		if listProjects == listReports { // either both true or both false
			return fmt.Errorf("specify exactly one of --projects or --reports")
		}
		if listProjects {
			return listAllProjects()
		}
		if listProjName == "" {
			return fmt.Errorf("--project is required when using --reports")
		}
		projDir, err := resolveProjectDirByName(listProjName)
		if err != nil {
			return err
		}
		p, err := project.LoadProject(projDir)
		if err != nil {
			return err
		}
		reports := p.SortedReports()
		if len(reports) == 0 {
			fmt.Println("(no reports)")
			return nil
		}
		for _, r := range reports {
			fmt.Printf("- %s: %s at %g%% -> %s (%s) [%s]\n",
				r.ID, r.Dataset, r.Percentile(), r.File, r.Description, significanceSummary(r))
		}
		return nil
	},
}

// significanceSummary prints "label: yes/no" pairs, upper group first.
func significanceSummary(r *project.Report) string {
	out := ""
	for _, label := range []string{split.UpperLabel(r.Percentile()), split.LowerLabel(r.Percentile())} {
		sig, ok := r.Significant[label]
		if !ok {
			continue
		}
		if out != "" {
			out += ", "
		}
		verdict := "not significant"
		if sig {
			verdict = "significant"
		}
		out += fmt.Sprintf("%s: %s", label, verdict)
	}
	return out
}

func listAllProjects() error {
	root, err := defaultProjectsDir()
	if err != nil {
		return err
	}
	dirs, err := os.ReadDir(root)
	if err != nil {
		return err
	}
	found := false
	for _, e := range dirs {
		if !e.IsDir() {
			continue
		}
		pj := filepath.Join(root, e.Name(), "project.json")
		if _, err := os.Stat(pj); err == nil {
			fmt.Printf("- %s\n", e.Name())
			found = true
		}
	}
	if !found {
		fmt.Println("(no projects)")
	}
	return nil
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listProjects, "projects", false, "list projects")
	listCmd.Flags().BoolVar(&listReports, "reports", false, "list archived reports in a project")
	listCmd.Flags().StringVarP(&listProjName, "project", "p", "", "project name for --reports")
}
