package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/perch/internal/project"
	"github.com/fyrsmithlabs/perch/internal/search"
	"github.com/fyrsmithlabs/perch/pkg/git"
)

var (
	// lsPicker prints one "name - #tag" line per project
	lsPicker bool
	// lsFilter ranks projects by fuzzy match
	lsFilter string
	// lsTag keeps projects with a tag matching the glob
	lsTag string
)

const emptyRegistryHint = `You don't have any projects. Learn how to add one with:
$ perch help add`

func init() {
	rootCmd.AddCommand(lsCmd)

	lsCmd.Flags().BoolVar(&lsPicker, "picker", false, "print in picker format")
	lsCmd.Flags().StringVar(&lsFilter, "filter", "", "fuzzy filter on name and tags")
	lsCmd.Flags().StringVar(&lsTag, "tag", "", "only projects with a tag matching this glob")
}

// lsCmd lists registered projects
var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List projects",
	Long: `List registered projects.

Examples:
  # Full listing with the checked out branch of each workspace
  perch ls

  # One line per project, for fzf or rofi
  perch ls --picker

  # Projects tagged go or golang whose name looks like "srv"
  perch ls --tag 'go*' --filter srv`,
	Args: cobra.NoArgs,
	RunE: runLs,
}

func runLs(cmd *cobra.Command, _ []string) error {
	projects, err := app.store.List(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(projects) == 0 {
		fmt.Fprintln(out, emptyRegistryHint)
		return nil
	}

	if lsTag != "" {
		projects, err = search.TagGlob(projects, lsTag)
		if err != nil {
			return err
		}
	}
	if lsFilter != "" {
		matches := search.Fuzzy(projects, lsFilter)
		projects = make([]project.Project, len(matches))
		for i, m := range matches {
			projects[i] = m.Project
		}
	}

	if lsPicker {
		for _, p := range projects {
			fmt.Fprintln(out, project.PickerLine(p))
		}
		return nil
	}

	printLong(out, projects)
	return nil
}

// printLong renders one block per project. Styles degrade to plain text
// when out is not a terminal.
func printLong(out io.Writer, projects []project.Project) {
	r := lipgloss.NewRenderer(out)
	nameStyle := r.NewStyle().Bold(true)
	labelStyle := r.NewStyle().Faint(true)
	tagStyle := r.NewStyle().Foreground(lipgloss.Color("6"))
	branchStyle := r.NewStyle().Foreground(lipgloss.Color("3"))

	field := func(label, value string) {
		fmt.Fprintf(out, "  %s %s\n", labelStyle.Render(label+":"), value)
	}

	for i, p := range projects {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintln(out, nameStyle.Render(p.Name))
		field("Repository", p.Repo)
		field("Folder", p.Dir)
		if len(p.Tags) > 0 {
			tags := make([]string, len(p.Tags))
			for j, t := range p.Tags {
				tags[j] = tagStyle.Render("#" + t)
			}
			field("Tags", strings.Join(tags, " "))
		}
		if len(p.Links) > 0 {
			field("Links", strings.Join(p.Links, " "))
		}
		if branch, ok := workspaceBranch(p); ok {
			field("Branch", renderBranch(branchStyle, branch))
		}
	}
}

// workspaceBranch reports the checked out branch of a cloned workspace.
func workspaceBranch(p project.Project) (string, bool) {
	path := app.activator.WorkspacePath(p)
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	branch, err := git.DetectBranch(path)
	if err != nil {
		return "", false
	}
	return branch, true
}

// renderBranch highlights work in progress: anything but main or master.
func renderBranch(style lipgloss.Style, branch string) string {
	if git.IsMainBranch(branch) {
		return branch
	}
	return style.Render(branch)
}
