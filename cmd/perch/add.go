package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/perch/internal/project"
)

var (
	addName   string
	addFolder string
	addTags   []string
	addLinks  []string
)

func init() {
	rootCmd.AddCommand(addCmd)

	addCmd.Flags().StringVarP(&addName, "name", "n", "", "project name (default: last segment of the repo)")
	addCmd.Flags().StringVarP(&addFolder, "folder", "f", "", "folder under the projects root (default: the name)")
	addCmd.Flags().StringSliceVarP(&addTags, "tags", "t", nil, "tags, repeatable or comma separated")
	addCmd.Flags().StringSliceVarP(&addLinks, "links", "l", nil, "links, repeatable or comma separated")
}

// addCmd registers a project
var addCmd = &cobra.Command{
	Use:   "add <repo>",
	Short: "Add a project",
	Long: `Add a project to the registry. The repository is a GitHub style
"owner/name" path, cloned over SSH, or any URL containing "://".

Examples:
  perch add fyrsmithlabs/perch
  perch add https://git.sr.ht/~me/dots --name dots --tags config
  perch add me/site --folder www/site -t web -t hugo -l https://example.com`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

func runAdd(cmd *cobra.Command, args []string) error {
	p, err := project.New(args[0], addName, addFolder, addTags, addLinks)
	if err != nil {
		return err
	}
	if err := app.store.Add(cmd.Context(), p); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", p.Name)
	return nil
}
