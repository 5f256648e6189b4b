package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/perch/internal/project"
)

var (
	editName    string
	editFolder  string
	editRepo    string
	editTags    []string
	editUntags  []string
	editLinks   []string
	editUnlinks []string
)

func init() {
	rootCmd.AddCommand(editCmd)

	editCmd.Flags().StringVarP(&editName, "name", "n", "", "new name")
	editCmd.Flags().StringVarP(&editFolder, "folder", "f", "", "new folder under the projects root")
	editCmd.Flags().StringVarP(&editRepo, "repo", "r", "", "new repository")
	editCmd.Flags().StringSliceVarP(&editTags, "tags", "t", nil, "tags to add")
	editCmd.Flags().StringSliceVarP(&editUntags, "untags", "u", nil, "tags to remove")
	editCmd.Flags().StringSliceVarP(&editLinks, "links", "l", nil, "links to add")
	editCmd.Flags().StringSliceVar(&editUnlinks, "unlinks", nil, "links to remove")
}

// editCmd changes fields of a registered project
var editCmd = &cobra.Command{
	Use:   "edit <name>",
	Short: "Edit a project",
	Long: `Edit a registered project. Only the given flags change anything.
Tags are appended, then every tag listed in --untags is removed. Links
work the same way with --links and --unlinks.

Moving the folder or the repository does not touch the working copy.

Examples:
  perch edit perch --name roost
  perch edit site -t hugo -u jekyll`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func runEdit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	flags := cmd.Flags()

	e := project.Edit{
		AddTags:     editTags,
		RemoveTags:  editUntags,
		AddLinks:    editLinks,
		RemoveLinks: editUnlinks,
	}
	if flags.Changed("name") {
		e.Name = &editName
	}
	if flags.Changed("folder") {
		e.Dir = &editFolder
	}
	if flags.Changed("repo") {
		e.Repo = &editRepo
	}

	p, err := app.store.Edit(ctx, args[0], e)
	if err != nil {
		return withSuggestion(ctx, err, args[0])
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", p.Name)
	return nil
}
