package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/perch/internal/notes"
)

// notesCopy also copies the path to the clipboard
var notesCopy bool

func init() {
	rootCmd.AddCommand(notesCmd)
	rootCmd.AddCommand(linksCmd)

	notesCmd.Flags().BoolVarP(&notesCopy, "copy", "c", false, "copy the path to the clipboard")
}

// notesCmd prints the notes file of a project, creating it if needed
var notesCmd = &cobra.Command{
	Use:   "notes <name>",
	Short: "Print the path of a project's notes file",
	Long: `Print the path of a project's notes file, creating it from the
template when it does not exist yet.

Examples:
  $EDITOR "$(perch notes perch)"
  perch notes --copy perch`,
	Args: cobra.ExactArgs(1),
	RunE: runNotes,
}

// linksCmd opens the links of a project
var linksCmd = &cobra.Command{
	Use:   "links <name>",
	Short: "Open a project's links",
	Long:  `Open every link of a project with links.opener (default xdg-open).`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		p, err := app.store.Get(ctx, args[0])
		if err != nil {
			return withSuggestion(ctx, err, args[0])
		}
		return app.activator.OpenLinks(ctx, p)
	},
}

func runNotes(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	p, err := app.store.Get(ctx, args[0])
	if err != nil {
		return withSuggestion(ctx, err, args[0])
	}

	path, err := notes.Ensure(app.cfg.Paths.DataDir, p)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)

	if notesCopy {
		if err := writeClipboard(path); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
	}
	return nil
}
