package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/perch/internal/project"
	"github.com/fyrsmithlabs/perch/internal/workspace"
)

var (
	// openPicker treats the argument as a picker line
	openPicker bool
	// openLinks also opens the project's links
	openLinks bool
	// openDetach prepares the session without attaching
	openDetach bool
)

func init() {
	rootCmd.AddCommand(openCmd)
	rootCmd.AddCommand(openInPlaceCmd)

	openCmd.Flags().BoolVar(&openPicker, "picker", false, "argument is a line printed by ls --picker")
	openCmd.Flags().BoolVarP(&openLinks, "links", "l", false, "also open the project's links")
	openCmd.Flags().BoolVar(&openDetach, "detach", false, "prepare the session and print its name without attaching")
}

// openCmd activates a project workspace and attaches to it
var openCmd = &cobra.Command{
	Use:   "open <name>",
	Short: "Open a project workspace",
	Long: `Open a project: clone it into the projects root if its folder is
missing, create its notes file, start a tmux session with the editor on
the notes, and attach.

When terminal.command is configured and $TERM differs from terminal.term,
the session is opened in a new terminal window instead.

Examples:
  perch open perch
  perch open --links perch
  perch ls --picker | fzf | xargs -I{} perch open --picker {}`,
	Args: cobra.ExactArgs(1),
	RunE: runOpen,
}

// openInPlaceCmd is what a spawned terminal runs
var openInPlaceCmd = &cobra.Command{
	Use:    workspace.OpenInPlaceCommand + " <name>",
	Short:  "Open a project workspace in the current terminal",
	Hidden: true,
	Args:   cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		return withSuggestion(ctx, app.activator.Open(ctx, args[0]), args[0])
	},
}

func runOpen(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	name := args[0]
	if openPicker {
		name = project.NameFromPicker(name)
	}

	if openLinks {
		p, err := app.store.Get(ctx, name)
		if err != nil {
			return withSuggestion(ctx, err, name)
		}
		// Link failures are reported but do not block the workspace.
		if err := app.activator.OpenLinks(ctx, p); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "perch: %v\n", err)
		}
	}

	if openDetach {
		session, err := app.activator.Prepare(ctx, name)
		if err != nil {
			return withSuggestion(ctx, err, name)
		}
		fmt.Fprintln(cmd.OutOrStdout(), session)
		return nil
	}

	if app.activator.NeedsHandoff(getenv("TERM")) {
		self, err := executable()
		if err != nil {
			return fmt.Errorf("locate perch binary: %w", err)
		}
		app.logger.Debug(ctx, "handing off to terminal", zap.String("self", self))
		return withSuggestion(ctx, app.activator.Handoff(ctx, name, self), name)
	}

	return withSuggestion(ctx, app.activator.Open(ctx, name), name)
}
