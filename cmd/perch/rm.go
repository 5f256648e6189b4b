package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(rmCmd)
}

// rmCmd removes a project from the registry
var rmCmd = &cobra.Command{
	Use:   "rm <name>",
	Short: "Remove a project",
	Long: `Remove a project from the registry. The working copy and the notes
file are left on disk.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := app.store.Remove(ctx, args[0]); err != nil {
			return withSuggestion(ctx, err, args[0])
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
		return nil
	},
}
