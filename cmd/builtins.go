package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ImranSah/gosh/commands"
)

// builtinsCmd lists the commands compiled into the shell.
var builtinsCmd = &cobra.Command{
	Use:   "builtins",
	Short: "Show the shell's builtin commands.",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, name := range commands.Names() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(builtinsCmd)
}
