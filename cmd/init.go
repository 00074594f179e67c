package cmd

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/ImranSah/gosh/core/config"
)

// initCmd creates the configuration directory with a default config
// and a fresh host key.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the configuration directory.",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		logger := log.New(cmd.ErrOrStderr(), "", 0)

		_, err := config.Initialize(cfgPath, logger)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
