package cmd

import (
	"errors"
	"io"
	"io/fs"
	"log"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/ImranSah/gosh/core"
	"github.com/ImranSah/gosh/core/config"
	"github.com/ImranSah/gosh/core/logger"
)

var (
	cfgPath string
	command string
)

func loadConfig() (*config.Configuration, error) {
	configuration, err := config.Load(cfgPath)

	if errors.Is(err, fs.ErrNotExist) {
		log.Println("Couldn't load config: did you run init?")
	}

	return configuration, err
}

// replConfig loads the configuration for an interactive shell, falling
// back to the built-in defaults when no directory was initialized. A
// shell should start without ceremony.
func replConfig() *config.Configuration {
	configuration, err := config.Load(cfgPath)
	if err != nil {
		return config.Default()
	}
	return configuration
}

// sessionLog opens the configured event log. Without one, for example
// under the default configuration, events are discarded.
func sessionLog(cfg *config.Configuration) (*logger.Logger, io.Closer) {
	fd, err := cfg.OpenAppLog()
	if err != nil {
		return logger.NewNopLogger(), nil
	}
	return logger.NewJsonLinesLogRecorder(fd), fd
}

// rootCmd starts the interactive shell when called without a
// subcommand.
var rootCmd = &cobra.Command{
	Use:   "gosh",
	Short: "A small interactive shell with pipelines and redirections.",
	Long: `gosh is an interactive command shell. It runs builtin commands and
executables from PATH, connects them with pipelines, redirects their
output, and can serve the same shell over SSH.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		cfg := replConfig()
		baseLog, logCloser := sessionLog(cfg)
		slog := baseLog.NewSession()

		sh, err := core.NewShell(cfg, core.ShellOptions{
			Log:         slog,
			HistoryFile: cfg.HistoryPath(),
		})
		if err != nil {
			if logCloser != nil {
				logCloser.Close()
			}
			return err
		}

		start := time.Now()
		slog.Record(&logger.SessionStart{
			Username:   os.Getenv("USER"),
			RemoteAddr: "local",
			Term:       os.Getenv("TERM"),
			IsPty:      isatty.IsTerminal(os.Stdin.Fd()),
		})

		var status int
		if command != "" {
			status = sh.Eval(cmd.Context(), command)
		} else {
			status = sh.Run(cmd.Context())
		}

		slog.Record(&logger.SessionEnd{
			ExitStatus:     status,
			DurationMicros: time.Since(start).Microseconds(),
		})

		sh.Close()
		if logCloser != nil {
			logCloser.Close()
		}
		os.Exit(status)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", ".", "config path")
	rootCmd.Flags().StringVarP(&command, "command", "c", "", "run a single command line and exit")
}
