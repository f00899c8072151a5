// apt-preflight checks whether Debian packages and their dependency
// closures are published across the components and pockets of an
// Ubuntu archive mirror.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/open-edge-platform/apt-preflight/internal/config"
	"github.com/open-edge-platform/apt-preflight/internal/report"
	"github.com/open-edge-platform/apt-preflight/internal/utils/logger"
)

var (
	configFile string
	logLevel   string

	// cfg is loaded once by the logging hook before any command body
	// runs.
	cfg *config.GlobalConfig
)

func main() {
	if err := createRootCommand().Execute(); err != nil {
		if !errors.Is(err, report.ErrIssuesDetected) {
			// The report already explains detected issues; anything
			// else still needs to be printed.
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func createRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "apt-preflight",
		Short: "Check package availability in Ubuntu archive sources",
		Long: `apt-preflight fetches the package lists of an Ubuntu archive mirror
and checks whether a package, an exact version of it, and optionally its
whole dependency closure are published across the configured components
and pockets.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&configFile, "config", "", "Path to a YAML configuration file")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error")
	root.PersistentFlags().BoolP("verbose", "v", false, "Verbose output, implies debug logging")

	root.AddCommand(createCheckCommand())
	root.AddCommand(createSourcesCommand())
	root.AddCommand(createCacheCommand())

	attachLoggingHooks(root)

	return root
}

// attachLoggingHooks wires configuration loading and logger setup into
// every subcommand so they run after flag parsing and before the
// command body.
func attachLoggingHooks(root *cobra.Command) {
	for _, cmd := range root.Commands() {
		cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(configFile)
			if err != nil {
				return err
			}
			cfg = loaded
			return setupLogging(cmd)
		}
	}
}

// resolveRequestedLogLevel returns the log level requested on the
// command line: an explicit --log-level wins, --verbose implies debug,
// and an empty result defers to the configuration file.
func resolveRequestedLogLevel(cmd *cobra.Command) string {
	if logLevel != "" {
		return logLevel
	}
	if cmd == nil {
		return ""
	}
	if verbose, err := cmd.Flags().GetBool("verbose"); err == nil && verbose {
		return "debug"
	}
	return ""
}

func setupLogging(cmd *cobra.Command) error {
	level := resolveRequestedLogLevel(cmd)
	if level == "" {
		level = cfg.Logging.Level
	}

	z, err := logger.Build(level)
	if err != nil {
		return err
	}
	logger.Init(z)
	return nil
}
