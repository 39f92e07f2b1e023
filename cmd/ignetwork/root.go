package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"ignetwork/pkg/ui"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
	noColor    bool
	quiet      bool
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ignetwork",
	Short: "Build and visualize Instagram mention networks",
	Long: `ignetwork turns scraped Instagram posts into a weighted mention network.

It reads a posts table, a list of tracked profiles and optional per-profile
mention exports, then:
  - extracts direct and co-mention edges weighted by engagement
  - consolidates duplicate pairs into one edge per direction
  - detects communities and ranks profiles
  - renders an interactive HTML graph`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor {
			ui.DisableColor()
		}
		if verbose {
			logLevel = "debug"
		}
		if quiet {
			logLevel = "error"
		}

		// Don't show logo for certain commands
		if !quiet && cmd.Name() != "help" && cmd.Name() != "completion" && cmd.Name() != "show" {
			ui.PrintLogo()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is ./.ignetwork.yaml or $HOME/.ignetwork.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress all output except errors")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.SetVersionTemplate(`ignetwork {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
