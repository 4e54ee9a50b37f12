package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"igfollow/pkg/checker"
	"igfollow/pkg/config"
	"igfollow/pkg/logger"
	"igfollow/pkg/snapshot"
	"igfollow/pkg/ui"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile  string
	logLevel    string
	snapshotDir string
	quiet       bool
)

// Exit codes: 0 on a usable report, 2 when no result could be produced from
// any source, 1 for everything unexpected.
const (
	exitOK       = 0
	exitError    = 1
	exitNoResult = 2
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "igfollow",
	Short: "Find out who doesn't follow you back on Instagram",
	Long: `igfollow compares an Instagram account's followers against the accounts
it follows and reports both directions of asymmetry: who doesn't follow
you back, and whose follow you haven't returned.

Relation lists can come from three sources:
  - offline: the JSON files of an Instagram data export
  - paste:   follower/following lists pasted as plain text
  - api:     fetched live with a logged-in session

Every successful acquisition is stored as a snapshot, so a later live run
that keeps hitting rate limits can still answer from the last good data.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitError)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is $HOME/.igfollow.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&snapshotDir, "snapshot-dir", "", "directory for snapshot files (default: data)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress all output except errors")

	rootCmd.SetVersionTemplate(`igfollow {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// loadConfig builds the effective configuration from defaults, the config
// file, environment, and command-line flags, then initializes logging.
func loadConfig(extraFlags map[string]interface{}) (*config.Config, error) {
	flags := make(map[string]interface{})
	if snapshotDir != "" {
		flags["snapshot-dir"] = snapshotDir
	}
	if logLevel != "info" {
		flags["log-level"] = logLevel
	}
	if quiet {
		flags["log-level"] = "error"
	}
	for k, v := range extraFlags {
		flags[k] = v
	}

	cfg, err := config.Load(configFile, flags)
	if err != nil {
		return nil, err
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newStore(cfg *config.Config) *snapshot.Store {
	return snapshot.NewStore(cfg.Snapshot.Directory)
}

// exitOnError prints the failure and terminates with the matching exit
// code.
func exitOnError(err error) {
	if err == nil {
		return
	}

	switch {
	case errors.Is(err, checker.ErrNoUsableResult):
		ui.PrintError("No usable result", "live fetching failed and no snapshot exists")
		os.Exit(exitNoResult)
	case errors.Is(err, os.ErrNotExist):
		ui.PrintError("Input not found", err.Error())
		os.Exit(exitNoResult)
	default:
		ui.PrintError("Run failed", err.Error())
		os.Exit(exitError)
	}
}
