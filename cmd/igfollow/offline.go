package main

import (
	"github.com/spf13/cobra"

	"igfollow/pkg/checker"
	"igfollow/pkg/ui"
)

var (
	followersFile string
	followingFile string
)

// offlineCmd represents the offline command
var offlineCmd = &cobra.Command{
	Use:   "offline <username>",
	Short: "Reconcile follow lists from an Instagram data export",
	Long: `Reconcile follower and following lists from the JSON files of an
Instagram data export (Settings > Your activity > Download your information).

The export typically contains followers_1.json and following.json; any
nesting of the export schema is handled, only the username values matter.`,
	Example: `  # Use files from an unpacked export
  igfollow offline johndoe --followers followers_1.json --following following.json`,
	Args: cobra.ExactArgs(1),
	Run:  runOffline,
}

func init() {
	rootCmd.AddCommand(offlineCmd)

	offlineCmd.Flags().StringVar(&followersFile, "followers", "followers_1.json", "path to the followers export file")
	offlineCmd.Flags().StringVar(&followingFile, "following", "following.json", "path to the following export file")
}

func runOffline(cmd *cobra.Command, args []string) {
	target := args[0]

	cfg, err := loadConfig(nil)
	exitOnError(err)

	store := newStore(cfg)
	c := checker.New(cfg, store, nil, nil)

	r, err := c.RunOffline(target, followersFile, followingFile)
	exitOnError(err)

	ui.PrintReport(r)
	if !quiet {
		ui.PrintInfo("Snapshot", store.PathFor(r.Target, r.Source))
	}
}
