package main

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"igfollow/pkg/checker"
	"igfollow/pkg/ui"
)

// listSeparator divides the two pasted lists on stdin.
const listSeparator = "--"

var (
	pasteFollowersFile string
	pasteFollowingFile string
)

// pasteCmd represents the paste command
var pasteCmd = &cobra.Command{
	Use:   "paste <username>",
	Short: "Reconcile follow lists pasted as plain text",
	Long: `Reconcile follower and following lists pasted as plain text on stdin.

Paste the followers first, then a line containing only "--", then the
following list, and end with Ctrl-D. Usernames may be separated by
newlines, commas, semicolons, or spaces; @ prefixes and profile URLs are
understood.`,
	Example: `  # Interactive paste
  igfollow paste johndoe

  # Read prepared text files instead of stdin
  igfollow paste johndoe --followers-file followers.txt --following-file following.txt`,
	Args: cobra.ExactArgs(1),
	Run:  runPaste,
}

func init() {
	rootCmd.AddCommand(pasteCmd)

	pasteCmd.Flags().StringVar(&pasteFollowersFile, "followers-file", "", "read the followers list from a text file")
	pasteCmd.Flags().StringVar(&pasteFollowingFile, "following-file", "", "read the following list from a text file")
}

func runPaste(cmd *cobra.Command, args []string) {
	target := args[0]

	cfg, err := loadConfig(nil)
	exitOnError(err)

	var followersText, followingText string
	if pasteFollowersFile != "" || pasteFollowingFile != "" {
		if pasteFollowersFile == "" || pasteFollowingFile == "" {
			exitOnError(errors.New("--followers-file and --following-file must be given together"))
		}
		followersText, followingText, err = readListFiles(pasteFollowersFile, pasteFollowingFile)
		exitOnError(err)
	} else {
		if !quiet {
			ui.PrintInfo("Paste followers, then a line with \"--\", then following", "end with Ctrl-D")
		}
		followersText, followingText, err = readPastedLists(os.Stdin)
		exitOnError(err)
	}

	store := newStore(cfg)
	c := checker.New(cfg, store, nil, nil)

	r, err := c.RunPaste(target, followersText, followingText)
	exitOnError(err)

	ui.PrintReport(r)
	if !quiet {
		ui.PrintInfo("Snapshot", store.PathFor(r.Target, r.Source))
	}
}

func readListFiles(followersPath, followingPath string) (string, string, error) {
	followers, err := os.ReadFile(followersPath)
	if err != nil {
		return "", "", err
	}
	following, err := os.ReadFile(followingPath)
	if err != nil {
		return "", "", err
	}
	return string(followers), string(following), nil
}

// readPastedLists splits the input into the text before and after the
// separator line.
func readPastedLists(r io.Reader) (string, string, error) {
	var followers, following strings.Builder
	current := &followers
	sawSeparator := false

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == listSeparator && !sawSeparator {
			sawSeparator = true
			current = &following
			continue
		}
		current.WriteString(line)
		current.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		return "", "", err
	}

	if !sawSeparator {
		return "", "", errors.New(`input is missing the "--" separator between the two lists`)
	}

	return followers.String(), following.String(), nil
}
