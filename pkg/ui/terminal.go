package ui

import (
	"fmt"
	"io"
	"os"

	"igfollow/pkg/report"
)

// Color functions for terminal output
var (
	Cyan    = colorize("\033[36m%s\033[0m")
	Yellow  = colorize("\033[33m%s\033[0m")
	Red     = colorize("\033[31m%s\033[0m")
	Green   = colorize("\033[32m%s\033[0m")
	Magenta = colorize("\033[35m%s\033[0m")
	Dim     = colorize("\033[2m%s\033[0m")
)

// colorize returns a function that wraps text with ANSI color codes
func colorize(colorString string) func(string) string {
	return func(text string) string {
		return fmt.Sprintf(colorString, text)
	}
}

// PrintError prints an error message in red
func PrintError(msg string, args ...interface{}) {
	if len(args) > 0 {
		fmt.Println(Red(msg + ": " + fmt.Sprintf("%v", args[0])))
	} else {
		fmt.Println(Red(msg))
	}
}

// PrintSuccess prints a success message in green
func PrintSuccess(msg string) {
	fmt.Println(Green(msg))
}

// PrintInfo prints an info message in cyan
func PrintInfo(label string, value string) {
	fmt.Printf("%s: %s\n", Cyan(label), Yellow(value))
}

// PrintWarning prints a warning message in yellow
func PrintWarning(msg string, args ...interface{}) {
	if len(args) > 0 {
		fmt.Println(Yellow(msg + ": " + fmt.Sprintf("%v", args[0])))
	} else {
		fmt.Println(Yellow(msg))
	}
}

// PrintReport renders a reconciliation report to stdout.
func PrintReport(r report.Report) {
	RenderReport(os.Stdout, r)
}

// RenderReport writes the report to w.
func RenderReport(w io.Writer, r report.Report) {
	fmt.Fprintf(w, "%s %s\n", Cyan("Target:"), Yellow("@"+r.Target))
	fmt.Fprintf(w, "%s %s", Cyan("Source:"), string(r.Source))
	if r.Stale {
		fmt.Fprintf(w, " %s", Yellow(fmt.Sprintf("(stale, from %s)", r.GeneratedAt.Format("2006-01-02 15:04 MST"))))
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s %d followers, %d following, %d mutual\n\n",
		Cyan("Counts:"), r.FollowerCount, r.FolloweeCount, r.Mutual())

	renderList(w, Red(fmt.Sprintf("Not following you back (%d):", len(r.NotFollowingBack))), r.NotFollowingBack)
	renderList(w, Magenta(fmt.Sprintf("You don't follow back (%d):", len(r.FansNotFollowedBack))), r.FansNotFollowedBack)

	if len(r.NotFollowingBack) == 0 && len(r.FansNotFollowedBack) == 0 {
		fmt.Fprintln(w, Green("Everything is mutual."))
	}
}

func renderList(w io.Writer, header string, usernames []string) {
	if len(usernames) == 0 {
		return
	}
	fmt.Fprintln(w, header)
	for _, u := range usernames {
		fmt.Fprintf(w, "  %s\n", u)
	}
	fmt.Fprintln(w)
}
