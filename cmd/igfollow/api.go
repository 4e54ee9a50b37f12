package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"igfollow/pkg/auth"
	"igfollow/pkg/checker"
	"igfollow/pkg/config"
	"igfollow/pkg/instagram"
	"igfollow/pkg/logger"
	"igfollow/pkg/ratelimit"
	"igfollow/pkg/ui"
)

var (
	accountName string
	apiRetries  int
	baseWait    time.Duration
	rateLimit   int
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api <username>",
	Short: "Fetch follow lists live and reconcile them",
	Long: `Fetch the target's follower and following lists from Instagram with a
logged-in session and reconcile them.

Credentials come from stored accounts ('igfollow auth login'), the
configuration file, or IGFOLLOW_SESSION_ID / IGFOLLOW_CSRF_TOKEN.

Rate-limited requests are retried with linearly growing waits. If the
attempt budget runs out, the most recent snapshot from an earlier live
run is used instead and the report is marked stale.`,
	Example: `  # Check your own account
  igfollow api johndoe

  # Use a specific stored account and patient backoff
  igfollow api johndoe --account myaccount --retries 5 --base-wait 90s`,
	Args: cobra.ExactArgs(1),
	Run:  runAPI,
}

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVarP(&accountName, "account", "a", "", "use specific stored account")
	apiCmd.Flags().IntVar(&apiRetries, "retries", 3, "attempts per relation list before giving up")
	apiCmd.Flags().DurationVar(&baseWait, "base-wait", 45*time.Second, "wait after the first rate limit; grows linearly")
	apiCmd.Flags().IntVar(&rateLimit, "rate-limit", 60, "page requests per minute")
}

func runAPI(cmd *cobra.Command, args []string) {
	target := args[0]

	flags := make(map[string]interface{})
	if apiRetries != 3 {
		flags["retries"] = apiRetries
	}
	if baseWait != 45*time.Second {
		flags["base-wait"] = baseWait
	}
	if rateLimit != 60 {
		flags["requests-per-minute"] = rateLimit
	}

	cfg, err := loadConfig(flags)
	exitOnError(err)

	exitOnError(resolveCredentials(cfg))

	log := logger.GetLogger()
	log.WithField("version", version).Info("igfollow starting")

	limiter := ratelimit.NewTokenBucket(cfg.Fetch.RequestsPerMinute, time.Minute)
	client := instagram.NewClient(instagram.Credentials{
		SessionID: cfg.Instagram.SessionID,
		CSRFToken: cfg.Instagram.CSRFToken,
		UserAgent: cfg.Instagram.UserAgent,
	}, cfg.Fetch.RequestTimeout, limiter, log)
	client.SetPageSize(cfg.Fetch.PageSize)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := newStore(cfg)
	c := checker.New(cfg, store, client, log)

	r, err := c.RunAPI(ctx, target)
	exitOnError(err)

	if r.Stale {
		ui.PrintWarning("Live fetching failed; showing the last stored snapshot")
	}
	ui.PrintReport(r)
	if !quiet {
		ui.PrintInfo("Snapshot", store.PathFor(r.Target, r.Source))
	}
}

// resolveCredentials fills cfg.Instagram from the credential chain unless
// the config already carries a session.
func resolveCredentials(cfg *config.Config) error {
	if accountName == "" && cfg.Instagram.SessionID != "" && cfg.Instagram.CSRFToken != "" {
		return nil
	}

	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	var account *auth.Account
	if accountName != "" {
		account, err = manager.Retrieve(accountName)
		if err != nil {
			return fmt.Errorf("account %q not found; run 'igfollow auth list'", accountName)
		}
	} else {
		account, err = manager.RetrieveDefault()
		if err != nil {
			return fmt.Errorf("no Instagram credentials found; run 'igfollow auth login' or set IGFOLLOW_SESSION_ID and IGFOLLOW_CSRF_TOKEN")
		}
	}

	cfg.Instagram.SessionID = account.SessionID
	cfg.Instagram.CSRFToken = account.CSRFToken
	if account.UserAgent != "" {
		cfg.Instagram.UserAgent = account.UserAgent
	}

	if !quiet {
		ui.PrintInfo("Using account", account.Username)
	}
	return nil
}
