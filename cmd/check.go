/*
Copyright © 2025 Katie Mulliken <katie@mulliken.net>
*/

// The check command runs one check cycle without starting the daemon.
//
// Features:
//   - Check a single section by its ID, or sweep all watched sections.
//   - Limit the number of sections checked in sweep mode.
//   - Override the per-page fetch timeout.
//   - Fetch through a real browser for JS-heavy portal pages.
//
// Example usage:
//
//	portalwatch check
//	portalwatch check --id=6f1c... --timeout=30s
//	portalwatch check --limit=5 --rendered --chrome-path=/usr/bin/chromium
package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/seckatie/portalwatch/internal/core"
	"github.com/spf13/cobra"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check watched sections for new content",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runCheck(cmd); err != nil {
			log.Fatalf("Check failed: %v", err)
		}
	},
}

// runCheck is the main function for the check command.
func runCheck(cmd *cobra.Command) error {
	database, err := initDB(cmd)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		if err := database.Close(); err != nil {
			log.Printf("failed to close database: %v", err)
		}
	}()

	cfg, err := initConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	id, err := cmd.Flags().GetString("id")
	if err != nil {
		return fmt.Errorf("failed to read --id: %w", err)
	}
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return fmt.Errorf("failed to read --limit: %w", err)
	}

	fetchOpts := cfg.FetchOptions()
	if cmd.Flags().Changed("timeout") {
		timeout, err := cmd.Flags().GetDuration("timeout")
		if err != nil {
			return fmt.Errorf("failed to read --timeout: %w", err)
		}
		fetchOpts.Timeout = timeout
	}
	if cmd.Flags().Changed("rendered") {
		rendered, err := cmd.Flags().GetBool("rendered")
		if err != nil {
			return fmt.Errorf("failed to read --rendered: %w", err)
		}
		fetchOpts.Rendered = rendered
	}
	if chromePath, err := cmd.Flags().GetString("chrome-path"); err == nil && chromePath != "" {
		fetchOpts.ChromePath = chromePath
	}
	if waitSelector, err := cmd.Flags().GetString("wait-selector"); err == nil && waitSelector != "" {
		fetchOpts.WaitSelector = waitSelector
	}

	res, err := core.RunCheck(context.Background(), database, core.CheckRunOptions{
		ID:    id,
		Limit: limit,
		Fetch: fetchOpts,
	})
	if err != nil {
		return err
	}
	if res.Failed > 0 {
		return fmt.Errorf("check finished with %d failure(s)", res.Failed)
	}

	log.Printf("Check finished successfully: %d checked, %d with new content.", res.Checked, res.Changed)
	return nil
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().String("id", "", "Check a specific section id")
	checkCmd.Flags().Int("limit", 0, "Limit the number of sections to check (0 = all)")
	checkCmd.Flags().Duration("timeout", 20*time.Second, "Per-section fetch timeout")
	checkCmd.Flags().Bool("rendered", false, "Fetch pages through a real browser")
	checkCmd.Flags().String("chrome-path", "", "Path to Chrome/Chromium executable")
	checkCmd.Flags().String("wait-selector", "", "Optional CSS selector to wait for (useful for JS-heavy pages)")
}
