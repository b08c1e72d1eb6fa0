package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"go-multisite-scraper/internal/browser"
	"go-multisite-scraper/internal/config"
	"go-multisite-scraper/internal/logger"
	"go-multisite-scraper/internal/scraper/linkedin"
)

func newSaveLinkedInCmd(root *options) *cobra.Command {
	var statePath string

	cmd := &cobra.Command{
		Use:   "save-linkedin",
		Short: "Log in to LinkedIn and save the browser session for later runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return saveLinkedIn(root, statePath)
		},
	}
	cmd.Flags().StringVar(&statePath, "state-path", "", "where to write the session (default linkedin_state from the config)")
	return cmd
}

func saveLinkedIn(opts *options, statePath string) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	user, pass, err := cfg.LinkedInCredentials()
	if err != nil {
		return err
	}
	if statePath == "" {
		statePath = cfg.LinkedInState
	}

	log, err := logger.New(cfg.LogLevel, opts.verbose)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	pm, err := browser.NewPlaywright(browser.Options{Headless: !opts.headful, UserAgent: cfg.UserAgent}, log)
	if err != nil {
		return err
	}
	defer func() { _ = pm.Close() }()

	bctx, err := pm.NewContext(browser.Session{})
	if err != nil {
		return err
	}
	defer func() { _ = bctx.Close() }()

	page, err := bctx.NewPage()
	if err != nil {
		return fmt.Errorf("new page: %w", err)
	}

	log.Info("🔐 Logging in to LinkedIn", zap.String("user", user))
	if err := linkedin.Login(page, user, pass); err != nil {
		return err
	}

	if _, err := bctx.StorageState(statePath); err != nil {
		return fmt.Errorf("save storage state: %w", err)
	}
	log.Info("💾 LinkedIn session saved", zap.String("path", statePath))
	return nil
}
