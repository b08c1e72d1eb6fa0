package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"go-multisite-scraper/internal/browser"
	"go-multisite-scraper/internal/config"
	"go-multisite-scraper/internal/database"
	"go-multisite-scraper/internal/logger"
	"go-multisite-scraper/internal/metrics"
	"go-multisite-scraper/internal/pipeline"
	"go-multisite-scraper/internal/scraper"
	"go-multisite-scraper/internal/scraper/amazon"
	"go-multisite-scraper/internal/scraper/linkedin"
	"go-multisite-scraper/internal/scraper/pg"
	"go-multisite-scraper/internal/sheet"
	"go-multisite-scraper/internal/telegram"
	"go-multisite-scraper/utils"
)

// errNoRecords gives a non-zero exit when no site produced a record. The
// report has already been printed, so main does not repeat it.
var errNoRecords = errors.New("no site produced any job records")

var drivers = scraper.Registry{
	config.KindAmazon:   amazon.NewAmazonScraper,
	config.KindPG:       pg.NewPGScraper,
	config.KindLinkedIn: linkedin.NewLinkedInScraper,
}

type errorSender interface {
	SendError(err error) error
}

type options struct {
	configPath string
	sites      string
	sitesFile  string
	output     string
	headful    bool
	requireDB  bool
	verbose    bool
	keywords   bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "scraper",
		Short:         "Scrape Amazon, P&G Careers and LinkedIn job postings into one spreadsheet",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.keywords {
				printCatalogue(cmd.OutOrStdout())
				return nil
			}
			return runScrape(cmd, opts)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", config.DefaultConfigPath, "YAML site configuration")
	cmd.PersistentFlags().BoolVar(&opts.headful, "headful", false, "show the browser window")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging, including field-level extraction failures")

	cmd.Flags().StringVar(&opts.sites, "sites", "", "comma separated site kinds (amazon, pg_careers, linkedin); default every enabled site")
	cmd.Flags().StringVar(&opts.sitesFile, "sites-file", "", "extra sites from a JSON, YAML, CSV or XLSX file")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output workbook (.xlsx)")
	cmd.Flags().BoolVar(&opts.requireDB, "require-db", false, "fail unless DATABASE_URL is set")
	cmd.Flags().BoolVar(&opts.keywords, "list-keywords", false, "print the keyword catalogue and exit")

	cmd.AddCommand(newSaveLinkedInCmd(opts))
	return cmd
}

// resolve loads the configuration and applies the flags. Every error here
// is a configuration error raised before any browser starts.
func resolve(opts *options) (*config.Config, []config.Site, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, nil, err
	}

	if opts.sitesFile != "" {
		extra, err := config.LoadSitesFile(opts.sitesFile)
		if err != nil {
			return nil, nil, err
		}
		if err := cfg.AddSites(extra); err != nil {
			return nil, nil, err
		}
	}

	if opts.output != "" {
		if err := config.ValidateOutput(opts.output); err != nil {
			return nil, nil, err
		}
		cfg.OutputPath = opts.output
	}

	if opts.requireDB {
		if err := cfg.RequireDatabase(); err != nil {
			return nil, nil, err
		}
	}

	sites, err := config.Select(cfg.Sites, config.SplitList(opts.sites))
	if err != nil {
		return nil, nil, err
	}
	if len(sites) == 0 {
		return nil, nil, fmt.Errorf("%w: no site selected", config.ErrUnknownSite)
	}
	return cfg, sites, nil
}

func runScrape(cmd *cobra.Command, opts *options) error {
	cfg, sites, err := resolve(opts)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.LogLevel, opts.verbose)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("🚀 Starting multi-site scraper", zap.Int("sites", len(sites)), zap.String("output", cfg.OutputPath))

	m := metrics.NewMetrics()
	runner := &pipeline.Runner{
		Drivers: drivers,
		Env: scraper.Env{
			Log:     log,
			Metrics: m,
			Shots:   utils.NewScreenShotDebugger(cfg.ScreenshotDir, log),
		},
	}

	repo, err := connectDatabase(ctx, cfg, opts.requireDB, log, m)
	if err != nil {
		return err
	}
	if repo != nil {
		defer repo.Close()
		runner.DB = repo
	}

	var bot *telegram.Bot
	if cfg.TelegramEnabled() {
		bot, err = telegram.NewBot(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Warn("⚠️ Telegram disabled", zap.Error(err))
			bot = nil
		} else {
			log.Info("🤖 Telegram Bot initialized.")
			runner.Notifier = bot
		}
	}

	pm, err := browser.NewPlaywright(browser.Options{Headless: !opts.headful, UserAgent: cfg.UserAgent}, log)
	if err != nil {
		if bot != nil {
			notifyFailure(bot, err, log)
		}
		return err
	}
	defer func() {
		if err := pm.Close(); err != nil {
			log.Warn("⚠️ Failed to close browser", zap.Error(err))
		}
	}()
	runner.Opener = pm
	runner.Sheet = sheet.New(log)

	report := runner.Run(ctx, sites, cfg.OutputPath)
	printReport(cmd.OutOrStdout(), report)

	if cfg.PushgatewayURL != "" {
		if err := m.Push(cfg.PushgatewayURL); err != nil {
			log.Warn("⚠️ Failed to push metrics", zap.Error(err))
		}
	}

	if !report.Productive() {
		return errNoRecords
	}
	return nil
}

// notifyFailure reports a run that could not start.
func notifyFailure(bot errorSender, err error, log *zap.Logger) {
	if sendErr := bot.SendError(err); sendErr != nil {
		log.Warn("⚠️ Failed to send error to Telegram", zap.Error(sendErr))
	}
}

// connectDatabase returns nil when no database is configured. A failed
// connection is fatal only under --require-db.
func connectDatabase(ctx context.Context, cfg *config.Config, required bool, log *zap.Logger, m *metrics.Metrics) (*database.Repository, error) {
	if cfg.DatabaseURL == "" {
		return nil, nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	repo, err := database.ConnectDB(connectCtx, cfg.DatabaseURL, log, m)
	if err == nil {
		err = repo.EnsureSchema(connectCtx)
		if err != nil {
			repo.Close()
		}
	}
	if err != nil {
		if required {
			return nil, err
		}
		log.Warn("⚠️ Database unavailable, continuing with the spreadsheet only", zap.Error(err))
		return nil, nil
	}
	return repo, nil
}
