// Package pipeline runs one scrape: sites in order, merge with the previous
// spreadsheet, then persistence and the run report.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"go-multisite-scraper/internal/config"
	"go-multisite-scraper/internal/database"
	"go-multisite-scraper/internal/dedup"
	"go-multisite-scraper/internal/models"
	"go-multisite-scraper/internal/scraper"
)

// PreviewSize is the number of merged records shown in the report.
const PreviewSize = 5

// PageOpener hands out one fresh browser session per site.
type PageOpener interface {
	OpenPage(statePath string) (playwright.Page, func(), error)
}

type Sheet interface {
	Read(path string) ([]models.Job, error)
	Write(path string, jobs []models.Job) error
}

type Upserter interface {
	UpsertJobs(ctx context.Context, jobs []models.Job, scrapedAt time.Time) database.Summary
}

type Notifier interface {
	SendReport(r models.Report) error
}

// Runner wires the collaborators of a run. DB and Notifier are optional.
type Runner struct {
	Opener   PageOpener
	Drivers  scraper.Registry
	Env      scraper.Env
	Sheet    Sheet
	DB       Upserter
	Notifier Notifier
	Now      func() time.Time
}

func (r *Runner) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

func (r *Runner) logger() *zap.Logger {
	if r.Env.Log == nil {
		return zap.NewNop()
	}
	return r.Env.Log
}

// Run scrapes every site, merges the result into the spreadsheet at output
// and syncs the database. Failures are folded into the report; Run never
// aborts halfway.
func (r *Runner) Run(ctx context.Context, sites []config.Site, output string) models.Report {
	log := r.logger()
	report := models.Report{StartedAt: r.now(), SpreadsheetPath: output}

	var fresh []models.Job
	for _, site := range sites {
		if ctx.Err() != nil {
			log.Warn("⏹️ Run cancelled, skipping remaining sites", zap.String("site", site.Name))
			break
		}

		log.Info("▶️ Starting scraper", zap.String("site", site.Name), zap.String("kind", string(site.Kind)))
		start := r.now()
		jobs, err := r.scrapeSite(ctx, site)
		elapsed := r.now().Sub(start)
		r.Env.Metrics.ObserveSiteDuration(site.Name, elapsed.Seconds())

		result := models.SiteResult{Site: site.Name, Kind: string(site.Kind), Records: len(jobs), Duration: elapsed}
		if err != nil {
			result.Error = err.Error()
			r.Env.Metrics.IncSiteFailure(site.Name, scraper.FailureReason(err))
			log.Warn("❌ Scraper failed", zap.String("site", site.Name), zap.Error(err))
		} else {
			log.Info("✅ Scraper finished", zap.String("site", site.Name), zap.Int("jobs", len(jobs)), zap.Duration("elapsed", elapsed))
		}
		r.Env.Metrics.AddJobsScraped(site.Name, len(jobs))

		report.Sites = append(report.Sites, result)
		report.Scraped += len(jobs)
		fresh = append(fresh, jobs...)
	}
	log.Info("📦 Total jobs collected", zap.Int("jobs", len(fresh)))

	merged := r.persistSheet(output, fresh, &report)
	r.syncDatabase(ctx, merged, &report)

	if len(merged) > PreviewSize {
		report.Preview = merged[:PreviewSize]
	} else {
		report.Preview = merged
	}
	report.FinishedAt = r.now()
	r.Env.Metrics.MarkRunFinished(report.FinishedAt.Unix())

	if r.Notifier != nil {
		if err := r.Notifier.SendReport(report); err != nil {
			log.Warn("⚠️ Failed to send report to Telegram", zap.Error(err))
		}
	}

	log.Info("🏁 Execution finished",
		zap.Int("merged", report.Merged),
		zap.Int("added", report.Added),
		zap.Int("updated", report.Updated),
		zap.Int("kept", report.Kept),
	)
	return report
}

// scrapeSite runs one driver inside its own browser session. The session is
// released on every path.
func (r *Runner) scrapeSite(ctx context.Context, site config.Site) ([]models.Job, error) {
	driver, err := r.Drivers.New(site, r.Env)
	if err != nil {
		return nil, err
	}

	page, release, err := r.Opener.OpenPage(site.StorageState)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", scraper.ErrSessionUnavailable, err)
	}
	defer release()

	return driver.Scrape(ctx, page)
}

// persistSheet merges fresh records with the existing spreadsheet and writes
// the result. An existing file that cannot be read is left untouched.
func (r *Runner) persistSheet(output string, fresh []models.Job, report *models.Report) []models.Job {
	log := r.logger()

	existing, err := r.Sheet.Read(output)
	if err != nil {
		log.Warn("⚠️ Existing spreadsheet unreadable, it will not be overwritten", zap.String("path", output), zap.Error(err))
		report.SpreadsheetError = err.Error()
		merged, stats := dedup.Merge(nil, fresh)
		r.recordMerge(merged, stats, report)
		return merged
	}

	merged, stats := dedup.Merge(existing, fresh)
	r.recordMerge(merged, stats, report)
	log.Info("🔍 Merge finished",
		zap.Int("existing", len(existing)),
		zap.Int("fresh", len(fresh)),
		zap.Int("merged", len(merged)),
		zap.Int("duplicates", stats.Duplicates),
		zap.Int("dropped", stats.Dropped),
	)

	if err := r.Sheet.Write(output, merged); err != nil {
		log.Error("❌ Failed to write spreadsheet", zap.String("path", output), zap.Error(err))
		report.SpreadsheetError = err.Error()
		return merged
	}
	report.SpreadsheetRows = len(merged)
	r.Env.Metrics.SetSpreadsheetRows(len(merged))
	log.Info("📁 Results saved", zap.String("path", output), zap.Int("rows", len(merged)))
	return merged
}

func (r *Runner) recordMerge(merged []models.Job, stats dedup.Stats, report *models.Report) {
	report.Merged = len(merged)
	report.Added = stats.Added
	report.Updated = stats.Updated
	report.Kept = stats.Kept
	report.Duplicates = stats.Duplicates
	r.Env.Metrics.SetMerged(stats.Added, stats.Updated, stats.Kept)
}

func (r *Runner) syncDatabase(ctx context.Context, jobs []models.Job, report *models.Report) {
	if r.DB == nil {
		r.logger().Info("ℹ️ DATABASE_URL not set, skipping database sync")
		return
	}
	report.DBEnabled = true
	if len(jobs) == 0 {
		return
	}

	summary := r.DB.UpsertJobs(ctx, jobs, report.StartedAt)
	report.DBAttempted = summary.Attempted
	report.DBSucceeded = summary.Succeeded
	report.DBFailedBatches = summary.FailedBatches
}
