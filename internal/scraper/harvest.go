package scraper

import (
	"context"
	"strings"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"go-multisite-scraper/internal/config"
	"go-multisite-scraper/internal/extract"
	"go-multisite-scraper/internal/models"
	"go-multisite-scraper/internal/schema"
)

// DetailPage is what Harvest needs from the browser tab.
type DetailPage interface {
	Navigator
	Snapshotter
}

// ParseFunc extracts the site specific fields of one detail page.
type ParseFunc func(d *Detail) models.Job

// Harvest visits every link and turns each page into a finished record. A
// page that fails to load is skipped; the rest of the list still runs.
func Harvest(ctx context.Context, page DetailPage, links []string, site config.Site, env Env, parse ParseFunc) []models.Job {
	log := env.logger().With(zap.String("site", site.Name))
	label := string(site.Kind)

	var jobs []models.Job
	for i, link := range links {
		if ctx.Err() != nil {
			log.Warn("⏹️ Stopping early", zap.Error(ctx.Err()), zap.Int("visited", i))
			break
		}
		log.Info("🔎 Processing job", zap.Int("n", i+1), zap.Int("of", len(links)), zap.String("link", link))

		if err := OpenDetail(page, link); err != nil {
			log.Warn("⚠️ Skipping job page", zap.Error(err))
			env.Metrics.IncDetailFailure(label)
			continue
		}
		detail, err := Snapshot(page, link, label, env)
		if err != nil {
			log.Warn("⚠️ Skipping job page", zap.String("link", link), zap.Error(err))
			env.Metrics.IncDetailFailure(label)
			continue
		}

		job := Finish(parse(detail), link, site)
		if job.Title == "" {
			log.Warn("⚠️ Job has no title", zap.String("link", link))
		}
		jobs = append(jobs, job)
	}
	return jobs
}

// Finish stamps link, source and fallbacks on a parsed record, derives the
// enriched columns and applies the site's length caps.
func Finish(job models.Job, link string, site config.Site) models.Job {
	job.Link = link
	job.Source = site.Source()
	if job.Company == "" {
		job.Company = site.Company
	}
	job = Enrich(job)
	job = ApplyLimits(job, site.Limits)
	return schema.AssignIdentity(job)
}

// Enrich derives years of experience and keywords from the full, untruncated
// text. Requirements are searched before the description.
func Enrich(job models.Job) models.Job {
	text := strings.Join([]string{job.MinimumRequirements, job.GoodToHave, job.Description}, "\n")
	job.YearsOfExperience = extract.YearsOfExperience(text)

	keywords := extract.EssentialKeywords(strings.Join([]string{job.Title, text}, "\n"))
	job.EssentialKeywords = extract.JoinKeywords(keywords)
	return job
}

// ApplyLimits truncates each capped field.
func ApplyLimits(job models.Job, l config.Limits) models.Job {
	job.Title = extract.Truncate(job.Title, l.Title)
	job.Location = extract.Truncate(job.Location, l.Location)
	job.Posted = extract.Truncate(job.Posted, l.Posted)
	job.MinimumRequirements = extract.Truncate(job.MinimumRequirements, l.MinimumRequirements)
	job.GoodToHave = extract.Truncate(job.GoodToHave, l.GoodToHave)
	job.Description = extract.Truncate(job.Description, l.Description)
	return job
}

// WaitForListing waits for the listing selector. Missing content is not an
// error by itself: the snapshot that follows decides.
func WaitForListing(page playwright.Page, selector string, site config.Site, log *zap.Logger) bool {
	_, err := page.WaitForSelector(selector, playwright.PageWaitForSelectorOptions{
		Timeout: playwright.Float(float64(site.Timeout.Milliseconds())),
	})
	if err != nil {
		log.Warn("⚠️ Listing content not visible", zap.String("site", site.Name), zap.String("selector", selector), zap.Error(err))
		return false
	}
	return true
}
