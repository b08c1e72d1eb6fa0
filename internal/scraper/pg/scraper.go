package pg

import (
	"context"
	"fmt"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"go-multisite-scraper/internal/config"
	"go-multisite-scraper/internal/extract"
	"go-multisite-scraper/internal/models"
	"go-multisite-scraper/internal/scraper"
)

const (
	listingSelector = `a[href*="/job/"]`
	bodyFallback    = 500
)

type PGScraper struct {
	site config.Site
	env  scraper.Env
	log  *zap.Logger
}

func NewPGScraper(site config.Site, env scraper.Env) scraper.Scraper {
	log := env.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &PGScraper{site: site, env: env, log: log.With(zap.String("site", site.Name))}
}

func (s *PGScraper) Name() string {
	return s.site.Name
}

func (s *PGScraper) Scrape(ctx context.Context, page playwright.Page) ([]models.Job, error) {
	s.log.Info("📋 Searching P&G Careers...", zap.String("url", s.site.URL))

	if err := scraper.Navigate(ctx, page, s.site.URL, s.log); err != nil {
		s.env.Shots.CaptureAndLog(page, "pg-navigation", "🚨 P&G: listing page did not load")
		return nil, err
	}
	scraper.WaitForListing(page, listingSelector, s.site, s.log)

	listing, err := scraper.Snapshot(page, s.site.URL, string(s.site.Kind), s.env)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", scraper.ErrSessionUnavailable, err)
	}

	links := ListingLinks(listing, s.site)
	if len(links) == 0 {
		s.env.Shots.CaptureAndLog(page, "pg-no-links", "🚨 P&G: zero job links")
		return nil, fmt.Errorf("%w: %s", scraper.ErrNoListings, s.site.Name)
	}
	s.log.Info("🔗 Found P&G job links", zap.Int("count", len(links)))

	return scraper.Harvest(ctx, page, links, s.site, s.env, Parse), nil
}

// ListingLinks returns the distinct job links of the search page, capped by
// the site's job limit.
func ListingLinks(d *scraper.Detail, site config.Site) []string {
	return scraper.CollectLinks(d.Doc(), site.URL, listingSelector, "/job/", site.MaxJobs)
}

// Parse extracts one P&G job page. The pages are loosely structured, so most
// fields are found through class name fragments.
func Parse(d *scraper.Detail) models.Job {
	body := extract.Truncate(d.Body(), bodyFallback)

	job := models.Job{
		Title:    d.Text(d.Lookup("title", "h1", `[class*="title"]`)),
		Location: d.Text(d.Lookup("location", `[class*="location"]`)),
		Posted:   d.Text(d.Lookup("posted", `[class*="posted"], [class*="date"]`)),
	}

	job.MinimumRequirements = d.Text(scraper.Or(
		d.Lookup("minimum_requirements", `[class*="requirement"], [class*="qualification"]`),
		scraper.Field{Value: body},
	))

	job.Description = d.Text(d.AfterHeading("description", "h2, h3", "Job Description", "Description"))
	if job.Description == "" {
		job.Description = body
	}
	return job
}
