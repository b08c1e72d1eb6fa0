package amazon

import (
	"context"
	"fmt"
	"strings"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"go-multisite-scraper/internal/config"
	"go-multisite-scraper/internal/extract"
	"go-multisite-scraper/internal/models"
	"go-multisite-scraper/internal/scraper"
)

const (
	listingSelector = `a[href*="/jobs/"]`
	unavailableText = "page you're looking for is not available"
	bodyFallback    = 500
)

type AmazonScraper struct {
	site config.Site
	env  scraper.Env
	log  *zap.Logger
}

func NewAmazonScraper(site config.Site, env scraper.Env) scraper.Scraper {
	log := env.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &AmazonScraper{site: site, env: env, log: log.With(zap.String("site", site.Name))}
}

func (s *AmazonScraper) Name() string {
	return s.site.Name
}

func (s *AmazonScraper) Scrape(ctx context.Context, page playwright.Page) ([]models.Job, error) {
	s.log.Info("📋 Searching Amazon Jobs...", zap.String("url", s.site.URL))
	label := string(s.site.Kind)

	if err := scraper.Navigate(ctx, page, s.site.URL, s.log); err != nil {
		s.env.Shots.CaptureAndLog(page, "amazon-navigation", "🚨 Amazon: listing page did not load")
		return nil, err
	}

	first, err := scraper.Snapshot(page, s.site.URL, label, s.env)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", scraper.ErrSessionUnavailable, err)
	}
	if Unavailable(first) {
		s.log.Warn("⚠️ Amazon page unavailable (404)")
		s.env.Shots.CaptureAndLog(page, "amazon-unavailable", "🚨 Amazon: page not available")
		return nil, nil
	}

	listing := first
	if scraper.WaitForListing(page, listingSelector, s.site, s.log) {
		if listing, err = scraper.Snapshot(page, s.site.URL, label, s.env); err != nil {
			return nil, fmt.Errorf("%w: %v", scraper.ErrSessionUnavailable, err)
		}
	}

	links := ListingLinks(listing, s.site)
	if len(links) == 0 {
		s.env.Shots.CaptureAndLog(page, "amazon-no-links", "🚨 Amazon: zero job links")
		return nil, fmt.Errorf("%w: %s", scraper.ErrNoListings, s.site.Name)
	}
	s.log.Info("🔗 Found Amazon job links", zap.Int("count", len(links)))

	return scraper.Harvest(ctx, page, links, s.site, s.env, Parse), nil
}

// Unavailable reports Amazon's soft 404 page.
func Unavailable(d *scraper.Detail) bool {
	return strings.Contains(strings.ToLower(d.Body()), unavailableText)
}

// ListingLinks returns the job detail links of a search result page.
func ListingLinks(d *scraper.Detail, site config.Site) []string {
	return scraper.CollectLinks(d.Doc(), site.URL, listingSelector, "/jobs/", site.MaxJobs)
}

// Parse extracts one Amazon job page.
func Parse(d *scraper.Detail) models.Job {
	job := models.Job{
		Title:               d.Text(d.Lookup("title", "h1.title", "h1")),
		Location:            d.Text(d.LookupAll("location", "ul.associations li.association-wrapper ul.association-content li", ", ")),
		Posted:              cleanPosted(d.Text(d.Lookup("posted", `span[data-testid="posted-date"]`))),
		MinimumRequirements: d.Text(d.AfterHeading("minimum_requirements", "h2", "Basic Qualifications")),
		GoodToHave:          d.Text(d.AfterHeading("good_to_have", "h2", "Preferred Qualifications")),
	}

	job.Description = d.Text(d.AfterHeading("description", "h2, h3", "Job Description", "Description"))
	if job.Description == "" {
		job.Description = extract.Truncate(d.Body(), bodyFallback)
	}
	return job
}

// cleanPosted turns "Posted: March 3, 2025 (Updated 2 days ago)" into
// "March 3, 2025".
func cleanPosted(text string) string {
	text = strings.Replace(text, "Posted:", "", 1)
	if i := strings.Index(text, "("); i >= 0 {
		text = text[:i]
	}
	return strings.TrimSpace(text)
}
