package linkedin

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"go-multisite-scraper/internal/browser"
	"go-multisite-scraper/internal/config"
	"go-multisite-scraper/internal/models"
	"go-multisite-scraper/internal/scraper"
)

const (
	LoginURL        = "https://www.linkedin.com/login"
	resultsSelector = "ul.jobs-search__results-list, .jobs-search-results__list, div.jobs-search-results-list, li.scaffold-layout__list-item"
	linkSelector    = `a[href*="/jobs/view/"]`
	scrollSteps     = 5
)

// Selectors cover the public job page, the legacy logged-in top card and the
// current logged-in layout, in that order of preference.
var (
	titleSelectors = []string{
		"h1.jobs-unified-top-card__job-title",
		"h1.topcard__title",
		".job-details-jobs-unified-top-card__job-title",
		"h1",
	}
	companySelectors = []string{
		"a.jobs-unified-top-card__company-name",
		"a.topcard__org-name-link",
		"span.jobs-unified-top-card__company-name",
		".job-details-jobs-unified-top-card__company-name",
	}
	locationSelectors = []string{
		"span.jobs-unified-top-card__company-location",
		"span.topcard__flavor--bullet",
		"span.jobs-unified-top-card__bullet",
	}
	postedSelectors = []string{
		"span.posted-time-ago__text",
		"span.jobs-unified-top-card__posted-date",
	}
	descriptionSelectors = []string{
		"div.description__text",
		"div.jobs-description-content__text",
		"div.show-more-less-html__markup",
		`[data-testid="expandable-text-box"]`,
		"#job-details",
	}
	primaryDescription = ".job-details-jobs-unified-top-card__primary-description-container"
)

type LinkedInScraper struct {
	site config.Site
	env  scraper.Env
	log  *zap.Logger
}

func NewLinkedInScraper(site config.Site, env scraper.Env) scraper.Scraper {
	log := env.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &LinkedInScraper{site: site, env: env, log: log.With(zap.String("site", site.Name))}
}

func (s *LinkedInScraper) Name() string {
	return s.site.Name
}

func (s *LinkedInScraper) Scrape(ctx context.Context, page playwright.Page) ([]models.Job, error) {
	s.log.Info("💼 Searching LinkedIn Jobs...", zap.String("url", s.site.URL))

	if err := scraper.Navigate(ctx, page, s.site.URL, s.log); err != nil {
		s.env.Shots.CaptureAndLog(page, "linkedin-navigation", "🚨 LinkedIn: search page did not load")
		return nil, err
	}
	if IsAuthWall(page.URL()) {
		s.env.Shots.CaptureAndLog(page, "linkedin-authwall", "🚨 LinkedIn: redirected to sign-in")
		return nil, fmt.Errorf("%w: redirected to %s, refresh the session with save-linkedin", scraper.ErrSessionUnavailable, page.URL())
	}

	scraper.WaitForListing(page, resultsSelector, s.site, s.log)

	//lazy loaded cards only render after scrolling
	if err := browser.HumanScroll(ctx, page, scrollSteps); err != nil {
		s.log.Debug("scroll failed", zap.Error(err))
	}
	if err := browser.MouseJiggle(ctx, page); err != nil {
		s.log.Debug("mouse jiggle failed", zap.Error(err))
	}

	listing, err := scraper.Snapshot(page, s.site.URL, string(s.site.Kind), s.env)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", scraper.ErrSessionUnavailable, err)
	}

	links := ListingLinks(listing, s.site)
	if len(links) == 0 {
		s.env.Shots.CaptureAndLog(page, "linkedin-no-links", "🚨 LinkedIn: zero job links")
		return nil, fmt.Errorf("%w: %s", scraper.ErrNoListings, s.site.Name)
	}
	s.log.Info("🔗 Found LinkedIn job links", zap.Int("count", len(links)))

	return scraper.Harvest(ctx, page, links, s.site, s.env, Parse), nil
}

// IsAuthWall reports whether LinkedIn bounced the browser to a sign-in page.
func IsAuthWall(url string) bool {
	return strings.Contains(url, "/authwall") || strings.Contains(url, "/login") || strings.Contains(url, "/checkpoint/")
}

// ListingLinks returns the job view links of a search page. The job id is in
// the path, so stripping tracking parameters keeps one link per posting.
func ListingLinks(d *scraper.Detail, site config.Site) []string {
	return scraper.CollectLinks(d.Doc(), site.URL, linkSelector, "/jobs/view/", site.MaxJobs)
}

// Parse extracts one LinkedIn job page.
func Parse(d *scraper.Detail) models.Job {
	location := d.Lookup("location", locationSelectors...)
	if location.Err != nil {
		// current layout: "Bengaluru, Karnataka, India · 2 days ago · 100 applicants"
		if primary := d.Lookup("location", primaryDescription); primary.Err == nil {
			location = scraper.Field{Value: strings.TrimSpace(strings.Split(primary.Value, "·")[0])}
		}
	}

	return models.Job{
		Title:       d.Text(d.Lookup("title", titleSelectors...)),
		Company:     d.Text(d.Lookup("company", companySelectors...)),
		Location:    d.Text(location),
		Posted:      d.Text(d.Lookup("posted", postedSelectors...)),
		Description: d.Text(d.Lookup("description", descriptionSelectors...)),
	}
}

// Login signs in on the login form and waits for the post-login redirect to
// settle. The caller saves the resulting storage state.
func Login(page playwright.Page, user, pass string) error {
	if _, err := page.Goto(LoginURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(30000),
	}); err != nil {
		return fmt.Errorf("open login page: %w", err)
	}

	if err := page.Locator(`input[name="session_key"]`).Fill(user); err != nil {
		return fmt.Errorf("fill username: %w", err)
	}
	if err := page.Locator(`input[name="session_password"]`).Fill(pass); err != nil {
		return fmt.Errorf("fill password: %w", err)
	}
	if err := page.Locator(`button[type="submit"]`).Click(); err != nil {
		return fmt.Errorf("submit login: %w", err)
	}

	if err := page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateNetworkidle,
		Timeout: playwright.Float(float64((15 * time.Second).Milliseconds())),
	}); err != nil {
		return fmt.Errorf("wait for login: %w", err)
	}

	if IsAuthWall(page.URL()) {
		return fmt.Errorf("login did not complete, still on %s", page.URL())
	}
	return nil
}
