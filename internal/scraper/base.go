// Define an interface for all scrapers
// Ensure consistency

package scraper

import (
	"context"
	"errors"
	"fmt"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"go-multisite-scraper/internal/config"
	"go-multisite-scraper/internal/metrics"
	"go-multisite-scraper/internal/models"
	"go-multisite-scraper/utils"
)

var (
	// ErrSessionUnavailable means the listing page could not be loaded.
	ErrSessionUnavailable = errors.New("browser session unavailable")
	// ErrNoListings means the listing page loaded but held no job links.
	ErrNoListings = errors.New("no job listings found")
)

// Scraper defines the interface that all site drivers must implement
type Scraper interface {
	// Scrape jobs from the site the driver was built for
	Scrape(ctx context.Context, page playwright.Page) ([]models.Job, error)

	// Name is the site name (Amazon Jobs, P&G Careers, ...)
	Name() string
}

// Env carries the shared collaborators handed to every driver.
type Env struct {
	Log     *zap.Logger
	Metrics *metrics.Metrics
	Shots   *utils.ScreenShotDebugger
}

func (e Env) logger() *zap.Logger {
	if e.Log == nil {
		return zap.NewNop()
	}
	return e.Log
}

// Factory builds the driver for one configured site.
type Factory func(site config.Site, env Env) Scraper

// Registry maps a site kind to its driver.
type Registry map[config.Kind]Factory

// New builds the driver for site.
func (r Registry) New(site config.Site, env Env) (Scraper, error) {
	factory, ok := r[site.Kind]
	if !ok {
		return nil, fmt.Errorf("%w: no driver for %q", config.ErrUnknownSite, site.Kind)
	}
	return factory(site, env), nil
}

// FailureReason labels a site-level error for logs and metrics.
func FailureReason(err error) string {
	switch {
	case errors.Is(err, ErrSessionUnavailable):
		return "session_unavailable"
	case errors.Is(err, ErrNoListings):
		return "no_listings"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "cancelled"
	default:
		return "error"
	}
}
