package scraper

import (
	"context"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
)

const (
	listingTimeout = 20 * time.Second
	detailTimeout  = 15 * time.Second
)

// Navigator is the part of playwright.Page used to move between pages.
type Navigator interface {
	Goto(url string, options ...playwright.PageGotoOptions) (playwright.Response, error)
}

// Snapshotter is the part of playwright.Page used to read the current DOM.
type Snapshotter interface {
	Content() (string, error)
}

// Navigate loads a listing page. It waits for network idle first and falls
// back to DOMContentLoaded, which is enough for most server-rendered lists.
func Navigate(ctx context.Context, page Navigator, url string, log *zap.Logger) error {
	var errs []error
	for _, state := range []*playwright.WaitUntilState{
		playwright.WaitUntilStateNetworkidle,
		playwright.WaitUntilStateDomcontentloaded,
	} {
		if err := ctx.Err(); err != nil {
			return err
		}
		_, err := page.Goto(url, playwright.PageGotoOptions{
			WaitUntil: state,
			Timeout:   playwright.Float(float64(listingTimeout.Milliseconds())),
		})
		if err == nil {
			return nil
		}
		log.Warn("⚠️ Navigation attempt failed",
			zap.String("url", url),
			zap.String("wait_until", string(*state)),
			zap.Error(err),
		)
		errs = append(errs, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrSessionUnavailable, url, errs)
}

// OpenDetail loads one job page.
func OpenDetail(page Navigator, url string) error {
	_, err := page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(float64(detailTimeout.Milliseconds())),
	})
	if err != nil {
		return fmt.Errorf("open %s: %w", url, err)
	}
	return nil
}

// Snapshot parses the current page.
func Snapshot(page Snapshotter, link, site string, env Env) (*Detail, error) {
	html, err := page.Content()
	if err != nil {
		return nil, fmt.Errorf("read page content: %w", err)
	}
	return ParseDetail(html, link, site, env)
}
