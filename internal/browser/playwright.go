package browser

import (
	"errors"
	"fmt"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
)

// Options configures the shared browser of a run.
type Options struct {
	Headless  bool
	UserAgent string
}

// PlaywrightManager owns the playwright driver and the one browser of a run.
// Each site gets its own BrowserContext.
type PlaywrightManager struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	opts    Options
	log     *zap.Logger
}

func NewPlaywright(opts Options, log *zap.Logger) (*PlaywrightManager, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("launch chromium: %w", err)
	}

	log.Info("🌐 Browser launched", zap.Bool("headless", opts.Headless))
	return &PlaywrightManager{pw: pw, browser: browser, opts: opts, log: log}, nil
}

// NewContext opens an isolated browser context, authenticated with the
// session when one was found on disk.
func (pm *PlaywrightManager) NewContext(session Session) (playwright.BrowserContext, error) {
	options := playwright.BrowserNewContextOptions{}
	if pm.opts.UserAgent != "" {
		options.UserAgent = playwright.String(pm.opts.UserAgent)
	}
	if session.StatePath != "" {
		options.StorageStatePath = playwright.String(session.StatePath)
	}

	ctx, err := pm.browser.NewContext(options)
	if err != nil {
		return nil, fmt.Errorf("new browser context: %w", err)
	}

	if len(session.Cookies) > 0 {
		if err := ctx.AddCookies(session.Cookies); err != nil {
			_ = ctx.Close()
			return nil, fmt.Errorf("add cookies: %w", err)
		}
	}
	return ctx, nil
}

// OpenPage opens a context and a page for one site. The returned release
// func closes both and must be called on every path.
func (pm *PlaywrightManager) OpenPage(statePath string) (playwright.Page, func(), error) {
	ctx, err := pm.NewContext(LoadSession(statePath, pm.log))
	if err != nil {
		return nil, func() {}, err
	}

	page, err := ctx.NewPage()
	if err != nil {
		_ = ctx.Close()
		return nil, func() {}, fmt.Errorf("new page: %w", err)
	}

	release := func() {
		if err := ctx.Close(); err != nil {
			pm.log.Debug("close browser context", zap.Error(err))
		}
	}
	return page, release, nil
}

// Close shuts down the browser and the driver.
func (pm *PlaywrightManager) Close() error {
	var errs []error
	if pm.browser != nil {
		if err := pm.browser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close browser: %w", err))
		}
	}
	if pm.pw != nil {
		if err := pm.pw.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("stop playwright: %w", err))
		}
	}
	return errors.Join(errs...)
}
