package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
)

var unsafeName = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// ScreenShotDebugger handles debug screenshots. A nil debugger captures
// nothing.
type ScreenShotDebugger struct {
	outputDir string
	log       *zap.Logger
	now       func() time.Time
}

func NewScreenShotDebugger(dir string, log *zap.Logger) *ScreenShotDebugger {
	if dir == "" {
		dir = filepath.Join(".", "logs", "screenshots")
	}
	return &ScreenShotDebugger{
		outputDir: dir,
		log:       log,
		now:       time.Now,
	}
}

// Path builds the file name for a capture.
func (s *ScreenShotDebugger) Path(name string) string {
	name = strings.Trim(unsafeName.ReplaceAllString(strings.ToLower(name), "-"), "-")
	if name == "" {
		name = "page"
	}
	timestamp := s.now().Format("2006-01-02_15-04-05")
	return filepath.Join(s.outputDir, fmt.Sprintf("%s_%s.png", name, timestamp))
}

func (s *ScreenShotDebugger) CaptureAndLog(page playwright.Page, name, message string) error {
	if s == nil || page == nil {
		return nil
	}
	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		s.log.Warn("⚠️ Failed to create screenshot directory", zap.Error(err))
		return err
	}

	path := s.Path(name)
	s.log.Info("📸 "+message, zap.String("name", name))

	_, err := page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	if err != nil {
		s.log.Warn("⚠️ Failed to capture screenshot", zap.Error(err))
		return err
	}

	s.log.Info("   Screenshot saved", zap.String("path", path))
	return nil
}
