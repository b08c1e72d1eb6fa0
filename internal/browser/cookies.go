package browser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
)

// Cookie is one entry of a cookie export, as written by browser extensions.
type Cookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path"`
	Expires  float64 `json:"expires"`
	HTTPOnly bool    `json:"httpOnly"`
	Secure   bool    `json:"secure"`
	SameSite string  `json:"sameSite"`
}

// Session is what a browser context is authenticated with. Either a
// playwright storage state file or a plain cookie list; both may be empty.
type Session struct {
	StatePath string
	Cookies   []playwright.OptionalCookie
}

// Empty reports an unauthenticated session.
func (s Session) Empty() bool {
	return s.StatePath == "" && len(s.Cookies) == 0
}

// LoadSession resolves a configured session file. A missing or unreadable
// file is not fatal: the site is scraped unauthenticated.
func LoadSession(path string, log *zap.Logger) Session {
	if path == "" {
		return Session{}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warn("⚠️ Session file not found, continuing unauthenticated", zap.String("path", path))
		} else {
			log.Warn("⚠️ Could not read session file, continuing unauthenticated", zap.String("path", path), zap.Error(err))
		}
		return Session{}
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		cookies, err := ParseCookies(trimmed)
		if err != nil {
			log.Warn("⚠️ Invalid cookie file, continuing unauthenticated", zap.String("path", path), zap.Error(err))
			return Session{}
		}
		log.Info("🍪 Loaded cookies", zap.String("path", path), zap.Int("count", len(cookies)))
		return Session{Cookies: cookies}
	}

	log.Info("🔑 Using storage state", zap.String("path", path))
	return Session{StatePath: path}
}

// ParseCookies converts a JSON cookie export into playwright cookies.
func ParseCookies(data []byte) ([]playwright.OptionalCookie, error) {
	var cookies []Cookie
	if err := json.Unmarshal(data, &cookies); err != nil {
		return nil, fmt.Errorf("parse cookies: %w", err)
	}

	pwCookies := make([]playwright.OptionalCookie, 0, len(cookies))
	for _, c := range cookies {
		if c.Name == "" || c.Domain == "" {
			continue
		}
		pwCookies = append(pwCookies, c.ToPlaywright())
	}
	return pwCookies, nil
}

func (c Cookie) ToPlaywright() playwright.OptionalCookie {
	path := c.Path
	if path == "" {
		path = "/"
	}
	pwCookie := playwright.OptionalCookie{
		Name:   c.Name,
		Value:  c.Value,
		Domain: playwright.String(c.Domain),
		Path:   playwright.String(path),
	}

	if c.Expires > 0 {
		pwCookie.Expires = playwright.Float(c.Expires)
	}
	if c.HTTPOnly {
		pwCookie.HttpOnly = playwright.Bool(true)
	}
	if c.Secure {
		pwCookie.Secure = playwright.Bool(true)
	}

	switch c.SameSite {
	case "Lax", "lax":
		pwCookie.SameSite = playwright.SameSiteAttributeLax
	case "Strict", "strict":
		pwCookie.SameSite = playwright.SameSiteAttributeStrict
	case "None", "no_restriction":
		pwCookie.SameSite = playwright.SameSiteAttributeNone
	}

	return pwCookie
}
