// Load envs from .env
// Load YAML site config
// Validate config
// Provide default values

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownSite       = errors.New("unknown site")
	ErrInvalidOutput     = errors.New("invalid output path")
	ErrMissingCredential = errors.New("missing credential")
)

const (
	DefaultConfigPath    = "configs/sites.yaml"
	DefaultOutputPath    = "multi_site_jobs.xlsx"
	DefaultLinkedInState = "linkedin_state.json"
	DefaultScreenshotDir = "screenshots"
	DefaultUserAgent     = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

type Config struct {
	Sites         []Site `yaml:"sites"`
	OutputPath    string `yaml:"output"`
	LinkedInState string `yaml:"linkedin_state"`
	ScreenshotDir string `yaml:"screenshot_dir"`
	UserAgent     string `yaml:"user_agent"`

	//Secrets only come from the environment
	DatabaseURL    string `yaml:"-"`
	LinkedInUser   string `yaml:"-"`
	LinkedInPass   string `yaml:"-"`
	TelegramToken  string `yaml:"-"`
	TelegramChatID int64  `yaml:"-"`
	PushgatewayURL string `yaml:"-"`
	LogLevel       string `yaml:"log_level"`
}

// Load reads .env, the YAML site file at path and the environment. A missing
// site file falls back to the built-in sites.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
		cfg.Sites = DefaultSites()
	default:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("LINKEDIN_USER"); v != "" {
		c.LinkedInUser = v
	}
	if v := os.Getenv("LINKEDIN_PASS"); v != "" {
		c.LinkedInPass = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.TelegramToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
		c.TelegramChatID = id
	}
	if v := os.Getenv("PUSHGATEWAY_URL"); v != "" {
		c.PushgatewayURL = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.OutputPath == "" {
		c.OutputPath = DefaultOutputPath
	}
	if c.LinkedInState == "" {
		c.LinkedInState = DefaultLinkedInState
	}
	if c.ScreenshotDir == "" {
		c.ScreenshotDir = DefaultScreenshotDir
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	for i := range c.Sites {
		c.Sites[i] = c.Sites[i].WithDefaults()
	}
}

// Validate checks every site entry. It is the only configuration check that
// runs before any browser starts.
func (c *Config) Validate() error {
	for i, site := range c.Sites {
		if err := site.Validate(); err != nil {
			return fmt.Errorf("site #%d: %w", i+1, err)
		}
	}
	return ValidateOutput(c.OutputPath)
}

// AddSites appends extra entries, e.g. from a sites file, with defaults.
func (c *Config) AddSites(sites []Site) error {
	for i, site := range sites {
		site = site.WithDefaults()
		if err := site.Validate(); err != nil {
			return fmt.Errorf("extra site #%d: %w", i+1, err)
		}
		c.Sites = append(c.Sites, site)
	}
	return nil
}

// ValidateOutput rejects output paths that are not .xlsx workbooks.
func ValidateOutput(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("%w: empty", ErrInvalidOutput)
	}
	if !strings.EqualFold(extension(path), ".xlsx") {
		return fmt.Errorf("%w: %q must end with .xlsx", ErrInvalidOutput, path)
	}
	return nil
}

// LinkedInCredentials returns the login used by the session helper.
func (c *Config) LinkedInCredentials() (string, string, error) {
	if c.LinkedInUser == "" || c.LinkedInPass == "" {
		return "", "", fmt.Errorf("%w: LINKEDIN_USER and LINKEDIN_PASS are required", ErrMissingCredential)
	}
	return c.LinkedInUser, c.LinkedInPass, nil
}

// RequireDatabase fails when database sync is mandatory but unconfigured.
func (c *Config) RequireDatabase() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("%w: DATABASE_URL is required", ErrMissingCredential)
	}
	return nil
}

// TelegramEnabled reports whether run summaries can be sent.
func (c *Config) TelegramEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != 0
}

func extension(path string) string {
	i := strings.LastIndex(path, ".")
	if i < 0 || strings.ContainsAny(path[i:], `/\`) {
		return ""
	}
	return path[i:]
}
