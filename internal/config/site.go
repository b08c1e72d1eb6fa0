package config

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Kind selects the scraper driver for a site.
type Kind string

const (
	KindAmazon   Kind = "amazon"
	KindPG       Kind = "pg_careers"
	KindLinkedIn Kind = "linkedin"
)

var kindAliases = map[string]Kind{
	"amazon":     KindAmazon,
	"pg_careers": KindPG,
	"pg":         KindPG,
	"linkedin":   KindLinkedIn,
}

// Kinds lists every supported site kind.
func Kinds() []Kind {
	return []Kind{KindAmazon, KindPG, KindLinkedIn}
}

// ParseKind resolves a site kind or one of its aliases.
func ParseKind(s string) (Kind, error) {
	kind, ok := kindAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownSite, s)
	}
	return kind, nil
}

// Limits caps field lengths in characters. Zero takes the site default and
// a negative value leaves the field uncapped.
type Limits struct {
	Title               int `yaml:"title" json:"title"`
	Location            int `yaml:"location" json:"location"`
	Posted              int `yaml:"posted" json:"posted"`
	MinimumRequirements int `yaml:"minimum_requirements" json:"minimum_requirements"`
	GoodToHave          int `yaml:"good_to_have" json:"good_to_have"`
	Description         int `yaml:"description" json:"description"`
}

func (l Limits) orDefault(d Limits) Limits {
	pick := func(v, def int) int {
		if v == 0 {
			return def
		}
		return v
	}
	return Limits{
		Title:               pick(l.Title, d.Title),
		Location:            pick(l.Location, d.Location),
		Posted:              pick(l.Posted, d.Posted),
		MinimumRequirements: pick(l.MinimumRequirements, d.MinimumRequirements),
		GoodToHave:          pick(l.GoodToHave, d.GoodToHave),
		Description:         pick(l.Description, d.Description),
	}
}

// Site is one career site to scrape.
type Site struct {
	Name         string        `yaml:"name" json:"name"`
	Kind         Kind          `yaml:"type" json:"type"`
	URL          string        `yaml:"url" json:"url"`
	Enabled      bool          `yaml:"enabled" json:"enabled"`
	StorageState string        `yaml:"storage_state" json:"storage_state"`
	Company      string        `yaml:"company" json:"company"`
	MaxJobs      int           `yaml:"max_jobs" json:"max_jobs"`
	Timeout      time.Duration `yaml:"timeout" json:"timeout"`
	Limits       Limits        `yaml:"limits" json:"limits"`
}

// UnmarshalYAML treats an omitted enabled flag as true.
func (s *Site) UnmarshalYAML(value *yaml.Node) error {
	type plain Site
	raw := plain{Enabled: true}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	*s = Site(raw)
	return nil
}

type siteDefaults struct {
	name    string
	company string
	maxJobs int
	limits  Limits
}

var defaults = map[Kind]siteDefaults{
	KindAmazon: {
		name:    "Amazon",
		company: "Amazon",
		limits:  Limits{Description: 500},
	},
	KindPG: {
		name:    "P&G Careers",
		company: "Procter & Gamble",
		maxJobs: 15,
		limits: Limits{
			Title:               100,
			Location:            150,
			Posted:              50,
			MinimumRequirements: 300,
			Description:         500,
		},
	},
	KindLinkedIn: {
		name:    "LinkedIn",
		maxJobs: 50,
		limits:  Limits{Description: 1000},
	},
}

// DefaultTimeout bounds the wait for listing content.
const DefaultTimeout = 10 * time.Second

// WithDefaults fills unset fields from the per-kind defaults. Aliased kinds
// are canonicalized; unknown kinds are left for Validate to report.
func (s Site) WithDefaults() Site {
	if kind, err := ParseKind(string(s.Kind)); err == nil {
		s.Kind = kind
	}
	d := defaults[s.Kind]
	if s.Name == "" {
		s.Name = d.name
	}
	if s.Company == "" {
		s.Company = d.company
	}
	if s.MaxJobs == 0 {
		s.MaxJobs = d.maxJobs
	}
	if s.Timeout <= 0 {
		s.Timeout = DefaultTimeout
	}
	s.Limits = s.Limits.orDefault(d.limits)
	return s
}

// Validate checks kind and URL.
func (s Site) Validate() error {
	if _, err := ParseKind(string(s.Kind)); err != nil {
		return fmt.Errorf("%s: %w", s.Name, err)
	}
	if strings.TrimSpace(s.URL) == "" {
		return fmt.Errorf("%s: url is required", s.Name)
	}
	return nil
}

// Source is the label stored in the Source column.
func (s Site) Source() string {
	if d, ok := defaults[s.Kind]; ok {
		return d.name
	}
	return s.Name
}

// DefaultSites is used when no site file exists.
func DefaultSites() []Site {
	return []Site{
		{
			Name:    "Amazon Jobs",
			Kind:    KindAmazon,
			URL:     "https://www.amazon.jobs/en/search?base_query=&loc_query=India&country=IND&employment_type%5B%5D=Full%20Time",
			Enabled: true,
		},
		{
			Name:    "P&G Careers",
			Kind:    KindPG,
			URL:     "https://www.pgcareers.com/global/en/search-results",
			Enabled: true,
		},
		{
			Name:         "LinkedIn Jobs",
			Kind:         KindLinkedIn,
			URL:          "https://www.linkedin.com/jobs/search/?keywords=software%20engineer&location=India",
			Enabled:      true,
			StorageState: DefaultLinkedInState,
		},
	}
}

// Select picks the sites to run. With no request every enabled site runs;
// an explicit request runs every site of the named kinds, enabled or not.
func Select(sites []Site, requested []string) ([]Site, error) {
	var kinds []Kind
	for _, r := range requested {
		if strings.TrimSpace(r) == "" {
			continue
		}
		kind, err := ParseKind(r)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, kind)
	}

	var out []Site
	for _, site := range sites {
		if len(kinds) == 0 {
			if site.Enabled {
				out = append(out, site)
			}
			continue
		}
		for _, k := range kinds {
			if site.Kind == k {
				out = append(out, site)
				break
			}
		}
	}
	return out, nil
}

// SplitList parses a comma separated flag value.
func SplitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
