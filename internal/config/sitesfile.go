package config

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

// LoadSitesFile reads extra site entries from a JSON, YAML, CSV or XLSX
// file. Tabular files need a header row naming the site fields.
func LoadSitesFile(path string) ([]Site, error) {
	switch strings.ToLower(extension(path)) {
	case ".json":
		return loadJSONSites(path)
	case ".yaml", ".yml":
		return loadYAMLSites(path)
	case ".csv":
		return loadCSVSites(path)
	case ".xlsx":
		return loadXLSXSites(path)
	default:
		return nil, fmt.Errorf("sites file %s: unsupported format", path)
	}
}

func loadJSONSites(path string) ([]Site, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sites file: %w", err)
	}

	var entries []map[string]any
	if err := json.Unmarshal(data, &entries); err != nil {
		// also accept {"sites": [...]}
		var wrapped struct {
			Sites []map[string]any `json:"sites"`
		}
		if err2 := json.Unmarshal(data, &wrapped); err2 != nil {
			return nil, fmt.Errorf("parse sites file: %w", err)
		}
		entries = wrapped.Sites
	}

	sites := make([]Site, 0, len(entries))
	for i, entry := range entries {
		fields := make(map[string]string, len(entry))
		for k, v := range entry {
			if v == nil {
				continue
			}
			fields[k] = fmt.Sprint(v)
		}
		site, err := siteFromFields(fields)
		if err != nil {
			return nil, fmt.Errorf("sites file entry %d: %w", i+1, err)
		}
		sites = append(sites, site)
	}
	return sites, nil
}

func loadYAMLSites(path string) ([]Site, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sites file: %w", err)
	}

	var sites []Site
	if err := yaml.Unmarshal(data, &sites); err != nil {
		var wrapped struct {
			Sites []Site `yaml:"sites"`
		}
		if err2 := yaml.Unmarshal(data, &wrapped); err2 != nil {
			return nil, fmt.Errorf("parse sites file: %w", err)
		}
		sites = wrapped.Sites
	}
	return sites, nil
}

func loadCSVSites(path string) ([]Site, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sites file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse sites file: %w", err)
	}
	return sitesFromRows(rows)
}

func loadXLSXSites(path string) ([]Site, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open sites file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sites sheet: %w", err)
	}
	return sitesFromRows(rows)
}

func sitesFromRows(rows [][]string) ([]Site, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}

	var sites []Site
	for n, row := range rows[1:] {
		fields := make(map[string]string, len(header))
		blank := true
		for i, h := range header {
			if i < len(row) && strings.TrimSpace(row[i]) != "" {
				fields[h] = row[i]
				blank = false
			}
		}
		if blank {
			continue
		}
		site, err := siteFromFields(fields)
		if err != nil {
			return nil, fmt.Errorf("sites file row %d: %w", n+2, err)
		}
		sites = append(sites, site)
	}
	return sites, nil
}

func siteFromFields(fields map[string]string) (Site, error) {
	get := func(key string) string {
		return strings.TrimSpace(fields[key])
	}

	site := Site{
		Name:         get("name"),
		Kind:         Kind(get("type")),
		URL:          get("url"),
		Enabled:      true,
		StorageState: get("storage_state"),
		Company:      get("company"),
	}

	if v := get("enabled"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return Site{}, fmt.Errorf("enabled: %w", err)
		}
		site.Enabled = enabled
	}
	if v := get("max_jobs"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Site{}, fmt.Errorf("max_jobs: %w", err)
		}
		site.MaxJobs = n
	}
	if v := get("timeout"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Site{}, fmt.Errorf("timeout: %w", err)
		}
		site.Timeout = d
	}
	return site, nil
}
