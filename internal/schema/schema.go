// Package schema owns the fixed column layout shared by the spreadsheet and
// the database, and the identity of a job record.
package schema

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"

	"go-multisite-scraper/internal/models"
)

// column is one position in the output schema.
type column struct {
	Key    string // snake_case name, also the database column
	Header string // spreadsheet header
	field  func(*models.Job) *string
}

var columns = []column{
	{"job_id", "Job ID", func(j *models.Job) *string { return &j.ID }},
	{"job_link", "Job Link", func(j *models.Job) *string { return &j.Link }},
	{"title", "Title", func(j *models.Job) *string { return &j.Title }},
	{"company", "Company", func(j *models.Job) *string { return &j.Company }},
	{"location", "Location", func(j *models.Job) *string { return &j.Location }},
	{"posted", "Posted", func(j *models.Job) *string { return &j.Posted }},
	{"minimum_requirements", "Minimum Requirements", func(j *models.Job) *string { return &j.MinimumRequirements }},
	{"good_to_have", "Good to Have", func(j *models.Job) *string { return &j.GoodToHave }},
	{"job_description", "Job Description", func(j *models.Job) *string { return &j.Description }},
	{"years_of_experience", "Years of Experience", func(j *models.Job) *string { return &j.YearsOfExperience }},
	{"essential_keywords", "Essential Keywords", func(j *models.Job) *string { return &j.EssentialKeywords }},
	{"source", "Source", func(j *models.Job) *string { return &j.Source }},
}

// Headers returns the spreadsheet header row.
func Headers() []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = c.Header
	}
	return out
}

// DBColumns returns the snake_case column names, in order.
func DBColumns() []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = c.Key
	}
	return out
}

// Values returns the job's fields in column order.
func Values(job models.Job) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = *c.field(&job)
	}
	return out
}

// JobID derives the stable identifier of a posting from its link.
func JobID(link string) string {
	sum := sha1.Sum([]byte(link))
	return hex.EncodeToString(sum[:])
}

// AssignIdentity sets the job ID from the link.
func AssignIdentity(job models.Job) models.Job {
	job.ID = JobID(job.Link)
	return job
}

// placeholders are the null-like values older spreadsheets carry for empty
// cells.
var placeholders = map[string]bool{
	"nan":  true,
	"none": true,
	"null": true,
	"<na>": true,
	"nat":  true,
}

func isPlaceholder(v string) bool {
	return placeholders[strings.ToLower(v)]
}

// Normalize trims every field, blanks null-like placeholders and backfills
// the ID from the link when it is missing or stale.
func Normalize(job models.Job) models.Job {
	for _, c := range columns {
		p := c.field(&job)
		v := strings.TrimSpace(*p)
		if isPlaceholder(v) {
			v = ""
		}
		*p = v
	}
	if job.Link != "" {
		job.ID = JobID(job.Link)
	}
	return job
}

// Drift describes how a stored header deviates from the current schema.
type Drift struct {
	Extra   []string
	Missing []string
}

// Empty reports whether the header matched the schema exactly.
func (d Drift) Empty() bool {
	return len(d.Extra) == 0 && len(d.Missing) == 0
}

// Mapping resolves a stored header row against the schema. The returned
// slice holds, per column, the index into the stored row (-1 if absent).
func Mapping(header []string) ([]int, Drift) {
	lookup := make(map[string]int, len(columns)*2)
	for i, c := range columns {
		lookup[strings.ToLower(c.Header)] = i
		lookup[c.Key] = i
	}

	index := make([]int, len(columns))
	for i := range index {
		index[i] = -1
	}

	var drift Drift
	for pos, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		if name == "" {
			continue
		}
		col, ok := lookup[name]
		if !ok {
			drift.Extra = append(drift.Extra, h)
			continue
		}
		if index[col] == -1 {
			index[col] = pos
		}
	}
	for i, c := range columns {
		if index[i] == -1 {
			drift.Missing = append(drift.Missing, c.Header)
		}
	}
	return index, drift
}

// FromMapped builds a normalized job from a stored row using a mapping from
// Mapping. Short rows are treated as empty trailing cells.
func FromMapped(index []int, row []string) models.Job {
	var job models.Job
	for i, c := range columns {
		pos := index[i]
		if pos < 0 || pos >= len(row) {
			continue
		}
		*c.field(&job) = row[pos]
	}
	return Normalize(job)
}
