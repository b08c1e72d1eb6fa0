package models

import "time"

// SiteResult is the outcome of one site in a run.
type SiteResult struct {
	Site     string
	Kind     string
	Records  int
	Error    string
	Duration time.Duration
}

// Report is the end-of-run summary. It is produced even when sites or
// batches failed.
type Report struct {
	StartedAt  time.Time
	FinishedAt time.Time

	Sites   []SiteResult
	Scraped int

	Merged     int
	Added      int
	Updated    int
	Kept       int
	Duplicates int

	SpreadsheetPath  string
	SpreadsheetRows  int
	SpreadsheetError string

	DBEnabled       bool
	DBAttempted     int
	DBSucceeded     int
	DBFailedBatches int

	// Preview holds the first records of the merged table.
	Preview []Job
}

// Productive reports whether at least one site produced a record.
func (r Report) Productive() bool {
	for _, s := range r.Sites {
		if s.Records > 0 {
			return true
		}
	}
	return false
}
