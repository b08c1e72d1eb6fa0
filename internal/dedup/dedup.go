// Package dedup merges freshly scraped jobs into the previously persisted
// table.
package dedup

import (
	"go-multisite-scraper/internal/models"
	"go-multisite-scraper/internal/schema"
)

// Stats summarizes one merge.
type Stats struct {
	Added      int // fresh IDs that were not stored before
	Updated    int // stored IDs replaced by a fresh record
	Kept       int // stored records carried over untouched
	Duplicates int // repeated IDs collapsed within either input
	Dropped    int // records without any identity
}

// Total is the size of the merged table.
func (s Stats) Total() int {
	return s.Added + s.Updated + s.Kept
}

// Merge unions existing and fresh by job ID. A fresh record fully replaces a
// stored one with the same ID. Output holds fresh records first (first
// occurrence wins), then the surviving stored records in their original
// order. Every output record is re-normalized.
func Merge(existing, fresh []models.Job) ([]models.Job, Stats) {
	var stats Stats

	old := make([]models.Job, 0, len(existing))
	stored := make(map[string]bool, len(existing))
	for _, job := range existing {
		job = schema.Normalize(job)
		if job.ID == "" {
			stats.Dropped++
			continue
		}
		stored[job.ID] = true
		old = append(old, job)
	}

	merged := make([]models.Job, 0, len(old)+len(fresh))
	taken := make(map[string]bool, len(old)+len(fresh))

	for _, job := range fresh {
		job = schema.Normalize(job)
		if job.ID == "" {
			stats.Dropped++
			continue
		}
		if taken[job.ID] {
			stats.Duplicates++
			continue
		}
		taken[job.ID] = true
		if stored[job.ID] {
			stats.Updated++
		} else {
			stats.Added++
		}
		merged = append(merged, job)
	}

	fromFresh := make(map[string]bool, len(taken))
	for id := range taken {
		fromFresh[id] = true
	}

	superseded := make(map[string]bool)
	for _, job := range old {
		if fromFresh[job.ID] {
			if superseded[job.ID] {
				stats.Duplicates++
			}
			superseded[job.ID] = true
			continue
		}
		if taken[job.ID] {
			stats.Duplicates++
			continue
		}
		taken[job.ID] = true
		stats.Kept++
		merged = append(merged, job)
	}

	return merged, stats
}
