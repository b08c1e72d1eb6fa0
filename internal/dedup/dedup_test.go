package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-multisite-scraper/internal/models"
	"go-multisite-scraper/internal/schema"
)

func job(link, title string) models.Job {
	return schema.AssignIdentity(models.Job{Link: link, Title: title})
}

func titles(jobs []models.Job) []string {
	out := make([]string, len(jobs))
	for i, j := range jobs {
		out[i] = j.Title
	}
	return out
}

func TestMerge(t *testing.T) {
	tests := []struct {
		name     string
		existing []models.Job
		fresh    []models.Job
		titles   []string
		stats    Stats
	}{
		{
			name:     "New wins and old survivors follow",
			existing: []models.Job{job("https://x.test/1", "A"), job("https://x.test/2", "Old 2")},
			fresh:    []models.Job{job("https://x.test/1", "B")},
			titles:   []string{"B", "Old 2"},
			stats:    Stats{Updated: 1, Kept: 1},
		},
		{
			name:     "Fresh first in scrape order",
			existing: []models.Job{job("https://x.test/9", "Old 9"), job("https://x.test/8", "Old 8")},
			fresh:    []models.Job{job("https://x.test/3", "New 3"), job("https://x.test/4", "New 4")},
			titles:   []string{"New 3", "New 4", "Old 9", "Old 8"},
			stats:    Stats{Added: 2, Kept: 2},
		},
		{
			name:   "Fresh duplicates keep first occurrence",
			fresh:  []models.Job{job("https://x.test/1", "First"), job("https://x.test/1", "Second")},
			titles: []string{"First"},
			stats:  Stats{Added: 1, Duplicates: 1},
		},
		{
			name:     "Stored duplicates collapse",
			existing: []models.Job{job("https://x.test/1", "One"), job("https://x.test/1", "One again"), job("https://x.test/2", "Two")},
			titles:   []string{"One", "Two"},
			stats:    Stats{Kept: 2, Duplicates: 1},
		},
		{
			name:     "Stored duplicates of a superseded record collapse",
			existing: []models.Job{job("https://x.test/1", "One"), job("https://x.test/1", "One again")},
			fresh:    []models.Job{job("https://x.test/1", "Fresh")},
			titles:   []string{"Fresh"},
			stats:    Stats{Updated: 1, Duplicates: 1},
		},
		{
			name:     "Records without identity dropped",
			existing: []models.Job{{Title: "No link"}},
			fresh:    []models.Job{{Title: "Also no link"}, job("https://x.test/5", "Five")},
			titles:   []string{"Five"},
			stats:    Stats{Added: 1, Dropped: 2},
		},
		{
			name:   "Both empty",
			titles: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			merged, stats := Merge(tt.existing, tt.fresh)

			assert.Equal(t, tt.titles, titles(merged))
			assert.Equal(t, tt.stats, stats)
			assert.Equal(t, len(merged), stats.Total())
		})
	}
}

func TestMerge_NewRecordFullyReplacesOld(t *testing.T) {
	old := job("https://x.test/1", "A")
	old.Company = "Old Co"
	old.GoodToHave = "Go"

	fresh := job("https://x.test/1", "B")

	merged, _ := Merge([]models.Job{old}, []models.Job{fresh})
	require.Len(t, merged, 1)
	assert.Equal(t, "B", merged[0].Title)
	assert.Empty(t, merged[0].Company)
	assert.Empty(t, merged[0].GoodToHave)
}

func TestMerge_RenormalizesStoredRows(t *testing.T) {
	// rows read back from an old spreadsheet: no ID column, null artifacts
	stored := []models.Job{
		{Link: "https://x.test/7", Title: "Seven", YearsOfExperience: "nan", EssentialKeywords: "None"},
	}

	merged, stats := Merge(stored, nil)
	require.Len(t, merged, 1)
	assert.Equal(t, schema.JobID("https://x.test/7"), merged[0].ID)
	assert.Empty(t, merged[0].YearsOfExperience)
	assert.Empty(t, merged[0].EssentialKeywords)
	assert.Equal(t, 1, stats.Kept)
}
