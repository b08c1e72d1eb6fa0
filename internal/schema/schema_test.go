package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-multisite-scraper/internal/models"
)

func TestJobID(t *testing.T) {
	link := "https://www.amazon.jobs/en/jobs/2801234/software-dev-engineer"

	first := JobID(link)
	second := JobID(link)

	assert.Equal(t, first, second)
	assert.Len(t, first, 40)
	assert.NotEqual(t, first, JobID(link+"/"))
	// sha1("abc")
	assert.Equal(t, "a9993e364706816aba3e25717850c26c9cd0d89d", JobID("abc"))
}

func TestAssignIdentity(t *testing.T) {
	a := AssignIdentity(models.Job{Link: "https://x.test/jobs/1", Title: "A"})
	b := AssignIdentity(models.Job{Link: "https://x.test/jobs/1", Title: "B"})

	assert.Equal(t, a.ID, b.ID)
	assert.Equal(t, "A", a.Title)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		in       models.Job
		expected models.Job
	}{
		{
			name: "Placeholders become empty",
			in: models.Job{
				Link:              "https://x.test/1",
				Title:             "nan",
				Company:           "NaN",
				Location:          "None",
				Posted:            "null",
				GoodToHave:        "<NA>",
				YearsOfExperience: "NaT",
			},
			expected: models.Job{ID: JobID("https://x.test/1"), Link: "https://x.test/1"},
		},
		{
			name:     "Whitespace trimmed",
			in:       models.Job{Link: "  https://x.test/2 ", Title: "  Engineer\n"},
			expected: models.Job{ID: JobID("https://x.test/2"), Link: "https://x.test/2", Title: "Engineer"},
		},
		{
			name:     "Stale ID replaced",
			in:       models.Job{ID: "abc", Link: "https://x.test/3"},
			expected: models.Job{ID: JobID("https://x.test/3"), Link: "https://x.test/3"},
		},
		{
			name:     "ID kept without link",
			in:       models.Job{ID: "abc", Title: "Orphan"},
			expected: models.Job{ID: "abc", Title: "Orphan"},
		},
		{
			name:     "Real words containing placeholders kept",
			in:       models.Job{Link: "https://x.test/4", Title: "Nanotech Engineer", Location: "Nullarbor"},
			expected: models.Job{ID: JobID("https://x.test/4"), Link: "https://x.test/4", Title: "Nanotech Engineer", Location: "Nullarbor"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.in))
		})
	}
}

func TestValuesFollowHeaders(t *testing.T) {
	job := models.Job{
		ID:                  "id",
		Link:                "link",
		Title:               "title",
		Company:             "company",
		Location:            "location",
		Posted:              "posted",
		MinimumRequirements: "min",
		GoodToHave:          "good",
		Description:         "desc",
		YearsOfExperience:   "3+",
		EssentialKeywords:   "Python, AWS",
		Source:              "amazon",
	}

	headers := Headers()
	values := Values(job)
	require.Len(t, values, len(headers))
	require.Len(t, DBColumns(), len(headers))

	assert.Equal(t, "Job ID", headers[0])
	assert.Equal(t, "Source", headers[len(headers)-1])
	assert.Equal(t, []string{"id", "link", "title", "company", "location", "posted", "min", "good", "desc", "3+", "Python, AWS", "amazon"}, values)
	assert.Equal(t, "job_id", DBColumns()[0])
	assert.Equal(t, "job_description", DBColumns()[8])
}

func TestMappingAndFromMapped(t *testing.T) {
	tests := []struct {
		name          string
		header        []string
		row           []string
		expectTitle   string
		expectSource  string
		expectExtra   []string
		expectMissing []string
	}{
		{
			name:        "Full header",
			header:      Headers(),
			row:         []string{"x", "https://x.test/1", "Dev", "Co", "Remote", "today", "", "", "", "", "", "amazon"},
			expectTitle: "Dev", expectSource: "amazon",
		},
		{
			name:          "Old spreadsheet without new columns",
			header:        []string{"Job Link", "Title", "Company", "Location", "Posted", "Minimum Requirements", "Good to Have", "Job Description", "Source"},
			row:           []string{"https://x.test/1", "Dev", "Co", "Remote", "today", "", "", "", "pg_careers"},
			expectTitle:   "Dev",
			expectSource:  "pg_careers",
			expectMissing: []string{"Job ID", "Years of Experience", "Essential Keywords"},
		},
		{
			name:          "Snake case header with extra column",
			header:        []string{"job_link", "TITLE", "salary"},
			row:           []string{"https://x.test/1", "Dev", "100k"},
			expectTitle:   "Dev",
			expectExtra:   []string{"salary"},
			expectMissing: []string{"Job ID", "Company", "Location", "Posted", "Minimum Requirements", "Good to Have", "Job Description", "Years of Experience", "Essential Keywords", "Source"},
		},
		{
			name:          "Short row",
			header:        []string{"Job Link", "Title", "Source"},
			row:           []string{"https://x.test/1"},
			expectMissing: []string{"Job ID", "Company", "Location", "Posted", "Minimum Requirements", "Good to Have", "Job Description", "Years of Experience", "Essential Keywords"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			index, drift := Mapping(tt.header)
			job := FromMapped(index, tt.row)

			assert.Equal(t, JobID("https://x.test/1"), job.ID)
			assert.Equal(t, tt.expectTitle, job.Title)
			assert.Equal(t, tt.expectSource, job.Source)
			assert.Equal(t, tt.expectExtra, drift.Extra)
			assert.Equal(t, tt.expectMissing, drift.Missing)
			assert.Equal(t, len(tt.expectExtra) == 0 && len(tt.expectMissing) == 0, drift.Empty())
		})
	}
}
