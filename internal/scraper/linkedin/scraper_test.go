package linkedin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-multisite-scraper/internal/config"
	"go-multisite-scraper/internal/scraper"
)

func detail(t *testing.T, html string) *scraper.Detail {
	t.Helper()
	d, err := scraper.ParseDetail(html, "https://www.linkedin.com/jobs/view/4012345678/", "linkedin", scraper.Env{})
	require.NoError(t, err)
	return d
}

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		title    string
		company  string
		location string
		posted   string
		desc     string
	}{
		{
			name: "Public job page",
			html: `<section class="top-card-layout">
				<h1 class="topcard__title">Backend Engineer</h1>
				<a class="topcard__org-name-link" href="#">Acme Corp</a>
				<span class="topcard__flavor topcard__flavor--bullet">Pune, Maharashtra, India</span>
				<span class="posted-time-ago__text">2 weeks ago</span>
			</section>
			<div class="show-more-less-html__markup">We use Golang and PostgreSQL. 4+ years required.</div>`,
			title: "Backend Engineer", company: "Acme Corp", location: "Pune, Maharashtra, India",
			posted: "2 weeks ago", desc: "We use Golang and PostgreSQL. 4+ years required.",
		},
		{
			name: "Logged in layout",
			html: `<div class="job-details-jobs-unified-top-card__job-title"><h1>Platform Engineer</h1></div>
				<div class="job-details-jobs-unified-top-card__company-name"><a>Globex</a></div>
				<div class="job-details-jobs-unified-top-card__primary-description-container">Bengaluru, Karnataka, India · 3 days ago · 87 applicants</div>
				<div id="job-details">Terraform and AWS experience.</div>`,
			title: "Platform Engineer", company: "Globex", location: "Bengaluru, Karnataka, India",
			desc: "Terraform and AWS experience.",
		},
		{
			name: "Empty page",
			html: `<html><body></body></html>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := Parse(detail(t, tt.html))

			assert.Equal(t, tt.title, job.Title)
			assert.Equal(t, tt.company, job.Company)
			assert.Equal(t, tt.location, job.Location)
			assert.Equal(t, tt.posted, job.Posted)
			assert.Equal(t, tt.desc, job.Description)
			assert.Empty(t, job.MinimumRequirements)
			assert.Empty(t, job.GoodToHave)
		})
	}
}

func TestFinishedRecordLimits(t *testing.T) {
	site := config.Site{Name: "LinkedIn Jobs", Kind: config.KindLinkedIn}.WithDefaults()
	long := make([]byte, 1500)
	for i := range long {
		long[i] = 'a'
	}

	html := `<h1>SRE</h1><div class="description__text">` + string(long) + `</div>`
	job := scraper.Finish(Parse(detail(t, html)), "https://www.linkedin.com/jobs/view/1/", site)

	assert.Len(t, job.Description, 1000)
	assert.Equal(t, "LinkedIn", job.Source)
	assert.Empty(t, job.Company)
}

func TestListingLinks(t *testing.T) {
	site := config.Site{Kind: config.KindLinkedIn, URL: "https://www.linkedin.com/jobs/search/?keywords=golang"}.WithDefaults()
	html := `<ul class="jobs-search__results-list">
		<li><a class="base-card__full-link" href="https://in.linkedin.com/jobs/view/backend-engineer-at-acme-4012345678?refId=a&trackingId=b">x</a></li>
		<li><a class="base-card__full-link" href="https://in.linkedin.com/jobs/view/backend-engineer-at-acme-4012345678?refId=c">dup</a></li>
		<li><a href="/jobs/view/4099999999/?eBP=x">y</a></li>
		<li><a href="/jobs/search/?keywords=go&start=25">next</a></li>
	</ul>`

	links := ListingLinks(detail(t, html), site)
	assert.Equal(t, []string{
		"https://in.linkedin.com/jobs/view/backend-engineer-at-acme-4012345678",
		"https://www.linkedin.com/jobs/view/4099999999/",
	}, links)
}

func TestIsAuthWall(t *testing.T) {
	assert.True(t, IsAuthWall("https://www.linkedin.com/authwall?trk=x"))
	assert.True(t, IsAuthWall("https://www.linkedin.com/login?session_redirect=x"))
	assert.True(t, IsAuthWall("https://www.linkedin.com/checkpoint/challenge/abc"))
	assert.False(t, IsAuthWall("https://www.linkedin.com/jobs/search/?keywords=go"))
}
