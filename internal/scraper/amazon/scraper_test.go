package amazon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-multisite-scraper/internal/config"
	"go-multisite-scraper/internal/scraper"
)

const jobPage = `<html><body>
<div class="details-line">
  <h1 class="title">Software Dev Engineer II, AWS Lambda</h1>
  <ul class="associations">
    <li class="association-wrapper"><ul class="association-content">
      <li>IND, KA, Bengaluru</li>
      <li>IND, TS, Hyderabad</li>
    </ul></li>
  </ul>
  <span data-testid="posted-date">Posted: March 3, 2025 (Updated 5 days ago)</span>
</div>
<div class="section">
  <h2>Description</h2>
  <p>Build serverless compute used by millions. You will work with Java and Kubernetes.</p>
  <h2>Basic Qualifications</h2>
  <p>- 3+ years of non-internship professional software development experience</p>
  <h2>Preferred Qualifications</h2>
  <p>- Experience with distributed systems on AWS</p>
</div>
</body></html>`

func detail(t *testing.T, html string) *scraper.Detail {
	t.Helper()
	d, err := scraper.ParseDetail(html, "https://www.amazon.jobs/en/jobs/1", "amazon", scraper.Env{})
	require.NoError(t, err)
	return d
}

func TestParse(t *testing.T) {
	job := Parse(detail(t, jobPage))

	assert.Equal(t, "Software Dev Engineer II, AWS Lambda", job.Title)
	assert.Equal(t, "IND, KA, Bengaluru, IND, TS, Hyderabad", job.Location)
	assert.Equal(t, "March 3, 2025", job.Posted)
	assert.Equal(t, "- 3+ years of non-internship professional software development experience", job.MinimumRequirements)
	assert.Equal(t, "- Experience with distributed systems on AWS", job.GoodToHave)
	assert.Equal(t, "Build serverless compute used by millions. You will work with Java and Kubernetes.", job.Description)
}

func TestParse_MissingSections(t *testing.T) {
	job := Parse(detail(t, `<html><body>
<h1>Area Manager</h1>
<div>Lead a team of associates at the fulfillment center.</div>
</body></html>`))

	assert.Equal(t, "Area Manager", job.Title)
	assert.Empty(t, job.Location)
	assert.Empty(t, job.Posted)
	assert.Empty(t, job.MinimumRequirements)
	assert.Equal(t, "Area Manager Lead a team of associates at the fulfillment center.", job.Description)
}

func TestFinishedRecord(t *testing.T) {
	site := config.Site{Name: "Amazon Jobs", Kind: config.KindAmazon}.WithDefaults()

	job := scraper.Finish(Parse(detail(t, jobPage)), "https://www.amazon.jobs/en/jobs/1", site)

	assert.Equal(t, "Amazon", job.Source)
	assert.Equal(t, "Amazon", job.Company)
	assert.Equal(t, "3+", job.YearsOfExperience)
	assert.Equal(t, "Java, AWS, Kubernetes", job.EssentialKeywords)
	assert.Len(t, job.ID, 40)
}

func TestUnavailable(t *testing.T) {
	assert.True(t, Unavailable(detail(t, `<body><p>Sorry, the page you're looking for is not available.</p></body>`)))
	assert.False(t, Unavailable(detail(t, jobPage)))
}

func TestListingLinks(t *testing.T) {
	site := config.Site{
		Kind: config.KindAmazon,
		URL:  "https://www.amazon.jobs/en/search?base_query=&loc_query=India",
	}
	listing := `<html><body>
		<a href="/en/jobs/2801234/software-dev-engineer?cmpid=x">SDE</a>
		<a href="/en/jobs/2801234/software-dev-engineer">SDE duplicate</a>
		<a href="/en/jobs/2805555/data-engineer">DE</a>
		<a href="/en/search?offset=10">Next</a>
	</body></html>`

	links := ListingLinks(detail(t, listing), site)
	assert.Equal(t, []string{
		"https://www.amazon.jobs/en/jobs/2801234/software-dev-engineer",
		"https://www.amazon.jobs/en/jobs/2805555/data-engineer",
	}, links)

	site.MaxJobs = 1
	assert.Len(t, ListingLinks(detail(t, listing), site), 1)
}

func TestCleanPosted(t *testing.T) {
	assert.Equal(t, "March 3, 2025", cleanPosted("Posted: March 3, 2025 (Updated 5 days ago)"))
	assert.Equal(t, "", cleanPosted(""))
	assert.Equal(t, "Today", cleanPosted("Today"))
}
