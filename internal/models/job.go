package models

// Job is one scraped posting, normalized to the shared column schema.
// EssentialKeywords holds the comma-joined canonical keyword list.
type Job struct {
	ID                  string `json:"job_id"`
	Link                string `json:"job_link"`
	Title               string `json:"title"`
	Company             string `json:"company"`
	Location            string `json:"location"`
	Posted              string `json:"posted"`
	MinimumRequirements string `json:"minimum_requirements"`
	GoodToHave          string `json:"good_to_have"`
	Description         string `json:"job_description"`
	YearsOfExperience   string `json:"years_of_experience"`
	EssentialKeywords   string `json:"essential_keywords"`
	Source              string `json:"source"`
}
