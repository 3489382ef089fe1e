package model

// JobQuery is a single job-search request. It lives for one pipeline run.
type JobQuery struct {
	JobTitle   string `json:"jobTitle"`
	Location   string `json:"location"`
	Experience string `json:"experience"`
	// GeminiKey is supplied by the caller per request and is never stored.
	GeminiKey string `json:"-"`
}

// MissingField returns the user-facing message for the first required field
// that is empty, or "" when the query is complete. Fields are checked in the
// order title, location, experience, key.
func (q JobQuery) MissingField() string {
	switch {
	case q.JobTitle == "":
		return "Job Title is required"
	case q.Location == "":
		return "Location is required"
	case q.Experience == "":
		return "Experience is required"
	case q.GeminiKey == "":
		return "Gemini key not found"
	}
	return ""
}

// JobListing is one company/recruiter contact pair.
type JobListing struct {
	CompanyName    string `json:"company_name"`
	RecruiterEmail string `json:"recruiter_email"`
}

// ListingSource records which path of the pipeline produced a result.
type ListingSource string

const (
	ListingSourceNone       ListingSource = "none"       // search failed or block unparsable
	ListingSourceNormalizer ListingSource = "normalizer" // fenced JSON from the normalizer
	ListingSourceFallback   ListingSource = "fallback"   // regex over the search text
)
