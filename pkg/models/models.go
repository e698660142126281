package models

// Status is the outcome classification of a single identifier check
type Status string

const (
	StatusOK       Status = "OK"
	StatusFail     Status = "FAIL"
	StatusNotFound Status = "NOT_FOUND"
	StatusError    Status = "ERROR"
)

// Statuses lists every status in report legend order
var Statuses = []Status{StatusOK, StatusFail, StatusNotFound, StatusError}

// VerificationResult represents the outcome of checking one identifier
type VerificationResult struct {
	Identifier     string `json:"id"`
	URL            string `json:"url"`
	RawDateText    string `json:"created,omitempty"`
	Year           *int   `json:"year"`
	ExpectedYear   int    `json:"expected_year"`
	Status         Status `json:"status"`
	Comment        string `json:"comment,omitempty"`
	ScreenshotPath string `json:"screenshot,omitempty"`
}

// HasYear reports whether a year was recognized in the row
func (r VerificationResult) HasYear() bool {
	return r.Year != nil
}

// Summary counts results per status
type Summary map[Status]int

// Summarize counts results per status
func Summarize(results []VerificationResult) Summary {
	s := Summary{}
	for _, r := range results {
		s[r.Status]++
	}
	return s
}
