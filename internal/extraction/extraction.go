package extraction

import (
	"regexp"
	"strings"
	"time"
)

// DatePattern matches a DD.MM.YYYY HH:MM:SS token
var DatePattern = regexp.MustCompile(`\d{2}\.\d{2}\.\d{4}\s+\d{2}:\d{2}:\d{2}`)

const dateLayout = "02.01.2006 15:04:05"

// ExtractedDate is the date token found in a row and its year, if it parsed
type ExtractedDate struct {
	RawText string
	Year    *int
}

// HasYear reports whether the token parsed into a calendar date
func (d ExtractedDate) HasYear() bool {
	return d.Year != nil
}

// ExtractYear finds the first date token in text and resolves its year.
// Later tokens are ignored. A token that matches the pattern but is not a
// real date (31.02.2025) yields the raw text with no year.
func ExtractYear(text string) ExtractedDate {
	raw := DatePattern.FindString(strings.TrimSpace(text))
	if raw == "" {
		return ExtractedDate{}
	}

	// the pattern allows any whitespace run between date and time
	normalized := strings.Join(strings.Fields(raw), " ")
	t, err := time.Parse(dateLayout, normalized)
	if err != nil {
		return ExtractedDate{RawText: raw}
	}

	year := t.Year()
	return ExtractedDate{RawText: raw, Year: &year}
}
