package extraction

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DefaultLinkSelector selects the link-like elements searched for an identifier
const DefaultLinkSelector = "a"

// Row is a results table row matched for an identifier
type Row struct {
	// Text is the row text with cells separated by tabs, like innerText.
	Text string
}

// RowLocator finds the results table row that mentions an identifier
type RowLocator struct {
	LinkSelector string
}

// NewRowLocator creates a row locator searching the given link selector
func NewRowLocator(linkSelector string) *RowLocator {
	if linkSelector == "" {
		linkSelector = DefaultLinkSelector
	}
	return &RowLocator{
		LinkSelector: linkSelector,
	}
}

// FindRow parses the results table markup and returns the row enclosing the
// first link whose text contains identifier. The match is a case-insensitive
// substring match, so "12" also matches a link reading "112".
func (l *RowLocator) FindRow(tableHTML, identifier string) (Row, bool, error) {
	needle := normalizeText(identifier)
	if needle == "" {
		return Row{}, false, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(tableHTML))
	if err != nil {
		return Row{}, false, err
	}

	link := doc.Find(l.LinkSelector).FilterFunction(func(i int, s *goquery.Selection) bool {
		return strings.Contains(normalizeText(s.Text()), needle)
	}).First()
	if link.Length() == 0 {
		return Row{}, false, nil
	}

	tr := link.Closest("tr")
	if tr.Length() == 0 {
		return Row{}, false, nil
	}

	return Row{Text: rowText(tr)}, true, nil
}

func rowText(tr *goquery.Selection) string {
	cells := tr.ChildrenFiltered("td, th")
	if cells.Length() == 0 {
		return strings.TrimSpace(tr.Text())
	}

	parts := make([]string, 0, cells.Length())
	cells.Each(func(i int, s *goquery.Selection) {
		parts = append(parts, strings.TrimSpace(s.Text()))
	})
	return strings.Join(parts, "\t")
}

func normalizeText(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
