package domain

import "regexp"

// Domain contains core models and interfaces.

// NewsItem is one normalized announcement collected from a source site.
type NewsItem struct {
	Source string `json:"source"`
	Title  string `json:"title"`
	Date   string `json:"date"`
	Link   string `json:"link"`
}

// DateLayout is the calendar date format carried by NewsItem.Date.
const DateLayout = "2006-01-02"

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// HasDate reports whether the item carries a YYYY-MM-DD date.
func (n NewsItem) HasDate() bool {
	return datePattern.MatchString(n.Date)
}
