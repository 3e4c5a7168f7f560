package crawler

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// boardRows selects rows inside a matched board container.
const boardRows = "tbody tr, tr, li, .item, .list_item, .post-item"

// Strategy locates candidate rows on an arbitrary board page.
type Strategy struct {
	Name string
	// Container is matched first; empty means the whole document.
	Container string
	// FirstOnly restricts the search to the first matching container.
	FirstOnly bool
	Rows      string
}

// Find returns the rows this strategy matches in doc.
func (s Strategy) Find(doc *goquery.Document) *goquery.Selection {
	if strings.TrimSpace(s.Container) == "" {
		return doc.Find(s.Rows)
	}
	containers := doc.Find(s.Container)
	if s.FirstOnly {
		containers = containers.First()
	}
	return containers.Find(s.Rows)
}

// tablePatterns are common Korean board layouts, most specific first.
var tablePatterns = []string{
	"table.board-list",
	"table.list_table",
	"table.bbs_list",
	"table.tbl_board",
	"table.tstyle_list",
	".board_list table",
	"table[summary*='게시판']",
	"table.table",
	".board_list",
	".list_type",
	".news_list",
	".bbsList",
	".boardList",
	".list_item",
}

// DefaultStrategies returns the scan cascade: every board pattern, then the
// main content area, then any row on the page.
func DefaultStrategies() []Strategy {
	out := make([]Strategy, 0, len(tablePatterns)+2)
	for _, p := range tablePatterns {
		out = append(out, Strategy{Name: p, Container: p, Rows: boardRows})
	}
	return append(out,
		Strategy{Name: "content-area", Container: "#contents, #content, .content, main", FirstOnly: true, Rows: "tr, li, div[class*='item']"},
		Strategy{Name: "page", Rows: "tr, li"},
	)
}

// CandidateRows evaluates strategies in order and returns the rows of the
// first one that matches anything, with its name.
func CandidateRows(doc *goquery.Document, strategies []Strategy) (*goquery.Selection, string) {
	for _, s := range strategies {
		if rows := s.Find(doc); rows.Length() > 0 {
			return rows, s.Name
		}
	}
	return doc.Selection.Slice(0, 0), ""
}
