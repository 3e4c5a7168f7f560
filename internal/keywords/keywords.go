package keywords

import (
	"strings"
)

// MoneyKeywords mark funding and support announcements. The generic
// municipal engine keeps only titles that contain one of them.
var MoneyKeywords = []string{"보도", "자료", "공고", "지원", "사업", "모집", "선정", "예산", "투자", "육성", "혜택", "보조금"}

// TourismKeywords are emphasised on the tourism dashboard and in its digest.
var TourismKeywords = []string{"여행", "참여", "숙박", "호텔", "할인", "이벤트", "축제", "패키지", "쿠폰"}

// Filter classifies titles by plain substring membership.
type Filter struct {
	keywords []string
	folded   []string
}

// New builds a filter over the given keywords. Blank entries are dropped.
func New(keywords ...string) *Filter {
	f := &Filter{}
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		f.keywords = append(f.keywords, kw)
		f.folded = append(f.folded, strings.ToLower(kw))
	}
	return f
}

// Keywords returns a copy of the active keyword list.
func (f *Filter) Keywords() []string {
	if f == nil {
		return nil
	}
	out := make([]string, len(f.keywords))
	copy(out, f.keywords)
	return out
}

// IsRelevant reports whether title contains any keyword.
func (f *Filter) IsRelevant(title string) bool {
	if f == nil {
		return false
	}
	lower := strings.ToLower(title)
	for _, kw := range f.folded {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// Matches returns the keywords found in title, in list order.
func (f *Filter) Matches(title string) []string {
	if f == nil {
		return nil
	}
	lower := strings.ToLower(title)
	var out []string
	for i, kw := range f.folded {
		if strings.Contains(lower, kw) {
			out = append(out, f.keywords[i])
		}
	}
	return out
}

// Highlight wraps every keyword occurrence in title using wrap. Text outside
// the matches is passed through escape, so HTML callers can escape safely.
// Overlapping keywords resolve to the earliest, longest match.
func (f *Filter) Highlight(title string, escape, wrap func(string) string) string {
	if escape == nil {
		escape = func(s string) string { return s }
	}
	if f == nil || wrap == nil || len(f.keywords) == 0 {
		return escape(title)
	}

	lower := strings.ToLower(title)
	if len(lower) != len(title) {
		lower = title
	}
	var b strings.Builder
	pos := 0
	for pos < len(title) {
		start, end := f.nextMatch(lower, pos)
		if start < 0 {
			break
		}
		b.WriteString(escape(title[pos:start]))
		b.WriteString(wrap(escape(title[start:end])))
		pos = end
	}
	b.WriteString(escape(title[pos:]))
	return b.String()
}

// nextMatch finds the earliest keyword occurrence at or after from.
func (f *Filter) nextMatch(lower string, from int) (int, int) {
	bestStart, bestEnd := -1, -1
	for _, kw := range f.folded {
		idx := strings.Index(lower[from:], kw)
		if idx < 0 {
			continue
		}
		start := from + idx
		end := start + len(kw)
		if bestStart < 0 || start < bestStart || (start == bestStart && end > bestEnd) {
			bestStart, bestEnd = start, end
		}
	}
	return bestStart, bestEnd
}
