package report

import (
	"fmt"
	"io"
	"strings"
	"time"
)

const ruleLine = "============================================================"

// TimestampLayout formats generation times in reports.
const TimestampLayout = "2006-01-02 15:04:05"

// WriteText renders d as the plain-text digest.
func WriteText(w io.Writer, d Digest, loc *time.Location) error {
	if loc == nil {
		loc = time.Local
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📅 수집 일시: %s\n", d.GeneratedAt.In(loc).Format(TimestampLayout))
	if len(d.Keywords) > 0 {
		fmt.Fprintf(&b, "🔍 필터 키워드: %s\n", strings.Join(d.Keywords, ", "))
	}
	b.WriteString(ruleLine + "\n")

	if d.Total == 0 {
		b.WriteString("\n수집된 소식이 없습니다.\n")
	}
	for _, g := range d.Groups {
		if len(g.Items) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n📌 %s (%d건)\n", g.Source, len(g.Items))
		for _, it := range g.Items {
			if it.Date != "" {
				fmt.Fprintf(&b, "- [%s] %s\n", it.Date, it.Title)
			} else {
				fmt.Fprintf(&b, "- %s\n", it.Title)
			}
			fmt.Fprintf(&b, "  🔗 %s\n", it.Link)
		}
	}

	b.WriteString("\n" + ruleLine + "\n")
	fmt.Fprintf(&b, "✅ 총 %d건의 소식을 수집했습니다.\n", d.Total)

	_, err := io.WriteString(w, b.String())
	return err
}
