package report

import (
	"time"

	"github.com/Adda-Baaj/tour-sosik/internal/domain"
)

// Limits caps how many items a report shows. Zero means unlimited.
type Limits struct {
	PerSource int
	MaxItems  int
}

// Group is one source's section of a digest.
type Group struct {
	Source string
	Items  []domain.NewsItem
}

// Digest is the data behind one report.
type Digest struct {
	Pipeline    string
	GeneratedAt time.Time
	Keywords    []string
	Groups      []Group
	Total       int
}

// Build groups items by source, in order of first appearance, after
// applying limits. Items are expected newest first.
func Build(pipeline string, items []domain.NewsItem, keywords []string, generatedAt time.Time, limits Limits) Digest {
	d := Digest{
		Pipeline:    pipeline,
		GeneratedAt: generatedAt,
		Keywords:    append([]string(nil), keywords...),
	}

	index := make(map[string]int)
	for _, it := range items {
		if limits.MaxItems > 0 && d.Total >= limits.MaxItems {
			break
		}
		i, ok := index[it.Source]
		if !ok {
			i = len(d.Groups)
			index[it.Source] = i
			d.Groups = append(d.Groups, Group{Source: it.Source})
		}
		if limits.PerSource > 0 && len(d.Groups[i].Items) >= limits.PerSource {
			continue
		}
		d.Groups[i].Items = append(d.Groups[i].Items, it)
		d.Total++
	}
	return d
}
