package report

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"io"
	"time"

	"github.com/Adda-Baaj/tour-sosik/internal/keywords"
)

// HTMLRenderer renders digests as a standalone HTML page.
type HTMLRenderer struct {
	template *template.Template
	filter   *keywords.Filter
	loc      *time.Location
}

// NewHTMLRenderer creates a renderer that highlights filter's keywords in titles.
func NewHTMLRenderer(filter *keywords.Filter, loc *time.Location) *HTMLRenderer {
	if loc == nil {
		loc = time.Local
	}
	r := &HTMLRenderer{filter: filter, loc: loc}
	r.template = template.Must(template.New("digest").Funcs(template.FuncMap{
		"highlight": r.highlight,
		"stamp": func(t time.Time) string {
			return t.In(r.loc).Format(TimestampLayout)
		},
	}).Parse(digestTemplate))
	return r
}

// HighlightHTML escapes title and wraps keyword matches in <mark>.
func HighlightHTML(filter *keywords.Filter, title string) template.HTML {
	return template.HTML(filter.Highlight(title, html.EscapeString, func(s string) string {
		return "<mark>" + s + "</mark>"
	}))
}

func (r *HTMLRenderer) highlight(title string) template.HTML {
	return HighlightHTML(r.filter, title)
}

// Write renders d to w.
func (r *HTMLRenderer) Write(w io.Writer, d Digest) error {
	if err := r.template.Execute(w, d); err != nil {
		return fmt.Errorf("render html report: %w", err)
	}
	return nil
}

// Render returns d as HTML bytes.
func (r *HTMLRenderer) Render(d Digest) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Write(&buf, d); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

const digestTemplate = `<!DOCTYPE html>
<html lang="ko">
<head>
<meta charset="utf-8">
<title>오늘자 소식 리포트</title>
<style>
body { font-family: 'Malgun Gothic', dotum, sans-serif; line-height: 1.6; max-width: 800px; margin: 20px auto; padding: 20px; border: 1px solid #ddd; border-radius: 10px; }
h1 { color: #2c3e50; text-align: center; border-bottom: 2px solid #3498db; padding-bottom: 10px; }
h3 { color: #2980b9; margin-top: 30px; border-left: 5px solid #3498db; padding-left: 10px; }
ul { list-style: none; padding: 0; }
li { margin-bottom: 15px; padding: 10px; background: #f9f9f9; border-radius: 5px; }
a { color: #3498db; text-decoration: none; font-weight: bold; font-size: 1.1em; }
a:hover { text-decoration: underline; color: #2980b9; }
mark { background: #fff3b0; color: inherit; }
.date { color: #7f8c8d; font-size: 0.9em; margin-left: 8px; }
.info { color: #7f8c8d; font-size: 0.9em; margin-bottom: 20px; }
.empty { text-align: center; color: #95a5a6; padding: 40px 0; }
.footer { margin-top: 40px; text-align: center; color: #95a5a6; font-size: 0.9em; border-top: 1px solid #eee; padding-top: 20px; }
</style>
</head>
<body>
<h1>📅 오늘자 소식 리포트</h1>
<div class="info">📅 <b>수집 일시:</b> {{stamp .GeneratedAt}}{{if .Keywords}}<br>
🔍 <b>키워드:</b> {{range $i, $k := .Keywords}}{{if $i}}, {{end}}{{$k}}{{end}}{{end}}</div>
{{- if eq .Total 0}}
<div class="empty">수집된 소식이 없습니다.</div>
{{- end}}
{{- range .Groups}}{{if .Items}}
<h3>📌 {{.Source}} ({{len .Items}}건)</h3>
<ul>
{{- range .Items}}
<li><a href="{{.Link}}" target="_blank" rel="noopener">{{highlight .Title}}</a>{{if .Date}}<span class="date">{{.Date}}</span>{{end}}</li>
{{- end}}
</ul>
{{- end}}{{end}}
<div class="footer">✅ 총 {{.Total}}건의 소식을 수집했습니다.</div>
</body>
</html>
`
