package keywords

import (
	"html"
	"reflect"
	"testing"
)

func TestIsRelevant(t *testing.T) {
	money := New(MoneyKeywords...)

	tests := []struct {
		title string
		want  bool
	}{
		{"2026년 관광 지원사업 공고", true},
		{"주차장 안내", false},
		{"청년 창업 보조금 신청", true},
		{"", false},
	}
	for _, tt := range tests {
		if got := money.IsRelevant(tt.title); got != tt.want {
			t.Errorf("IsRelevant(%q) = %v, want %v", tt.title, got, tt.want)
		}
	}
}

func TestIsRelevantFoldsCase(t *testing.T) {
	f := New("Event")
	if !f.IsRelevant("Summer EVENT guide") {
		t.Fatalf("expected case-insensitive match")
	}
}

func TestListsDoNotOverlap(t *testing.T) {
	money := New(MoneyKeywords...)
	for _, kw := range TourismKeywords {
		if money.IsRelevant(kw) {
			t.Fatalf("tourism keyword %q also matches the money list", kw)
		}
	}
}

func TestMatches(t *testing.T) {
	f := New(MoneyKeywords...)
	got := f.Matches("2026년 관광 지원사업 공고")
	want := []string{"공고", "지원", "사업"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Matches = %v, want %v", got, want)
	}
}

func TestHighlight(t *testing.T) {
	f := New(TourismKeywords...)
	wrap := func(s string) string { return "<b>" + s + "</b>" }

	got := f.Highlight("가을 축제 & 숙박 할인", html.EscapeString, wrap)
	want := "가을 <b>축제</b> &amp; <b>숙박</b> <b>할인</b>"
	if got != want {
		t.Fatalf("Highlight = %q, want %q", got, want)
	}

	if got := f.Highlight("주차장 안내", nil, wrap); got != "주차장 안내" {
		t.Fatalf("no-match Highlight = %q", got)
	}
}

func TestNilFilter(t *testing.T) {
	var f *Filter
	if f.IsRelevant("지원") {
		t.Fatalf("nil filter should match nothing")
	}
	if f.Keywords() != nil {
		t.Fatalf("nil filter should have no keywords")
	}
}
