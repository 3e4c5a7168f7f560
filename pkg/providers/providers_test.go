package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/Adda-Baaj/tour-sosik/internal/domain"
	"github.com/Adda-Baaj/tour-sosik/pkg/httpclient"
)

type fakeClient struct {
	status  int
	body    string
	err     error
	headers map[string]string
	form    map[string]string
	calls   int
}

func (c *fakeClient) Get(_ context.Context, _ string, headers map[string]string) (httpclient.Response, error) {
	c.calls++
	c.headers = headers
	if c.err != nil {
		return nil, c.err
	}
	return httpclient.StaticResponse(c.status, []byte(c.body), nil), nil
}

func (c *fakeClient) PostForm(ctx context.Context, url string, form, headers map[string]string) (httpclient.Response, error) {
	c.form = form
	return c.Get(ctx, url, headers)
}

func (c *fakeClient) Do(ctx context.Context, _, url string, _ []byte, headers map[string]string) (httpclient.Response, error) {
	return c.Get(ctx, url, headers)
}

func okClient(body string) *fakeClient {
	return &fakeClient{status: http.StatusOK, body: body}
}

func providerByID(t *testing.T, id string) Provider {
	t.Helper()
	for _, p := range DefaultProviders() {
		if p.ID == id {
			return p
		}
	}
	t.Fatalf("no default provider %q", id)
	return Provider{}
}

const visitSeoulPage = `<html><body>
<table class="qna-list-table"><tbody>
<tr><td>3</td><td class="text-align-left"><a href="/announcements/3">[공지] 여행 지원 사업 모집</a></td><td>2024.03.01</td></tr>
<tr><td>2</td><td class="text-align-left"><a href="/announcements/2">[공지] 여행 지원 사업 모집</a></td><td>2024.02.01</td></tr>
<tr><td>1</td><td class="text-align-left"><a href="/announcements/1">서울 야경 투어 참가자 안내</a></td><td>2024-01-01</td></tr>
<tr><td colspan="3">등록된 글이 없습니다</td></tr>
</tbody></table></body></html>`

func TestVisitSeoulFetcher(t *testing.T) {
	f := NewVisitSeoulFetcher(okClient(visitSeoulPage))
	items, err := f.Fetch(context.Background(), providerByID(t, "visitseoul"))
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	want := []domain.NewsItem{
		{Source: "VisitSeoul", Title: "여행 지원 사업 모집", Date: "2024-03-01", Link: "https://korean.visitseoul.net/announcements/3"},
		{Source: "VisitSeoul", Title: "서울 야경 투어 참가자 안내", Date: "2024-01-01", Link: "https://korean.visitseoul.net/announcements/1"},
	}
	if len(items) != len(want) {
		t.Fatalf("got %d items, want %d: %+v", len(items), len(want), items)
	}
	for i := range want {
		if items[i] != want[i] {
			t.Errorf("item %d = %+v, want %+v", i, items[i], want[i])
		}
	}
}

func TestMCSTFetcherReadsSecondToLastCell(t *testing.T) {
	page := `<table class="board"><tbody>
<tr><td>10</td><td class="subject"><a href="noticeView.jsp?pSeq=10">2026 관광 예산 설명회 개최</a></td><td>홍보과</td><td>2026-02-03</td><td>120</td></tr>
<tr><td class="subject"><a href="noticeView.jsp?pSeq=9">두 칸짜리 행의 제목</a></td><td>2026-02-01</td></tr>
</tbody></table>`
	items, err := NewMCSTFetcher(okClient(page)).Fetch(context.Background(), providerByID(t, "mcst"))
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items", len(items))
	}
	if items[0].Date != "2026-02-03" {
		t.Errorf("date = %q", items[0].Date)
	}
	if items[0].Link != "https://www.mcst.go.kr/site/s_notice/notice/noticeView.jsp?pSeq=10" {
		t.Errorf("link = %q", items[0].Link)
	}
	if items[1].Date != "" {
		t.Errorf("two-cell row should carry no date, got %q", items[1].Date)
	}
}

func TestJejuFetcherDateByPatternAndMissingHref(t *testing.T) {
	page := `<div class="Ttable_wrap notice"><table><tbody>
<tr><td>5</td><td><a class="board_title table_a" href="view.php?btable=notice&idx=5">제주 해변 축제 참가자 모집</a></td><td>관리자</td><td>2025-07-10</td></tr>
<tr><td>4</td><td><span class="board_title table_a">링크 없는 공지 사항</span></td><td>2025-07-01</td></tr>
</tbody></table></div>`
	cfg := providerByID(t, "jeju")
	items, err := NewJejuFetcher(okClient(page)).Fetch(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items", len(items))
	}
	if items[0].Date != "2025-07-10" || items[0].Link != "https://ijto.or.kr/korean/Bd/view.php?btable=notice&idx=5" {
		t.Errorf("item 0 = %+v", items[0])
	}
	if items[1].Link != cfg.SourceURL {
		t.Errorf("missing href should fall back to the board url, got %q", items[1].Link)
	}
}

func TestGangwonFetcherAlternateMarkup(t *testing.T) {
	page := `<div class="bbs_list"><table><tbody>
<tr><td class="subject"><a href="/www/selectBbsNttView.do?nttNo=7">강원 숙박 할인 이벤트 안내</a></td><td class="date">2025.09.30</td></tr>
</tbody></table></div>`
	items, err := NewGangwonFetcher(okClient(page)).Fetch(context.Background(), providerByID(t, "gangwon"))
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(items) != 1 || items[0].Date != "2025-09-30" || items[0].Link != "https://www.gwto.or.kr/www/selectBbsNttView.do?nttNo=7" {
		t.Fatalf("items = %+v", items)
	}
}

func TestBusanAndIncheonReadDateCell(t *testing.T) {
	busanPage := `<table class="bbs_default list"><tbody>
<tr><td class="tit"><a href="/board/view.do?id=1">부산 불꽃축제 관람 안내</a></td><td class="date">2025-10-01</td></tr>
</tbody></table>`
	items, err := NewBusanFetcher(okClient(busanPage)).Fetch(context.Background(), providerByID(t, "busan"))
	if err != nil || len(items) != 1 || items[0].Date != "2025-10-01" {
		t.Fatalf("busan items = %+v err = %v", items, err)
	}

	incheonPage := `<table><tbody>
<tr><td class="tit"><a href="/main/board/view.jsp?no=3">인천 섬 여행 패키지 출시</a></td><td class="date">2025/09/15</td></tr>
</tbody></table>`
	items, err = NewIncheonFetcher(okClient(incheonPage)).Fetch(context.Background(), providerByID(t, "incheon"))
	if err != nil || len(items) != 1 || items[0].Date != "2025-09-15" {
		t.Fatalf("incheon items = %+v err = %v", items, err)
	}
	if items[0].Link != "https://www.ito.or.kr/main/board/view.jsp?no=3" {
		t.Fatalf("incheon link = %q", items[0].Link)
	}
}

func TestVisitKoreaFetcherPostsFormAndParsesJSON(t *testing.T) {
	client := okClient(`{"body":{"result":[
{"title":"[공지] 코리아 둘레길 스탬프 이벤트","createDate":"20250812093000","nwsId":1234},
{"title":"짧음","createDate":"20250811","nwsId":"99"},
{"title":"두루누비 서비스 점검 안내","createDate":"","nwsId":"abc"}
]}}`)
	items, err := NewVisitKoreaFetcher(client).Fetch(context.Background(), providerByID(t, "visitkorea"))
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if client.form["cmd"] != "NOTICE_LIST_VIEW" || client.form["cnt"] != "10" {
		t.Fatalf("form = %v", client.form)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items: %+v", len(items), items)
	}
	if items[0].Title != "코리아 둘레길 스탬프 이벤트" || items[0].Date != "2025-08-12" {
		t.Errorf("item 0 = %+v", items[0])
	}
	if items[0].Link != "https://korean.visitkorea.or.kr/notice/news_detail.do?nwsId=1234" {
		t.Errorf("link = %q", items[0].Link)
	}
	if items[1].Date != "" {
		t.Errorf("empty createDate should stay empty, got %q", items[1].Date)
	}
}

func TestGGTourFetcher(t *testing.T) {
	body := `{"data":{"items":[{"title":"경기 가을 여행주간 참여 안내","createdAt":"2025-09-01 10:20:00","contentLink":"/notice/42"}]}}`
	items, err := NewGGTourFetcher(okClient(body)).Fetch(context.Background(), providerByID(t, "ggtour"))
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(items) != 1 || items[0].Date != "2025-09-01" || items[0].Link != "https://ggtour.or.kr/notice/42" {
		t.Fatalf("items = %+v", items)
	}
}

func TestFetchErrorKinds(t *testing.T) {
	cfg := providerByID(t, "busan")

	tests := []struct {
		name   string
		client *fakeClient
		want   ErrorKind
	}{
		{"network", &fakeClient{err: errors.New("dial tcp: connection refused")}, KindNetwork},
		{"bad content encoding", &fakeClient{err: fmt.Errorf("%w \"deflate\": corrupt input", httpclient.ErrContentEncoding)}, KindEncoding},
		{"status", &fakeClient{status: http.StatusServiceUnavailable, body: "down"}, KindStatus},
		{"missing anchor", okClient("<html><body><p>리뉴얼 중</p></body></html>"), KindParse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := NewBusanFetcher(tt.client).Fetch(context.Background(), cfg)
			if err == nil {
				t.Fatalf("expected error")
			}
			if len(items) != 0 {
				t.Fatalf("expected no items, got %d", len(items))
			}
			if got := KindOf(err); got != tt.want {
				t.Fatalf("KindOf = %q, want %q (%v)", got, tt.want, err)
			}
		})
	}

	if got := KindOf(errors.New("plain")); got != KindUnknown {
		t.Fatalf("plain error kind = %q", got)
	}
}

func TestJSONFetcherParseError(t *testing.T) {
	_, err := NewGGTourFetcher(okClient(`<html>maintenance</html>`)).Fetch(context.Background(), providerByID(t, "ggtour"))
	if KindOf(err) != KindParse {
		t.Fatalf("expected parse error, got %v", err)
	}
	_, err = NewVisitKoreaFetcher(okClient(`{"header":{}}`)).Fetch(context.Background(), providerByID(t, "visitkorea"))
	if KindOf(err) != KindParse {
		t.Fatalf("expected parse error for missing body, got %v", err)
	}
}

func TestFetcherRejectsForeignProvider(t *testing.T) {
	client := okClient(visitSeoulPage)
	if _, err := NewVisitSeoulFetcher(client).Fetch(context.Background(), providerByID(t, "mcst")); err == nil {
		t.Fatalf("expected incompatible provider error")
	}
	if client.calls != 0 {
		t.Fatalf("no request should be made, got %d", client.calls)
	}
}

func TestHeaders(t *testing.T) {
	h := Headers(Provider{ID: "x", UserAgent: "UA/1", Headers: map[string]string{"Referer": "https://example.kr/"}})
	if h["User-Agent"] != "UA/1" {
		t.Errorf("User-Agent = %q", h["User-Agent"])
	}
	if h["Referer"] != "https://example.kr/" {
		t.Errorf("Referer = %q", h["Referer"])
	}
	if h["Accept-Language"] == "" {
		t.Errorf("Accept-Language missing")
	}
	if def := Headers(Provider{ID: "x"}); def["User-Agent"] != defaultUserAgent {
		t.Errorf("default User-Agent = %q", def["User-Agent"])
	}
}

func TestNormalizeDate(t *testing.T) {
	tests := map[string]string{
		"2024-01-05":          "2024-01-05",
		"2024.1.5":            "2024-01-05",
		"2024/01/05":          "2024-01-05",
		" 2024. 01. 05 ":      "2024-01-05",
		"20240105123000":      "2024-01-05",
		"2024-01-05 10:00:00": "2024-01-05",
		"24.01.05":            "2024-01-05",
		"2024-13-01":          "",
		"조회수":                 "",
		"":                    "",
	}
	for in, want := range tests {
		if got := NormalizeDate(in); got != want {
			t.Errorf("NormalizeDate(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRegistryResolvesByIDThenType(t *testing.T) {
	board := &stubFetcher{id: ProviderTypeBoard}
	reg := DefaultFetcherRegistry(okClient(""), board)

	f, err := reg.FetcherFor(providerByID(t, "mcst"))
	if err != nil || f.ID() != "mcst" {
		t.Fatalf("mcst lookup = %v, %v", f, err)
	}

	f, err = reg.FetcherFor(Provider{ID: "seoul-gov", Type: ProviderTypeBoard})
	if err != nil || f != board {
		t.Fatalf("board lookup = %v, %v", f, err)
	}

	if _, err := reg.FetcherFor(Provider{ID: "unknown", Type: ProviderTypeSite}); err == nil {
		t.Fatalf("expected error for unknown site")
	}
	if _, err := reg.FetcherFor(Provider{}); err == nil {
		t.Fatalf("expected error for empty id")
	}
}

type stubFetcher struct{ id string }

func (s *stubFetcher) ID() string { return s.id }
func (s *stubFetcher) Fetch(context.Context, Provider) ([]domain.NewsItem, error) {
	return nil, nil
}

func TestLoadProviders(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sites.yaml")
	t.Setenv("SEOUL_BOARD", "https://www.seoul.go.kr/news/news_report.do")
	content := `providers:
  - id: Seoul
    name: 서울특별시청
    type: board
    source_url: ${SEOUL_BOARD}
  - id: mcst
    name: MCST
    source_url: https://www.mcst.go.kr/site/s_notice/notice/noticeList.jsp
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := LoadProviders(path)
	if err != nil {
		t.Fatalf("LoadProviders: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d providers", len(got))
	}
	if got[0].ID != "seoul" || got[0].SourceURL != "https://www.seoul.go.kr/news/news_report.do" {
		t.Errorf("provider 0 = %+v", got[0])
	}
	if got[1].Type != ProviderTypeSite {
		t.Errorf("default type = %q", got[1].Type)
	}
}

func TestLoadProvidersRejectsDuplicates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sites.yaml")
	content := `providers:
  - {id: a, source_url: "https://a.kr"}
  - {id: A, source_url: "https://b.kr"}
`
	_ = os.WriteFile(path, []byte(content), 0o600)
	if _, err := LoadProviders(path); err == nil {
		t.Fatalf("expected duplicate id error")
	}
}

func TestResponseSnippetKeepsRunesWhole(t *testing.T) {
	body := []byte(strings.Repeat("관광", 200))

	got := responseSnippet(body)
	if !utf8.ValidString(got) {
		t.Fatalf("snippet is not valid UTF-8: %q", got)
	}
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("long body should be truncated: %q", got)
	}
	if n := len(strings.TrimSuffix(got, "...")); n > 512 || n%3 != 0 {
		t.Fatalf("snippet cut at %d bytes", n)
	}
	if got := responseSnippet([]byte("  ")); got != "<empty>" {
		t.Fatalf("empty body snippet = %q", got)
	}
}
