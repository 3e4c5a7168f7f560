package digest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Adda-Baaj/tour-sosik/internal/domain"
	"github.com/Adda-Baaj/tour-sosik/internal/report"
	"github.com/Adda-Baaj/tour-sosik/pkg/publishers"
)

var kst = time.FixedZone("KST", 9*60*60)

type recordingPublisher struct {
	id     string
	err    error
	events []publishers.DigestEvent
}

func (p *recordingPublisher) ID() string   { return p.id }
func (p *recordingPublisher) Type() string { return "test" }
func (p *recordingPublisher) Publish(_ context.Context, evt publishers.DigestEvent) error {
	p.events = append(p.events, evt)
	return p.err
}

func fixedItems(context.Context) []domain.NewsItem {
	return []domain.NewsItem{
		{Source: "비짓서울", Title: "서울 가을 축제 개막", Link: "https://a/1", Date: "2026-10-17"},
		{Source: "비짓서울", Title: "한강 야간 공연 안내", Link: "https://a/2", Date: "2026-10-16"},
		{Source: "제주관광공사", Title: "제주 숙박 할인 행사", Link: "https://b/1", Date: "2026-10-15"},
	}
}

func newJob(t *testing.T, pubs ...publishers.Publisher) *Job {
	t.Helper()
	at := time.Date(2026, 10, 18, 8, 0, 0, 0, kst)
	return &Job{
		Pipeline:   "tourism",
		Keywords:   []string{"축제", "할인"},
		Fetch:      fixedItems,
		Dir:        t.TempDir(),
		PageLimits: report.Limits{MaxItems: 30},
		TextLimits: report.Limits{MaxItems: 2},
		Publishers: pubs,
		Location:   kst,
		Now:        func() time.Time { return at },
	}
}

func TestRunWritesReportsAndPublishes(t *testing.T) {
	pub := &recordingPublisher{id: "hook"}
	job := newJob(t, pub)

	res, err := job.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Items != 3 {
		t.Fatalf("items = %d", res.Items)
	}

	text, err := os.ReadFile(res.Files.Text)
	if err != nil {
		t.Fatalf("read text: %v", err)
	}
	if !strings.Contains(string(text), "총 2건") {
		t.Fatalf("text report should use the text cap:\n%s", text)
	}
	if !strings.Contains(string(res.Files.Page), "<mark>축제</mark>") {
		t.Fatal("html report should highlight keywords")
	}

	if len(pub.events) != 1 {
		t.Fatalf("published %d events", len(pub.events))
	}
	evt := pub.events[0]
	if evt.Pipeline != "tourism" || evt.Total != 3 || len(evt.Items) != 3 {
		t.Fatalf("event = %+v", evt)
	}
	if string(evt.HTML) != string(res.Files.Page) {
		t.Fatal("event should carry the rendered html report")
	}
}

func TestRunEmptyHarvest(t *testing.T) {
	job := newJob(t)
	job.Fetch = func(context.Context) []domain.NewsItem { return nil }

	res, err := job.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	text, err := os.ReadFile(res.Files.Text)
	if err != nil {
		t.Fatalf("read text: %v", err)
	}
	if !strings.Contains(string(text), "수집된 소식이 없습니다.") {
		t.Fatalf("empty report message missing:\n%s", text)
	}
}

func TestRunPublishFailureStillTriesOthers(t *testing.T) {
	bad := &recordingPublisher{id: "bad", err: errors.New("boom")}
	good := &recordingPublisher{id: "good"}
	job := newJob(t, bad, good)

	_, err := job.Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("err = %v", err)
	}
	if len(good.events) != 1 {
		t.Fatal("second publisher should still receive the digest")
	}
}

func TestRunWithoutFetch(t *testing.T) {
	job := newJob(t)
	job.Fetch = nil
	if _, err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error without a fetch function")
	}
}

func TestRunInterruptedHarvestPublishesNothing(t *testing.T) {
	pub := &recordingPublisher{id: "hook"}
	job := newJob(t, pub)

	ctx, cancel := context.WithCancel(context.Background())
	job.Fetch = func(context.Context) []domain.NewsItem {
		cancel()
		return fixedItems(ctx)[:1]
	}

	res, err := job.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if res.Files.Text != "" || len(pub.events) != 0 {
		t.Fatalf("interrupted run should neither write nor publish: %+v, %d events", res.Files, len(pub.events))
	}
	if _, err := os.Stat(filepath.Join(job.Dir, report.TextFileName)); !os.IsNotExist(err) {
		t.Fatalf("text report written for an interrupted run: %v", err)
	}
}
