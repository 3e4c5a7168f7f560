package publishers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Adda-Baaj/tour-sosik/internal/domain"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func sampleEvent() DigestEvent {
	return DigestEvent{
		Pipeline:    "tourism",
		GeneratedAt: time.Date(2026, 10, 18, 8, 0, 0, 0, time.UTC),
		Total:       1,
		Items: []domain.NewsItem{
			{Source: "Jeju", Title: "제주 해변 축제 참가자 모집", Date: "2026-10-17", Link: "https://ijto.or.kr/korean/Bd/view.php?idx=5"},
		},
		HTML: []byte("<html>digest</html>"),
	}
}

func TestLoadCatalogYAML(t *testing.T) {
	t.Setenv("DIGEST_WEBHOOK", "https://hooks.example.kr/digest")
	path := writeFile(t, "publishers.yaml", `publishers:
  - id: webhook
    type: HTTP
    http:
      url: ${DIGEST_WEBHOOK}
      headers:
        X-Token: " abc "
        Empty: ""
  - id: archive
    type: s3
    enabled: false
    s3:
      bucket: tour-sosik-reports
      region: ap-northeast-2
  - id: mail
    type: queue
    queue:
      provider: AWS-SNS
      sns:
        topic_arn: arn:aws:sns:ap-northeast-2:123456789012:digest
        region: ap-northeast-2
        access_key_id: AKIA
        secret_access_key: secret
`)

	cat, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if len(cat.All()) != 3 {
		t.Fatalf("got %d entries", len(cat.All()))
	}

	hook, ok := cat.ByID("webhook")
	if !ok {
		t.Fatalf("webhook entry missing")
	}
	if hook.Type != TypeHTTP || hook.HTTP.URL != "https://hooks.example.kr/digest" || hook.HTTP.Method != "POST" {
		t.Fatalf("webhook = %+v", hook.HTTP)
	}
	if hook.HTTP.TimeoutSeconds != httpDefaultTimeoutSeconds {
		t.Fatalf("timeout = %d", hook.HTTP.TimeoutSeconds)
	}
	if len(hook.HTTP.Headers) != 1 || hook.HTTP.Headers["X-Token"] != "abc" {
		t.Fatalf("headers = %v", hook.HTTP.Headers)
	}

	archive, _ := cat.ByID("archive")
	if archive.S3.Key != s3DefaultKey || archive.S3.Region != "ap-northeast-2" {
		t.Fatalf("s3 = %+v", archive.S3)
	}

	mail, _ := cat.ByID("mail")
	if mail.Queue.Provider != QueueProviderAWSSNS || mail.Queue.SNS.AccessKeyID != "AKIA" {
		t.Fatalf("sns = %+v", mail.Queue.SNS)
	}

	enabled := cat.Enabled()
	if len(enabled) != 2 || enabled[0].ID != "webhook" || enabled[1].ID != "mail" {
		t.Fatalf("enabled = %+v", enabled)
	}
}

func TestLoadCatalogJSON(t *testing.T) {
	path := writeFile(t, "publishers.json", `{"publishers":[
{"id":"q","type":"queue","queue":{"provider":"aws-sqs","sqs":{"queue_url":"https://sqs.ap-northeast-2.amazonaws.com/1/digest","region":"ap-northeast-2"}}}
]}`)
	cat, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	q, _ := cat.ByID("q")
	if q.Queue.SQS.QueueURL == "" || q.Queue.SQS.Region != "ap-northeast-2" {
		t.Fatalf("sqs = %+v", q.Queue.SQS)
	}
}

func TestLoadCatalogValidation(t *testing.T) {
	tests := map[string]string{
		"missing id":       `publishers: [{type: http, http: {url: "https://x"}}]`,
		"missing type":     `publishers: [{id: a}]`,
		"unknown type":     `publishers: [{id: a, type: smtp}]`,
		"http without url": `publishers: [{id: a, type: http, http: {}}]`,
		"s3 no bucket":     `publishers: [{id: a, type: s3, s3: {region: ap-northeast-2}}]`,
		"s3 no region":     `publishers: [{id: a, type: s3, s3: {bucket: b}}]`,
		"half keys":        `publishers: [{id: a, type: s3, s3: {bucket: b, region: r, access_key_id: k}}]`,
		"unknown queue":    `publishers: [{id: a, type: queue, queue: {provider: azure}}]`,
		"gcp no topic":     `publishers: [{id: a, type: queue, queue: {provider: gcp, gcp: {project_id: p}}}]`,
		"duplicate": `publishers:
  - {id: a, type: http, http: {url: "https://x"}}
  - {id: a, type: http, http: {url: "https://y"}}`,
		"empty": `publishers: []`,
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadCatalog(writeFile(t, "p.yaml", content)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}

	if _, err := LoadCatalog(writeFile(t, "p.toml", "x = 1")); err == nil {
		t.Fatalf("expected error for unknown extension")
	}
	if _, err := LoadCatalog(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestHTTPPublisherPostsDigest(t *testing.T) {
	var (
		gotMethod string
		gotToken  string
		gotBody   DigestEvent
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotToken = r.Header.Get("X-Token")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	cfg := sanitizeConfig(Config{ID: "hook", Type: TypeHTTP, HTTP: &HTTPConfig{URL: srv.URL, Headers: map[string]string{"X-Token": "abc"}}})
	pubs, err := BuildAll(context.Background(), DefaultRegistry(), []Config{cfg}, nil)
	if err != nil {
		t.Fatalf("BuildAll: %v", err)
	}

	if err := PublishAll(context.Background(), pubs, sampleEvent(), nil); err != nil {
		t.Fatalf("PublishAll: %v", err)
	}
	if gotMethod != http.MethodPost || gotToken != "abc" {
		t.Fatalf("method=%s token=%q", gotMethod, gotToken)
	}
	if gotBody.Pipeline != "tourism" || gotBody.Total != 1 || len(gotBody.Items) != 1 {
		t.Fatalf("body = %+v", gotBody)
	}
}

func TestHTTPPublisherRejectsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	pub, err := newHTTPPublisher(context.Background(), sanitizeConfig(Config{ID: "hook", Type: TypeHTTP, HTTP: &HTTPConfig{URL: srv.URL}}), nil)
	if err != nil {
		t.Fatalf("newHTTPPublisher: %v", err)
	}
	err = pub.Publish(context.Background(), sampleEvent())
	if err == nil || !strings.Contains(err.Error(), "status 403") {
		t.Fatalf("err = %v", err)
	}
}

type fakeS3 struct {
	input *s3.PutObjectInput
	body  string
	err   error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = in
	raw, _ := io.ReadAll(in.Body)
	f.body = string(raw)
	return &s3.PutObjectOutput{}, f.err
}

func TestS3PublisherUploadsHTML(t *testing.T) {
	fake := &fakeS3{}
	pub := &s3Publisher{id: "archive", bucket: "reports", key: "{pipeline}/{date}/index.html", client: fake, log: ensureLogger(nil)}

	if err := pub.Publish(context.Background(), sampleEvent()); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if aws.ToString(fake.input.Key) != "tourism/2026-10-18/index.html" {
		t.Fatalf("key = %q", aws.ToString(fake.input.Key))
	}
	if aws.ToString(fake.input.Bucket) != "reports" || fake.body != "<html>digest</html>" {
		t.Fatalf("bucket=%q body=%q", aws.ToString(fake.input.Bucket), fake.body)
	}
	if ct := aws.ToString(fake.input.ContentType); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("content type = %q", ct)
	}

	evt := sampleEvent()
	evt.HTML = nil
	if err := pub.Publish(context.Background(), evt); err == nil {
		t.Fatalf("expected error without html")
	}
}

type fakeSQS struct {
	input *sqs.SendMessageInput
}

func (f *fakeSQS) SendMessage(_ context.Context, in *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.input = in
	return &sqs.SendMessageOutput{MessageId: aws.String("m-1")}, nil
}

func TestSQSSenderAttributes(t *testing.T) {
	fake := &fakeSQS{}
	pub := &queuePublisher{id: "q", provider: QueueProviderAWSSQS, sender: &sqsSender{queueURL: "https://sqs/q", client: fake, log: ensureLogger(nil)}}

	if err := pub.Publish(context.Background(), sampleEvent()); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if got := aws.ToString(fake.input.MessageAttributes["pipeline"].StringValue); got != "tourism" {
		t.Fatalf("pipeline attribute = %q", got)
	}
	var body map[string]any
	if err := json.Unmarshal([]byte(aws.ToString(fake.input.MessageBody)), &body); err != nil {
		t.Fatalf("body is not json: %v", err)
	}
	if _, leaked := body["HTML"]; leaked {
		t.Fatalf("html must not be sent on queues")
	}
}

type stubPublisher struct {
	id    string
	err   error
	calls int
}

func (s *stubPublisher) ID() string   { return s.id }
func (s *stubPublisher) Type() string { return "stub" }
func (s *stubPublisher) Publish(context.Context, DigestEvent) error {
	s.calls++
	return s.err
}

func TestPublishAllContinuesAfterFailure(t *testing.T) {
	bad := &stubPublisher{id: "bad", err: errors.New("boom")}
	good := &stubPublisher{id: "good"}

	err := PublishAll(context.Background(), []Publisher{bad, good}, sampleEvent(), nil)
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("err = %v", err)
	}
	if good.calls != 1 {
		t.Fatalf("later publishers must still run")
	}
}

func TestRegistryUnknownType(t *testing.T) {
	if _, err := DefaultRegistry().PublisherFor(context.Background(), Config{ID: "x", Type: "smtp"}, nil); err == nil {
		t.Fatalf("expected error")
	}
	if _, err := DefaultRegistry().PublisherFor(context.Background(), Config{ID: "x"}, nil); err == nil {
		t.Fatalf("expected error for missing type")
	}
}

func TestBuildAllSkipsDisabledAndJoinsErrors(t *testing.T) {
	off := false
	cfgs := []Config{
		sanitizeConfig(Config{ID: "hook", Type: TypeHTTP, HTTP: &HTTPConfig{URL: "http://127.0.0.1:1/hook"}}),
		{ID: "muted", Type: TypeHTTP, Enabled: &off, HTTP: &HTTPConfig{URL: "http://127.0.0.1:1/muted"}},
		{ID: "broken", Type: TypeQueue},
	}

	pubs, err := BuildAll(context.Background(), DefaultRegistry(), cfgs, nil)
	if err == nil || !strings.Contains(err.Error(), "broken") {
		t.Fatalf("err = %v, want the broken entry reported", err)
	}
	if len(pubs) != 1 || pubs[0].ID() != "hook" {
		t.Fatalf("pubs = %v", pubs)
	}
}

func TestRegistryTypes(t *testing.T) {
	got := strings.Join(DefaultRegistry().Types(), ",")
	if got != "http,queue,s3" {
		t.Fatalf("types = %q", got)
	}
}

func TestLoadCatalogDisabledEntriesSkipValidation(t *testing.T) {
	cat, err := LoadCatalog(writeFile(t, "p.yaml", `publishers:
  - {id: later, type: http, enabled: false, http: {url: "${UNSET_DIGEST_HOOK}"}}
  - {id: live, type: http, http: {url: "https://x"}}`))
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if len(cat.All()) != 2 || len(cat.Enabled()) != 1 {
		t.Fatalf("all=%d enabled=%d", len(cat.All()), len(cat.Enabled()))
	}
}
