package comicvine

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"comicvault/internal/services"
)

type sleepRecorder struct {
	mu    sync.Mutex
	waits []time.Duration
}

func (r *sleepRecorder) sleep(_ context.Context, d time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.waits = append(r.waits, d)
	return nil
}

func newTestClient(t *testing.T, baseURL string) (*Client, *sleepRecorder) {
	t.Helper()
	client, err := New(Config{
		APIKey:           "test-key",
		BaseURL:          baseURL,
		MinInterval:      -1,
		RateLimitBackoff: 5 * time.Second,
		NetworkBackoff:   time.Second,
		MaxAttempts:      3,
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	rec := &sleepRecorder{}
	client.sleep = rec.sleep
	return client, rec
}

func TestNewRequiresAPIKey(t *testing.T) {
	if _, err := New(Config{APIKey: "  "}); err == nil {
		t.Fatal("expected error without api key")
	}
}

func TestSearchVolumesDecodesResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("api_key") != "test-key" || q.Get("format") != "json" {
			t.Errorf("missing auth params: %v", q)
		}
		if q.Get("query") != "Batman" || q.Get("resources") != "volume" {
			t.Errorf("unexpected search params: %v", q)
		}
		if ua := r.Header.Get("User-Agent"); ua == "" {
			t.Error("expected user agent header")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status_code":1,"error":"OK","results":[
			{"id":91273,"name":"Batman","start_year":"2016","publisher":{"id":10,"name":"DC Comics"}},
			{"id":796,"name":"Batman","start_year":1940,"publisher":null}
		]}`))
	}))
	defer srv.Close()

	client, rec := newTestClient(t, srv.URL)
	volumes, err := client.SearchVolumes(context.Background(), "Batman")
	if err != nil {
		t.Fatalf("SearchVolumes returned error: %v", err)
	}
	if len(volumes) != 2 {
		t.Fatalf("expected 2 volumes, got %d", len(volumes))
	}
	if volumes[0].ID != 91273 || volumes[0].StartYear != "2016" || volumes[0].PublisherName() != "DC Comics" {
		t.Fatalf("unexpected first volume: %+v", volumes[0])
	}
	if volumes[1].StartYear != "1940" || volumes[1].PublisherName() != "" {
		t.Fatalf("unexpected second volume: %+v", volumes[1])
	}
	if len(rec.waits) != 0 {
		t.Fatalf("expected no backoff, got %v", rec.waits)
	}
}

func TestIssueDetailsUsesIssuePrefix(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/issue/4000-555/" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"status_code":1,"results":{
			"id":555,"name":"I Am Gotham","description":null,"cover_date":"2016-08-01",
			"person_credits":[{"id":1,"name":"Tom King","role":"writer"}],
			"character_credits":[{"id":2,"name":"Batman"}],
			"image":{"small_url":"small.jpg","medium_url":""}
		}}`))
	}))
	defer srv.Close()

	client, _ := newTestClient(t, srv.URL+"/")
	detail, err := client.IssueDetails(context.Background(), 555)
	if err != nil {
		t.Fatalf("IssueDetails returned error: %v", err)
	}
	if detail == nil || detail.Name != "I Am Gotham" || detail.Description != "" {
		t.Fatalf("unexpected detail: %+v", detail)
	}
	if detail.CoverURL() != "small.jpg" {
		t.Fatalf("expected small cover fallback, got %q", detail.CoverURL())
	}
	if len(detail.PersonCredits) != 1 || detail.PersonCredits[0].Role != "writer" {
		t.Fatalf("unexpected person credits: %+v", detail.PersonCredits)
	}
}

func TestRateLimitedResponsesBackOffExponentially(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 2 {
			w.WriteHeader(StatusRateLimited)
			return
		}
		_, _ = w.Write([]byte(`{"status_code":1,"results":[{"id":1,"issue_number":"7","name":"Seven"}]}`))
	}))
	defer srv.Close()

	client, rec := newTestClient(t, srv.URL)
	issues, err := client.VolumeIssues(context.Background(), 42)
	if err != nil {
		t.Fatalf("VolumeIssues returned error: %v", err)
	}
	if len(issues) != 1 || issues[0].IssueNumber != "7" {
		t.Fatalf("unexpected issues: %+v", issues)
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 requests, got %d", calls.Load())
	}
	want := []time.Duration{5 * time.Second, 10 * time.Second}
	if len(rec.waits) != len(want) || rec.waits[0] != want[0] || rec.waits[1] != want[1] {
		t.Fatalf("unexpected backoff schedule %v, want %v", rec.waits, want)
	}
}

func TestLogicalFailureIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"status_code":101,"error":"Object Not Found","results":[]}`))
	}))
	defer srv.Close()

	client, rec := newTestClient(t, srv.URL)
	volumes, err := client.SearchVolumes(context.Background(), "Nothing")
	if err != nil {
		t.Fatalf("expected nil error for logical failure, got %v", err)
	}
	if volumes != nil {
		t.Fatalf("expected no result, got %+v", volumes)
	}
	if calls.Load() != 1 || len(rec.waits) != 0 {
		t.Fatalf("expected a single request without backoff, calls=%d waits=%v", calls.Load(), rec.waits)
	}
}

func TestServerErrorsExhaustAttempts(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client, rec := newTestClient(t, srv.URL)
	detail, err := client.IssueDetails(context.Background(), 9)
	if err != nil {
		t.Fatalf("expected nil error after exhaustion, got %v", err)
	}
	if detail != nil {
		t.Fatalf("expected no result, got %+v", detail)
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls.Load())
	}
	want := []time.Duration{time.Second, 2 * time.Second}
	if len(rec.waits) != len(want) || rec.waits[0] != want[0] || rec.waits[1] != want[1] {
		t.Fatalf("unexpected backoff schedule %v, want %v", rec.waits, want)
	}
}

func TestUndecodablePayloadIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>maintenance</html>`))
	}))
	defer srv.Close()

	client, _ := newTestClient(t, srv.URL)
	_, err := client.SearchVolumes(context.Background(), "Batman")
	if err == nil {
		t.Fatal("expected decode error")
	}
	if !strings.Contains(err.Error(), "decode response") {
		t.Fatalf("unexpected error: %v", err)
	}
	if services.IsFatal(err) {
		t.Fatalf("decode failures must not abort a run: %v", err)
	}
}

func TestLimiterSpacesRequests(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status_code":1,"results":[]}`))
	}))
	defer srv.Close()

	const interval = 40 * time.Millisecond
	client, err := New(Config{APIKey: "k", BaseURL: srv.URL, MinInterval: interval})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	start := time.Now()
	for i := 0; i < 4; i++ {
		if _, err := client.SearchVolumes(context.Background(), "x"); err != nil {
			t.Fatalf("SearchVolumes returned error: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed < 3*interval {
		t.Fatalf("expected at least %v between four requests, got %v", 3*interval, elapsed)
	}
}

func TestLimiterHonoursCancellation(t *testing.T) {
	l := newLimiter(time.Hour)
	if err := l.wait(context.Background()); err != nil {
		t.Fatalf("first wait returned error: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := l.wait(ctx); err == nil {
		t.Fatal("expected cancellation error")
	}
}

func TestFlexStringAcceptsNumbersAndNull(t *testing.T) {
	cases := map[string]FlexString{`"12"`: "12", `12`: "12", `null`: "", `" 3 "`: "3"}
	for raw, want := range cases {
		var got FlexString
		if err := got.UnmarshalJSON([]byte(raw)); err != nil {
			t.Fatalf("UnmarshalJSON(%s) returned error: %v", raw, err)
		}
		if got != want {
			t.Fatalf("UnmarshalJSON(%s) = %q, want %q", raw, got, want)
		}
	}
}
