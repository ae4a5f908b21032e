package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"comicvault/internal/api"
	"comicvault/internal/collection"
	"comicvault/internal/testsupport"
)

func newRouter(t *testing.T) (*gin.Engine, []int64) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ids := testsupport.SeedRecords(t, store,
		testsupport.Seed{Path: "/c/Saga 001.cbz", Size: 100, Title: "Saga", Issue: "1", Status: collection.StatusIdentified, VolumeID: 48, IssueID: 1, VolumeName: "Saga", Publisher: "Image",
			Details: &collection.Details{Description: "First issue.", Writers: "Brian K. Vaughan", Characters: "Alana, Marko"}},
		testsupport.Seed{Path: "/c/Saga 002.cbz", Size: 100, Title: "Saga", Issue: "2", Status: collection.StatusIdentified, VolumeID: 48, IssueID: 2, VolumeName: "Saga", Publisher: "Image"},
		testsupport.Seed{Path: "/c/dupe/Saga 002.cbz", Size: 100, Title: "Saga", Issue: "2", Status: collection.StatusIdentified, VolumeID: 48, IssueID: 2, VolumeName: "Saga", Publisher: "Image"},
		testsupport.Seed{Path: "/c/Saga 006.cbz", Size: 100, Title: "Saga", Issue: "6", Status: collection.StatusIdentified, VolumeID: 48, IssueID: 6, VolumeName: "Saga", Publisher: "Image"},
		testsupport.Seed{Path: "/c/Mystery Book.cbr", Size: 50, Title: "Mystery Book", Status: collection.StatusNotFound, Message: collection.NotFoundMessage},
	)
	return api.NewRouter(api.NewHandler(store, nil)), ids
}

func get(t *testing.T, router http.Handler, path string, out any) int {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	router.ServeHTTP(rec, req)
	if out != nil && rec.Code < 300 {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("decode %s: %v (%s)", path, err, rec.Body.String())
		}
	}
	return rec.Code
}

func TestHealthReportsDatabase(t *testing.T) {
	router, _ := newRouter(t)
	var payload api.HealthResponse
	if code := get(t, router, "/health", &payload); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if payload.Status != "ok" || payload.Database.TotalRecords != 5 || !payload.Database.IntegrityCheck {
		t.Fatalf("unexpected health payload: %+v", payload)
	}
}

func TestStatsAndDuplicates(t *testing.T) {
	router, _ := newRouter(t)

	var stats api.StatsResponse
	if code := get(t, router, "/api/stats", &stats); code != http.StatusOK {
		t.Fatalf("stats returned %d", code)
	}
	if stats.Total != 5 || stats.TotalBytes != 450 || stats.Enriched != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	var dupes api.DuplicatesResponse
	if code := get(t, router, "/api/duplicates", &dupes); code != http.StatusOK {
		t.Fatalf("duplicates returned %d", code)
	}
	if len(dupes.Groups) != 1 || dupes.Groups[0].Issue != "2" || dupes.Groups[0].Count != 2 {
		t.Fatalf("unexpected duplicates: %+v", dupes.Groups)
	}
}

func TestGapsListsMissingIssues(t *testing.T) {
	router, _ := newRouter(t)
	var gaps api.GapsResponse
	if code := get(t, router, "/api/gaps", &gaps); code != http.StatusOK {
		t.Fatalf("gaps returned %d", code)
	}
	if len(gaps.Series) != 1 || len(gaps.Series[0].Gaps) != 1 {
		t.Fatalf("unexpected gaps: %+v", gaps.Series)
	}
	missing := gaps.Series[0].Gaps[0].Missing
	if fmt.Sprint(missing) != "[3 4 5]" {
		t.Fatalf("expected issues 3-5 missing, got %v", missing)
	}
}

func TestSearchRequiresQuery(t *testing.T) {
	router, _ := newRouter(t)
	if code := get(t, router, "/api/search", nil); code != http.StatusBadRequest {
		t.Fatalf("expected 400 without q, got %d", code)
	}
	var list api.RecordListResponse
	if code := get(t, router, "/api/search?q=MYSTERY", &list); code != http.StatusOK {
		t.Fatalf("search returned %d", code)
	}
	if list.Total != 1 || list.Items[0].FileName != "Mystery Book.cbr" || list.Items[0].Format != "cbr" {
		t.Fatalf("unexpected search result: %+v", list)
	}
}

func TestNotFoundAndRecordFiltering(t *testing.T) {
	router, _ := newRouter(t)
	var list api.RecordListResponse
	if code := get(t, router, "/api/not-found", &list); code != http.StatusOK {
		t.Fatalf("not-found returned %d", code)
	}
	if list.Total != 1 || list.Items[0].ErrorMessage != collection.NotFoundMessage {
		t.Fatalf("unexpected not-found list: %+v", list)
	}

	if code := get(t, router, "/api/records?status=identified&limit=2", &list); code != http.StatusOK {
		t.Fatalf("records returned %d", code)
	}
	if list.Total != 4 || len(list.Items) != 2 {
		t.Fatalf("expected 2 of 4 identified records, got %d of %d", len(list.Items), list.Total)
	}
	if code := get(t, router, "/api/records?offset=1&limit=9223372036854775807", &list); code != http.StatusOK {
		t.Fatalf("expected 200 for a maximal limit, got %d", code)
	}
	if list.Total != 5 || len(list.Items) != 4 {
		t.Fatalf("expected 4 of 5 records after offset 1, got %d of %d", len(list.Items), list.Total)
	}
	if code := get(t, router, "/api/records?status=bogus", nil); code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown status, got %d", code)
	}
}

func TestGetRecord(t *testing.T) {
	router, ids := newRouter(t)

	var resp api.RecordResponse
	if code := get(t, router, fmt.Sprintf("/api/records/%d", ids[0]), &resp); code != http.StatusOK {
		t.Fatalf("record returned %d", code)
	}
	if resp.Item.Catalog == nil || resp.Item.Catalog.VolumeID != 48 {
		t.Fatalf("expected catalog reference, got %+v", resp.Item.Catalog)
	}
	if resp.Item.Details == nil || len(resp.Item.Details.Characters) != 2 {
		t.Fatalf("expected split characters, got %+v", resp.Item.Details)
	}
	if code := get(t, router, "/api/records/99999", nil); code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", code)
	}
	if code := get(t, router, "/api/records/abc", nil); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
}

func TestServerStopsWithContext(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	srv, err := api.NewServer("127.0.0.1:0", store, nil)
	if err != nil {
		t.Fatalf("NewServer returned error: %v", err)
	}
	addr, err := srv.Listen()
	if err != nil {
		t.Fatalf("Listen returned error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()

	resp, err := http.Get("http://" + addr + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Serve returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
