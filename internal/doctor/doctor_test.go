package doctor

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nikbrunner/cm/internal/model"
)

func TestCheckURLs_Statuses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			w.WriteHeader(http.StatusOK)
		case "/gone":
			w.WriteHeader(http.StatusGone)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	bookmarks := []model.Bookmark{
		{ID: "b1", URL: srv.URL + "/ok", Title: "OK"},
		{ID: "b2", URL: srv.URL + "/gone", Title: "Gone"},
		{ID: "b3", URL: srv.URL + "/missing", Title: "Missing"},
	}

	results := CheckURLs(bookmarks, 2, 5*time.Second, nil, nil)

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	byID := make(map[string]Result)
	for _, r := range results {
		byID[r.Bookmark.ID] = r
	}

	if byID["b1"].Status != Healthy {
		t.Errorf("expected b1 healthy, got %v", byID["b1"].Status)
	}
	if byID["b2"].Status != Dead {
		t.Errorf("expected b2 dead, got %v", byID["b2"].Status)
	}
	if byID["b3"].Status != Dead {
		t.Errorf("expected b3 dead, got %v", byID["b3"].Status)
	}
}

func TestCheckURLs_ExcludedDomainSoftens404(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	bookmarks := []model.Bookmark{
		{ID: "b1", URL: srv.URL + "/private", Title: "Private"},
	}

	// Exclude the test server's host (e.g. 127.0.0.1:PORT).
	host := srv.Listener.Addr().String()
	results := CheckURLs(bookmarks, 1, 5*time.Second, []string{host}, nil)

	if results[0].Status != Healthy {
		t.Errorf("expected excluded-domain 404 to be healthy, got %v", results[0].Status)
	}
}

func TestCheckURLs_Unreachable(t *testing.T) {
	bookmarks := []model.Bookmark{
		// Port 1 on localhost: connection refused.
		{ID: "b1", URL: "http://127.0.0.1:1/", Title: "Refused"},
	}

	results := CheckURLs(bookmarks, 1, 2*time.Second, nil, nil)

	if results[0].Status != Unreachable {
		t.Fatalf("expected unreachable, got %v", results[0].Status)
	}
	if results[0].Error == "" {
		t.Error("expected a normalized error message")
	}
}

func TestCheckURLs_ReportsProgress(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	bookmarks := []model.Bookmark{
		{ID: "b1", URL: srv.URL, Title: "One"},
		{ID: "b2", URL: srv.URL, Title: "Two"},
	}

	var calls atomic.Int32
	CheckURLs(bookmarks, 2, 5*time.Second, nil, func(completed, total int) {
		calls.Add(1)
		if total != 2 {
			t.Errorf("expected total 2, got %d", total)
		}
	})

	if calls.Load() != 2 {
		t.Errorf("expected 2 progress calls, got %d", calls.Load())
	}
}

func TestCheckURLs_EmptyInput(t *testing.T) {
	if results := CheckURLs(nil, 4, time.Second, nil, nil); results != nil {
		t.Errorf("expected nil results for no bookmarks, got %v", results)
	}
}

func TestDanglingReferences(t *testing.T) {
	data := &model.AppData{
		Collections: []model.Collection{
			{ID: "c1", Name: "Kept"},
		},
		Bookmarks: []model.Bookmark{
			{ID: "b1", Title: "Fine", URL: "https://fine.example", CollectionID: "c1"},
			{ID: "b2", Title: "Orphan", URL: "https://orphan.example", CollectionID: "deleted"},
			{ID: "b3", Title: "Blank", URL: "https://blank.example", CollectionID: ""},
		},
	}

	orphans := DanglingReferences(data)

	if len(orphans) != 2 {
		t.Fatalf("expected 2 dangling references, got %d", len(orphans))
	}
	if orphans[0].ID != "b2" || orphans[1].ID != "b3" {
		t.Errorf("unexpected orphans: %v", orphans)
	}
}

func TestNormalizeError(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"dial tcp: lookup nope.invalid: no such host", "DNS failure"},
		{"context deadline exceeded", "Timeout"},
		{"dial tcp 127.0.0.1:1: connect: connection refused", "Connection refused"},
		{"x509: certificate signed by unknown authority", "TLS/certificate error"},
		{"something else entirely", "something else entirely"},
	}

	for _, tt := range tests {
		if got := normalizeError(tt.in); got != tt.want {
			t.Errorf("normalizeError(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
