package verify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ovoronin/lexcite/internal/model"
)

func directTestServer(t *testing.T, robotsBody string, searchHandler http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		if robotsBody == "" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(robotsBody))
	})
	mux.HandleFunc("/search", searchHandler)
	return httptest.NewServer(mux)
}

func TestDirectLookup_ParsesResultLinks(t *testing.T) {
	page := `<html><body>
		<a class="case-link" href="/cases/smith">Smith v. Jones, 100 F.3d 1, 528 U.S. 23 (1996)</a>
		<a href="/about">About this site</a>
	</body></html>`
	server := directTestServer(t, "", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "100 F.3d 1" {
			t.Errorf("Expected search query '100 F.3d 1', got '%s'", got)
		}
		_, _ = w.Write([]byte(page))
	})
	defer server.Close()

	source := NewDirectLookup("caselaw", server.URL, 0.7, 5*time.Second, testHTTPConfig(), fastLimiter())

	candidates, err := source.Lookup(context.Background(), &model.Citation{Text: "100 F.3d 1"})
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("Expected 1 candidate from the case-link anchor, got %d", len(candidates))
	}

	cand := candidates[0]
	if cand.CaseName != "Smith v. Jones" {
		t.Errorf("Expected caption cut at the first citation, got '%s'", cand.CaseName)
	}
	if cand.Date != "1996" {
		t.Errorf("Expected date '1996', got '%s'", cand.Date)
	}
	if cand.URL != server.URL+"/cases/smith" {
		t.Errorf("Expected absolute result URL, got '%s'", cand.URL)
	}
	if len(cand.ParallelCitations) != 2 {
		t.Fatalf("Expected the cite line's 2 parallel citations recovered, got %d", len(cand.ParallelCitations))
	}
	if cand.ParallelCitations[1] != "528 U.S. 23" {
		t.Errorf("Expected parallel citation '528 U.S. 23', got '%s'", cand.ParallelCitations[1])
	}
}

func TestDirectLookup_RobotsDisallowed(t *testing.T) {
	robots := "User-agent: *\nDisallow: /search\n"
	server := directTestServer(t, robots, func(w http.ResponseWriter, r *http.Request) {
		t.Error("Search must not be fetched when robots.txt disallows it")
	})
	defer server.Close()

	source := NewDirectLookup("caselaw", server.URL, 0.7, 5*time.Second, testHTTPConfig(), fastLimiter())

	_, err := source.Lookup(context.Background(), &model.Citation{Text: "100 F.3d 1"})
	if err == nil {
		t.Fatal("Expected robots denial error")
	}
	if !IsSoftFailure(err) {
		t.Errorf("Expected robots denial classified as soft failure, got: %v", err)
	}
}

func TestDirectLookup_ServerErrorIsSoftFailure(t *testing.T) {
	server := directTestServer(t, "", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	defer server.Close()

	source := NewDirectLookup("caselaw", server.URL, 0.7, 5*time.Second, testHTTPConfig(), fastLimiter())

	_, err := source.Lookup(context.Background(), &model.Citation{Text: "100 F.3d 1"})
	if err == nil {
		t.Fatal("Expected error for server failure")
	}
	if !IsSoftFailure(err) {
		t.Errorf("Expected soft failure, got: %v", err)
	}
}

func TestDirectLookup_NoResults(t *testing.T) {
	server := directTestServer(t, "", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><p>No results found.</p></body></html>`))
	})
	defer server.Close()

	source := NewDirectLookup("caselaw", server.URL, 0.7, 5*time.Second, testHTTPConfig(), fastLimiter())

	candidates, err := source.Lookup(context.Background(), &model.Citation{Text: "999 F.3d 999"})
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if len(candidates) != 0 {
		t.Errorf("Expected no candidates, got %d", len(candidates))
	}
}
