package verify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ovoronin/lexcite/internal/model"
	"github.com/ovoronin/lexcite/internal/worker"
)

func testHTTPConfig() model.HTTPConfig {
	return model.HTTPConfig{UserAgent: "lexcite-test/0.1"}
}

func fastLimiter() *worker.Limiter {
	return worker.NewLimiter(1000, 100)
}

func TestCourtListener_Lookup(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/rest/v4/citation-lookup/" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("citation"); got != "384 U.S. 436" {
			t.Errorf("Expected citation query '384 U.S. 436', got '%s'", got)
		}
		if r.Header.Get("User-Agent") != "lexcite-test/0.1" {
			t.Errorf("Expected test user agent, got '%s'", r.Header.Get("User-Agent"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results": [{
			"case_name": "Miranda v. Arizona",
			"date_filed": "1966-06-13",
			"absolute_url": "/opinion/107252/miranda-v-arizona/",
			"court": "Supreme Court of the United States",
			"jurisdiction": "U.S.",
			"citations": ["384 U.S. 436", "86 S. Ct. 1602"]
		}]}`))
	}))
	defer server.Close()

	source := NewCourtListener(server.URL, 5*time.Second, testHTTPConfig(), fastLimiter())

	candidates, err := source.Lookup(context.Background(), &model.Citation{Text: "384 U.S. 436"})
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("Expected 1 candidate, got %d", len(candidates))
	}

	cand := candidates[0]
	if cand.CaseName != "Miranda v. Arizona" {
		t.Errorf("Expected case name 'Miranda v. Arizona', got '%s'", cand.CaseName)
	}
	if cand.Date != "1966-06-13" {
		t.Errorf("Expected date '1966-06-13', got '%s'", cand.Date)
	}
	if cand.Year() != "1966" {
		t.Errorf("Expected year '1966', got '%s'", cand.Year())
	}
	if cand.URL != server.URL+"/opinion/107252/miranda-v-arizona/" {
		t.Errorf("Expected relative URL made absolute, got '%s'", cand.URL)
	}
	if cand.Jurisdiction != "U.S." {
		t.Errorf("Expected jurisdiction 'U.S.', got '%s'", cand.Jurisdiction)
	}
	if len(cand.ParallelCitations) != 2 {
		t.Errorf("Expected 2 parallel citations, got %d", len(cand.ParallelCitations))
	}
}

func TestCourtListener_NoRecord(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	source := NewCourtListener(server.URL, 5*time.Second, testHTTPConfig(), fastLimiter())

	candidates, err := source.Lookup(context.Background(), &model.Citation{Text: "999 F.3d 999"})
	if err != nil {
		t.Fatalf("Expected 404 treated as no record, got error: %v", err)
	}
	if len(candidates) != 0 {
		t.Errorf("Expected no candidates, got %d", len(candidates))
	}
}

func TestCourtListener_EmptyResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results": []}`))
	}))
	defer server.Close()

	source := NewCourtListener(server.URL, 5*time.Second, testHTTPConfig(), fastLimiter())

	candidates, err := source.Lookup(context.Background(), &model.Citation{Text: "999 F.3d 999"})
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if len(candidates) != 0 {
		t.Errorf("Expected no candidates, got %d", len(candidates))
	}
}

func TestCourtListener_ServerErrorIsSoftFailure(t *testing.T) {
	for _, status := range []int{http.StatusInternalServerError, http.StatusTooManyRequests} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		source := NewCourtListener(server.URL, 5*time.Second, testHTTPConfig(), fastLimiter())
		_, err := source.Lookup(context.Background(), &model.Citation{Text: "384 U.S. 436"})
		server.Close()

		if err == nil {
			t.Fatalf("Expected error for status %d", status)
		}
		if !IsSoftFailure(err) {
			t.Errorf("Expected status %d classified as soft failure, got: %v", status, err)
		}
	}
}

func TestCourtListener_DefaultBaseURL(t *testing.T) {
	source := NewCourtListener("", 5*time.Second, testHTTPConfig(), fastLimiter())
	if source.baseURL != DefaultCourtListenerURL {
		t.Errorf("Expected production endpoint default, got '%s'", source.baseURL)
	}
	if source.Name() != "courtlistener" {
		t.Errorf("Expected source name 'courtlistener', got '%s'", source.Name())
	}
}
