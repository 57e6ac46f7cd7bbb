package verify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/ovoronin/lexcite/internal/model"
	"github.com/ovoronin/lexcite/internal/util"
	"github.com/ovoronin/lexcite/internal/worker"
)

// DefaultCourtListenerURL is the production endpoint for the primary
// structured source
const DefaultCourtListenerURL = "https://www.courtlistener.com"

// CourtListener is the primary structured verification source: a
// citation-lookup API returning JSON records with canonical metadata and
// each record's own parallel citations.
type CourtListener struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	limiter    *worker.Limiter
}

// NewCourtListener creates the primary source. An empty baseURL selects
// the production endpoint; tests point it at a local server.
func NewCourtListener(baseURL string, timeout time.Duration, httpCfg model.HTTPConfig, limiter *worker.Limiter) *CourtListener {
	if baseURL == "" {
		baseURL = DefaultCourtListenerURL
	}
	return &CourtListener{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(httpCfg.HTTPProxy, httpCfg.HTTPSProxy, httpCfg.NoProxy),
			},
		},
		userAgent: httpCfg.UserAgent,
		limiter:   limiter,
	}
}

// Name implements Source
func (s *CourtListener) Name() string { return "courtlistener" }

// Weight implements Source; the structured primary outranks scrapers
func (s *CourtListener) Weight() float64 { return 1.0 }

type clRecord struct {
	CaseName     string   `json:"case_name"`
	DateFiled    string   `json:"date_filed"`
	AbsoluteURL  string   `json:"absolute_url"`
	Court        string   `json:"court"`
	Jurisdiction string   `json:"jurisdiction"`
	Citations    []string `json:"citations"`
}

type clResponse struct {
	Results []clRecord `json:"results"`
}

// Lookup queries the citation-lookup endpoint. 429 and 5xx responses and
// transport errors are soft failures; a clean empty result set means the
// source has no record.
func (s *CourtListener) Lookup(ctx context.Context, c *model.Citation) ([]Candidate, error) {
	lookupURL := fmt.Sprintf("%s/api/rest/v4/citation-lookup/?citation=%s",
		s.baseURL, url.QueryEscape(c.Text))

	if err := s.limiter.Wait(ctx, lookupURL); err != nil {
		return nil, fmt.Errorf("%w: %s rate wait: %v", model.ErrSourceUnavailable, s.Name(), err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, lookupURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "application/json")
	if token := os.Getenv("COURTLISTENER_API_TOKEN"); token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", model.ErrSourceUnavailable, s.Name(), err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: %s returned %d", model.ErrSourceUnavailable, s.Name(), resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 2_000_000))
	if err != nil {
		return nil, fmt.Errorf("%w: %s read body: %v", model.ErrSourceUnavailable, s.Name(), err)
	}

	var parsed clResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	candidates := make([]Candidate, 0, len(parsed.Results))
	for _, rec := range parsed.Results {
		candidates = append(candidates, Candidate{
			CaseName:          rec.CaseName,
			Date:              rec.DateFiled,
			URL:               s.absolute(rec.AbsoluteURL),
			Court:             rec.Court,
			Jurisdiction:      rec.Jurisdiction,
			ParallelCitations: rec.Citations,
		})
	}
	return candidates, nil
}

func (s *CourtListener) absolute(path string) string {
	if path == "" || strings.HasPrefix(path, "http") {
		return path
	}
	return s.baseURL + path
}

// IsSoftFailure reports whether a source error should advance the chain
// rather than mark the citation
func IsSoftFailure(err error) bool {
	return errors.Is(err, model.ErrSourceUnavailable)
}
