package verify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/ovoronin/lexcite/internal/locate"
	"github.com/ovoronin/lexcite/internal/model"
	"github.com/ovoronin/lexcite/internal/util"
	"github.com/ovoronin/lexcite/internal/worker"
)

// DirectLookup is a secondary verification source that queries a public
// case-law site's search page and parses result titles out of the HTML.
// It honors robots.txt: a disallowed search path degrades the source to
// unavailable instead of scraping anyway.
type DirectLookup struct {
	name       string
	baseURL    string
	weight     float64
	httpClient *http.Client
	userAgent  string
	robots     *util.RobotsChecker
	limiter    *worker.Limiter
	locator    *locate.Locator
}

// NewDirectLookup creates a direct-lookup source for one site
func NewDirectLookup(name, baseURL string, weight float64, timeout time.Duration, httpCfg model.HTTPConfig, limiter *worker.Limiter) *DirectLookup {
	return &DirectLookup{
		name:    name,
		baseURL: strings.TrimRight(baseURL, "/"),
		weight:  weight,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(httpCfg.HTTPProxy, httpCfg.HTTPSProxy, httpCfg.NoProxy),
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: httpCfg.UserAgent,
		robots:    util.NewRobotsChecker(httpCfg.UserAgent, timeout),
		limiter:   limiter,
		locator:   locate.NewLocator(),
	}
}

// Name implements Source
func (s *DirectLookup) Name() string { return s.name }

// Weight implements Source
func (s *DirectLookup) Weight() float64 { return s.weight }

var titleYearRe = regexp.MustCompile(`\((?:[^()]{0,40}?)(1[789]\d{2}|20\d{2})\)`)

// Lookup searches the site for the citation text and turns each result
// link into a candidate. Robots denial, timeouts, 429s, and 5xx are all
// soft failures.
func (s *DirectLookup) Lookup(ctx context.Context, c *model.Citation) ([]Candidate, error) {
	searchURL := fmt.Sprintf("%s/search?q=%s", s.baseURL, url.QueryEscape(c.Text))

	if !s.robots.IsAllowed(ctx, searchURL) {
		return nil, fmt.Errorf("%w: %s robots.txt disallows search", model.ErrSourceUnavailable, s.name)
	}
	if err := s.limiter.Wait(ctx, searchURL); err != nil {
		return nil, fmt.Errorf("%w: %s rate wait: %v", model.ErrSourceUnavailable, s.name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", model.ErrSourceUnavailable, s.name, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: %s returned %d", model.ErrSourceUnavailable, s.name, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 2_000_000))
	if err != nil {
		return nil, fmt.Errorf("%w: %s read body: %v", model.ErrSourceUnavailable, s.name, err)
	}

	doc, err := html.Parse(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("parse results page: %w", err)
	}

	return s.candidatesFromResults(doc), nil
}

// candidatesFromResults extracts result anchors marked with the
// case-link class. The anchor text is a full cite line like
// "Smith v. Jones, 100 F.3d 1, 528 U.S. 23 (2001)"; the locator recovers
// its parallel citation strings for the jurisdiction gate.
func (s *DirectLookup) candidatesFromResults(doc *html.Node) []Candidate {
	links := findAll(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "a" &&
			hasClass(n, "case-link") && attr(n, "href") != ""
	})

	var candidates []Candidate
	for _, link := range links {
		title := nodeText(link)
		if title == "" {
			continue
		}

		name := title
		date := ""
		if m := titleYearRe.FindStringSubmatch(title); m != nil {
			date = m[1]
		}
		// The caption ends at the first embedded citation.
		cites := s.locator.Locate(title)
		if len(cites) > 0 {
			name = strings.TrimRight(strings.TrimSpace(title[:cites[0].StartOffset]), ",")
		} else if idx := strings.Index(title, "("); idx > 0 {
			name = strings.TrimSpace(title[:idx])
		}

		parallels := make([]string, 0, len(cites))
		for _, cite := range cites {
			parallels = append(parallels, cite.Text)
		}

		candidates = append(candidates, Candidate{
			CaseName:          name,
			Date:              date,
			URL:               s.absolute(attr(link, "href")),
			ParallelCitations: parallels,
		})
	}
	return candidates
}

func (s *DirectLookup) absolute(href string) string {
	if strings.HasPrefix(href, "http") {
		return href
	}
	if !strings.HasPrefix(href, "/") {
		href = "/" + href
	}
	return s.baseURL + href
}

// HTML traversal helpers

func findAll(n *html.Node, predicate func(*html.Node) bool) []*html.Node {
	var results []*html.Node

	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if predicate(node) {
			results = append(results, node)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return results
}

func nodeText(n *html.Node) string {
	if n.Type == html.TextNode {
		return strings.TrimSpace(n.Data)
	}
	var buf strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if text := nodeText(c); text != "" {
			if buf.Len() > 0 {
				buf.WriteString(" ")
			}
			buf.WriteString(text)
		}
	}
	return buf.String()
}

func hasClass(n *html.Node, className string) bool {
	for _, a := range n.Attr {
		if a.Key == "class" {
			for _, class := range strings.Fields(a.Val) {
				if class == className {
					return true
				}
			}
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
