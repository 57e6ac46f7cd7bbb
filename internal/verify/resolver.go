package verify

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/ovoronin/lexcite/internal/cache"
	"github.com/ovoronin/lexcite/internal/model"
)

// Resolver confirms citation identity against an ordered chain of
// external sources. It is a pure function with respect to clustering:
// it mutates only the citation's verification fields and never touches
// cluster membership during the main pass.
//
// The lookup cache is an injected collaborator keyed by normalized
// citation string, never process-wide state.
type Resolver struct {
	sources       []Source
	gates         *gates
	store         cache.Cache
	timeout       time.Duration
	maxWorkers    int
	verifiedTTL   time.Duration
	unverifiedTTL time.Duration
}

// Outcome is the result of resolving one citation. Terminal outcomes are
// cached so repeated checks of the same citation skip the network.
type Outcome struct {
	Status        model.VerificationStatus `json:"status"`
	CanonicalName string                   `json:"canonical_name,omitempty"`
	CanonicalDate string                   `json:"canonical_date,omitempty"`
	CanonicalURL  string                   `json:"canonical_url,omitempty"`
	Source        string                   `json:"source,omitempty"`
	Confidence    float64                  `json:"confidence"`
	Notices       []string                 `json:"notices,omitempty"`
}

// NewResolver creates a resolver with sources ordered per configuration
func NewResolver(cfg *model.Config, store cache.Cache, sources ...Source) *Resolver {
	maxWorkers := cfg.Verify.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 8
	}
	timeout := cfg.Verify.PerSourceTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if store == nil {
		store = cache.Nop{}
	}

	return &Resolver{
		sources:       orderSources(sources, cfg.Verify.SourcePriorityOrder),
		gates:         newGates(cfg.Verify),
		store:         store,
		timeout:       timeout,
		maxWorkers:    maxWorkers,
		verifiedTTL:   cfg.Cache.DiskTTL,
		unverifiedTTL: cfg.Cache.UnverifiedTTL,
	}
}

// Sources returns the resolver's ordered source chain
func (r *Resolver) Sources() []Source {
	return r.sources
}

// ResolveAll resolves every citation, bounded by the worker limit, and
// returns the accumulated degraded-source notices. A failure on one
// citation never aborts the rest; every citation ends with a status.
func (r *Resolver) ResolveAll(ctx context.Context, citations []*model.Citation) []string {
	if len(citations) == 0 {
		return nil
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		notices   []string
		semaphore = make(chan struct{}, r.maxWorkers)
	)

	for _, c := range citations {
		wg.Add(1)
		go func(c *model.Citation) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				return
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			outcome := r.Resolve(ctx, c)
			apply(c, outcome)

			if len(outcome.Notices) > 0 {
				mu.Lock()
				notices = append(notices, outcome.Notices...)
				mu.Unlock()
			}
		}(c)
	}

	wg.Wait()
	return notices
}

// Resolve runs the source chain for one citation. The extracted name and
// year are hints for the validation gates only. No candidate passing all
// gates across all sources yields unverified; a candidate offered but
// failing validation yields rejected.
func (r *Resolver) Resolve(ctx context.Context, c *model.Citation) Outcome {
	key := cache.Key(c.Text)
	if cached, found := r.store.Get(key); found {
		var outcome Outcome
		if err := json.Unmarshal(cached, &outcome); err == nil {
			outcome.Notices = nil // Notices describe the original run's availability
			return outcome
		}
	}

	var (
		best         Candidate
		bestScore    float64
		bestSource   string
		sawCandidate bool
		notices      []string
	)

	for _, source := range r.sources {
		sctx, cancel := context.WithTimeout(ctx, r.timeout)
		candidates, err := source.Lookup(sctx, c)
		cancel()

		if err != nil {
			// Soft failures advance the chain; anything else is recorded
			// the same way, since one bad source must never fail the run.
			notices = append(notices, err.Error())
			continue
		}

		for _, cand := range candidates {
			sawCandidate = true
			pass, gateNotices := r.gates.check(c, cand)
			notices = append(notices, gateNotices...)
			if !pass {
				continue
			}

			score := candidateScore(c, cand) * source.Weight()
			if score > bestScore {
				best = cand
				bestScore = score
				bestSource = source.Name()
			}
		}
	}

	outcome := Outcome{Status: model.StatusUnverified, Notices: notices}
	switch {
	case bestSource != "":
		outcome.Status = model.StatusVerified
		outcome.CanonicalName = best.CaseName
		outcome.CanonicalDate = best.Date
		outcome.CanonicalURL = best.URL
		outcome.Source = bestSource
		outcome.Confidence = bestScore
	case sawCandidate:
		outcome.Status = model.StatusRejected
	}

	r.cacheOutcome(key, outcome)
	return outcome
}

// candidateScore ranks passing candidates by name similarity; when the
// extracted name is unknown the source's word is all there is.
func candidateScore(c *model.Citation, cand Candidate) float64 {
	if !c.HasExtractedName() {
		return 0.5
	}
	return Similarity(c.ExtractedCaseName, cand.CaseName)
}

func (r *Resolver) cacheOutcome(key string, outcome Outcome) {
	ttl := r.unverifiedTTL
	if outcome.Status == model.StatusVerified {
		ttl = r.verifiedTTL
	}

	stored := outcome
	stored.Notices = nil
	if data, err := json.Marshal(stored); err == nil {
		_ = r.store.Set(key, data, ttl)
	}
}

// apply writes an outcome onto its citation. Canonical fields are
// populated only for verified citations.
func apply(c *model.Citation, outcome Outcome) {
	c.VerificationStatus = outcome.Status
	if outcome.Status != model.StatusVerified {
		return
	}
	c.CanonicalName = outcome.CanonicalName
	c.CanonicalDate = outcome.CanonicalDate
	c.CanonicalURL = outcome.CanonicalURL
	c.Source = outcome.Source
	if outcome.Confidence > c.Confidence {
		c.Confidence = outcome.Confidence
	}
}
