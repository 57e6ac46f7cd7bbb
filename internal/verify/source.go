package verify

import (
	"context"

	"github.com/ovoronin/lexcite/internal/model"
)

// Source is one external authoritative lookup. Implementations return
// zero or more candidates; a soft failure (timeout, rate limit, robots
// denial) is reported as an error wrapping model.ErrSourceUnavailable so
// the resolver advances the chain instead of failing the citation.
type Source interface {
	// Name identifies the source in config, output, and notices
	Name() string

	// Weight is the source-priority factor in candidate scoring
	Weight() float64

	// Lookup queries the source for records matching the citation. The
	// citation's extracted name and year are hints only; they are never
	// sent as hard filters.
	Lookup(ctx context.Context, c *model.Citation) ([]Candidate, error)
}

// Candidate is one record offered by a source before validation
type Candidate struct {
	CaseName          string   // Canonical case name held by the source
	Date              string   // Decision date, ISO or bare year
	URL               string   // Authoritative record URL
	Court             string   // Deciding court, when the source knows it
	Jurisdiction      string   // Source-asserted jurisdiction, when known
	ParallelCitations []string // The record's own citation strings
}

// Year returns the four-digit year portion of the candidate date
func (c Candidate) Year() string {
	if len(c.Date) >= 4 {
		return c.Date[:4]
	}
	return ""
}

// orderSources sorts registered sources by the configured priority list.
// Unknown names in the list are ignored; unlisted sources keep their
// registration order after the listed ones.
func orderSources(sources []Source, priority []string) []Source {
	ordered := make([]Source, 0, len(sources))
	used := make(map[string]bool, len(sources))

	for _, name := range priority {
		for _, s := range sources {
			if s.Name() == name && !used[name] {
				ordered = append(ordered, s)
				used[name] = true
			}
		}
	}
	for _, s := range sources {
		if !used[s.Name()] {
			ordered = append(ordered, s)
		}
	}
	return ordered
}
