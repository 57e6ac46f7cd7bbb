package cluster

import (
	"sort"
	"strings"

	"github.com/ovoronin/lexcite/internal/model"
)

// Clusterer groups citations that are parallel references to the same
// decision. Two merge rules apply per candidate pair:
//
//   - Proximity (primary): spans within the threshold merge
//     unconditionally. Extraction noise is common; physical adjacency is
//     the stronger signal that two spans were written as one group.
//   - Data match (secondary, only outside proximity): both extracted
//     case name (normalized) and year match exactly and neither is the
//     unknown sentinel.
//
// Canonical/verified data is never a merge signal. It may only split an
// existing cluster afterwards, via SplitByCanonicalIdentity.
type Clusterer struct {
	proximity int
}

// NewClusterer creates a clusterer with the configured proximity threshold
func NewClusterer(cfg model.PipelineConfig) *Clusterer {
	threshold := cfg.ProximityThreshold
	if threshold <= 0 {
		threshold = 200
	}
	return &Clusterer{proximity: threshold}
}

// Cluster assigns every citation to exactly one cluster and returns the
// clusters ordered by first-member document position. Members keep their
// own extracted fields unchanged; singleton clusters are expected.
func (cl *Clusterer) Cluster(citations []*model.Citation) []*model.Cluster {
	if len(citations) == 0 {
		return []*model.Cluster{}
	}

	parent := make([]int, len(citations))
	for i := range parent {
		parent[i] = i
	}

	for i := 0; i < len(citations); i++ {
		for j := i + 1; j < len(citations); j++ {
			a, b := citations[i], citations[j]
			if spanDistance(a, b) <= cl.proximity {
				union(parent, i, j)
				continue
			}
			if extractedDataMatch(a, b) {
				union(parent, i, j)
			}
		}
	}

	return buildClusters(citations, parent)
}

// SplitByCanonicalIdentity is the post-hoc split check: after
// verification, a proximity-formed cluster whose members resolved to two
// or more mutually inconsistent canonical identities is split by
// identity. This models string-cites of distinct authorities sitting
// close together. Members keep their original extracted data; unverified
// members stay with the sub-cluster of their nearest verified neighbor.
func SplitByCanonicalIdentity(clusters []*model.Cluster, citations []*model.Citation) []*model.Cluster {
	byID := make(map[int]*model.Citation, len(citations))
	for _, c := range citations {
		byID[c.ID] = c
	}

	var out []*model.Cluster
	for _, cluster := range clusters {
		identities := distinctIdentities(cluster, byID)
		if len(identities) < 2 {
			out = append(out, cluster)
			continue
		}
		out = append(out, splitOne(cluster, byID)...)
	}

	// A split sub-cluster can start anywhere in the document, so the
	// whole list is re-sorted by first-member position before IDs are
	// reassigned.
	sort.Slice(out, func(i, j int) bool {
		return byID[out[i].MemberIDs[0]].StartOffset < byID[out[j].MemberIDs[0]].StartOffset
	})
	renumber(out, byID)
	return out
}

// spanDistance is the character gap between two spans (0 when they overlap)
func spanDistance(a, b *model.Citation) int {
	if a.StartOffset > b.StartOffset {
		a, b = b, a
	}
	gap := b.StartOffset - a.EndOffset
	if gap < 0 {
		return 0
	}
	return gap
}

// extractedDataMatch applies the secondary merge rule: exact normalized
// name and year, both known.
func extractedDataMatch(a, b *model.Citation) bool {
	if !a.HasExtractedName() || !b.HasExtractedName() {
		return false
	}
	if !a.HasExtractedYear() || !b.HasExtractedYear() {
		return false
	}
	return normalizeName(a.ExtractedCaseName) == normalizeName(b.ExtractedCaseName) &&
		a.ExtractedYear == b.ExtractedYear
}

// normalizeName lowercases and strips punctuation so "SMITH v. JONES,"
// and "Smith v Jones" compare equal.
func normalizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func find(parent []int, i int) int {
	for parent[i] != i {
		parent[i] = parent[parent[i]]
		i = parent[i]
	}
	return i
}

func union(parent []int, i, j int) {
	ri, rj := find(parent, i), find(parent, j)
	if ri != rj {
		parent[rj] = ri
	}
}

// buildClusters materializes union-find components as ordered clusters
func buildClusters(citations []*model.Citation, parent []int) []*model.Cluster {
	groups := make(map[int][]*model.Citation)
	for i, c := range citations {
		root := find(parent, i)
		groups[root] = append(groups[root], c)
	}

	clusters := make([]*model.Cluster, 0, len(groups))
	for _, members := range groups {
		sort.Slice(members, func(i, j int) bool {
			return members[i].StartOffset < members[j].StartOffset
		})
		clusters = append(clusters, newCluster(members))
	}

	sort.Slice(clusters, func(i, j int) bool {
		return firstStart(clusters[i], citations) < firstStart(clusters[j], citations)
	})
	byID := make(map[int]*model.Citation, len(citations))
	for _, c := range citations {
		byID[c.ID] = c
	}
	renumber(clusters, byID)
	return clusters
}

// newCluster builds a cluster from members already in document order.
// Representatives are computed, never stored as ground truth: name from
// the first member, year from the last.
func newCluster(members []*model.Citation) *model.Cluster {
	ids := make([]int, len(members))
	for i, m := range members {
		ids[i] = m.ID
	}
	return &model.Cluster{
		MemberIDs:                   ids,
		RepresentativeName:          members[0].ExtractedCaseName,
		RepresentativeYear:          members[len(members)-1].ExtractedYear,
		AggregateVerificationStatus: model.AggregateStatus(members),
	}
}

// renumber reassigns sequential cluster IDs in document order, tags
// members, and refreshes computed fields.
func renumber(clusters []*model.Cluster, byID map[int]*model.Citation) {
	for i, cluster := range clusters {
		cluster.ID = i
		members := make([]*model.Citation, 0, len(cluster.MemberIDs))
		for _, id := range cluster.MemberIDs {
			c := byID[id]
			c.ClusterID = i
			members = append(members, c)
		}
		cluster.RepresentativeName = members[0].ExtractedCaseName
		cluster.RepresentativeYear = members[len(members)-1].ExtractedYear
		cluster.AggregateVerificationStatus = model.AggregateStatus(members)
	}
}

func firstStart(cluster *model.Cluster, citations []*model.Citation) int {
	for _, c := range citations {
		if c.ID == cluster.MemberIDs[0] {
			return c.StartOffset
		}
	}
	return 0
}

// canonicalIdentity keys a verified citation's resolved identity. The
// canonical URL wins when present; otherwise normalized name plus date.
func canonicalIdentity(c *model.Citation) string {
	if c.VerificationStatus != model.StatusVerified {
		return ""
	}
	if c.CanonicalURL != "" {
		return c.CanonicalURL
	}
	if c.CanonicalName != "" {
		return normalizeName(c.CanonicalName) + "|" + c.CanonicalDate
	}
	return ""
}

func distinctIdentities(cluster *model.Cluster, byID map[int]*model.Citation) map[string]bool {
	identities := make(map[string]bool)
	for _, id := range cluster.MemberIDs {
		if key := canonicalIdentity(byID[id]); key != "" {
			identities[key] = true
		}
	}
	return identities
}

// splitOne partitions one cluster's members by canonical identity.
// Members without an identity follow their nearest verified neighbor by
// document offset.
func splitOne(cluster *model.Cluster, byID map[int]*model.Citation) []*model.Cluster {
	members := make([]*model.Citation, 0, len(cluster.MemberIDs))
	for _, id := range cluster.MemberIDs {
		members = append(members, byID[id])
	}

	assign := make(map[int]string, len(members)) // citation ID -> identity key
	for _, m := range members {
		if key := canonicalIdentity(m); key != "" {
			assign[m.ID] = key
		}
	}
	for _, m := range members {
		if _, ok := assign[m.ID]; ok {
			continue
		}
		assign[m.ID] = nearestIdentity(m, members)
	}

	// Sub-clusters in document order of their first member.
	var order []string
	grouped := make(map[string][]*model.Citation)
	for _, m := range members {
		key := assign[m.ID]
		if _, seen := grouped[key]; !seen {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], m)
	}

	out := make([]*model.Cluster, 0, len(order))
	for _, key := range order {
		out = append(out, newCluster(grouped[key]))
	}
	return out
}

func nearestIdentity(m *model.Citation, members []*model.Citation) string {
	bestKey := ""
	bestDist := -1
	for _, other := range members {
		key := canonicalIdentity(other)
		if key == "" {
			continue
		}
		d := spanDistance(m, other)
		if bestDist < 0 || d < bestDist {
			bestDist = d
			bestKey = key
		}
	}
	return bestKey
}
