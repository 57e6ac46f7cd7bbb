package model

// Cluster is an ordered set of citations believed to denote one decision.
// Membership is decided only from proximity or extracted data; canonical
// data may split a cluster after verification but never merge one.
type Cluster struct {
	ID        int   `json:"cluster_id"`
	MemberIDs []int `json:"member_citation_ids"` // Citation IDs in document order

	// Representatives are computed from members, never stored as ground
	// truth: name comes from the first member, year from the last.
	RepresentativeName string `json:"representative_name"`
	RepresentativeYear string `json:"representative_year"`

	AggregateVerificationStatus VerificationStatus `json:"aggregate_verification_status"`
}

// AggregateStatus derives a cluster-level status from its members:
// verified if any member verified, else rejected if any rejected,
// else unverified.
func AggregateStatus(members []*Citation) VerificationStatus {
	status := StatusUnverified
	for _, m := range members {
		switch m.VerificationStatus {
		case StatusVerified:
			return StatusVerified
		case StatusRejected:
			status = StatusRejected
		}
	}
	return status
}
