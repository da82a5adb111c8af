package search

import (
	"sort"

	"github.com/kailas-cloud/cvmatch/internal/domain/search/result"
)

// rank orders hits by total matches descending, then applicant id ascending,
// and keeps the first topN. topN <= 0 yields an empty slice.
func rank(hits []result.Hit, topN int) []result.Hit {
	if topN <= 0 {
		return []result.Hit{}
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].TotalMatches() != hits[j].TotalMatches() {
			return hits[i].TotalMatches() > hits[j].TotalMatches()
		}
		return hits[i].ApplicantID() < hits[j].ApplicantID()
	})

	if len(hits) > topN {
		hits = hits[:topN]
	}
	return hits
}
