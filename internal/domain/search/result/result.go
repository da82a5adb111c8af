package result

import (
	"github.com/kailas-cloud/cvmatch/internal/domain/resume"
)

// Tally maps a display key to a positive occurrence count.
type Tally map[string]int

// Add increments key by n. Non-positive n is ignored so every stored count stays > 0.
func (t Tally) Add(key string, n int) {
	if n <= 0 {
		return
	}
	t[key] += n
}

// Total returns the sum of all counts.
func (t Tally) Total() int {
	total := 0
	for _, n := range t {
		total += n
	}
	return total
}

// Hit is a scored résumé: a record plus its per-keyword match tally.
type Hit struct {
	applicantID int64
	name        string
	cvPath      string
	category    string
	position    string
	matches     Tally
	total       int
}

// NewHit creates a hit for rec. Returns false when the tally sums to zero,
// since a hit exists only with at least one match.
func NewHit(rec resume.Record, matches Tally) (Hit, bool) {
	clean := make(Tally, len(matches))
	for k, n := range matches {
		clean.Add(k, n)
	}
	total := clean.Total()
	if total == 0 {
		return Hit{}, false
	}
	return Hit{
		applicantID: rec.ID(),
		name:        rec.Name(),
		cvPath:      rec.CVPath(),
		category:    rec.Category(),
		position:    rec.Position(),
		matches:     clean,
		total:       total,
	}, true
}

// ApplicantID returns the applicant identifier.
func (h *Hit) ApplicantID() int64 { return h.applicantID }

// Name returns the applicant display name.
func (h *Hit) Name() string { return h.name }

// CVPath returns the résumé document path.
func (h *Hit) CVPath() string { return h.cvPath }

// Category returns the pass-through résumé category.
func (h *Hit) Category() string { return h.category }

// Position returns the pass-through job position.
func (h *Hit) Position() string { return h.position }

// KeywordMatches returns the per-keyword tally.
func (h *Hit) KeywordMatches() Tally { return h.matches }

// TotalMatches returns the sum of KeywordMatches.
func (h *Hit) TotalMatches() int { return h.total }
