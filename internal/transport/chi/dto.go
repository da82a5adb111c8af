package chi

import (
	"github.com/kailas-cloud/cvmatch/internal/domain/resume"
	"github.com/kailas-cloud/cvmatch/internal/domain/search/algorithm"
	"github.com/kailas-cloud/cvmatch/internal/domain/search/result"
	healthuc "github.com/kailas-cloud/cvmatch/internal/usecase/health"
	"github.com/kailas-cloud/cvmatch/internal/textcache"
)

// ErrorCode is a stable machine-readable error identifier.
type ErrorCode string

// Error codes returned in ErrorResponse.
const (
	CodeBadRequest       ErrorCode = "bad_request"
	CodeUnauthorized     ErrorCode = "unauthorized"
	CodeValidationFailed ErrorCode = "validation_failed"
	CodeInvalidAlgorithm ErrorCode = "invalid_algorithm"
	CodeRecordNotFound   ErrorCode = "record_not_found"
	CodeInternalError    ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// SearchRequest is the body of POST /search.
// Algorithm accepts short tags and long names; empty means the configured default.
// A missing TopN means the configured default.
type SearchRequest struct {
	Query     string `json:"query"`
	Algorithm string `json:"algorithm,omitempty"`
	TopN      *int   `json:"top_n,omitempty"`
}

// HitResponse is one ranked résumé.
type HitResponse struct {
	ApplicantID    int64          `json:"applicant_id"`
	Name           string         `json:"name"`
	CVPath         string         `json:"cv_path"`
	Category       string         `json:"category,omitempty"`
	Position       string         `json:"position,omitempty"`
	TotalMatches   int            `json:"total_matches"`
	KeywordMatches map[string]int `json:"keyword_matches"`
}

// EnvelopeResponse is the wire form of a query outcome.
type EnvelopeResponse struct {
	Results         []HitResponse `json:"results"`
	AlgorithmTimeMS float64       `json:"algorithm_time_ms"`
	ScannedCount    int           `json:"scanned_count"`
	AlgorithmTag    string        `json:"algorithm_tag"`
	Threshold       *float64      `json:"threshold,omitempty"`
	Error           string        `json:"error,omitempty"`
}

// NewEnvelopeResponse converts an envelope to its wire form.
// A failed envelope is serialized with empty results, even when a cancelled
// query finalized some hits.
func NewEnvelopeResponse(env result.Envelope) EnvelopeResponse {
	resp := EnvelopeResponse{
		Results:         []HitResponse{},
		AlgorithmTimeMS: env.AlgorithmTimeMS(),
		ScannedCount:    env.ScannedCount(),
		AlgorithmTag:    string(env.Algorithm()),
		Error:           env.Error(),
	}
	if th, ok := env.Threshold(); ok {
		resp.Threshold = &th
	}
	if !env.OK() {
		return resp
	}
	for _, h := range env.Results() {
		resp.Results = append(resp.Results, HitResponse{
			ApplicantID:    h.ApplicantID(),
			Name:           h.Name(),
			CVPath:         h.CVPath(),
			Category:       h.Category(),
			Position:       h.Position(),
			TotalMatches:   h.TotalMatches(),
			KeywordMatches: h.KeywordMatches(),
		})
	}
	return resp
}

// AlgorithmResponse describes one supported algorithm.
type AlgorithmResponse struct {
	Tag   string `json:"tag"`
	Name  string `json:"name"`
	Fuzzy bool   `json:"fuzzy"`
}

// AlgorithmListResponse is the body of GET /algorithms.
type AlgorithmListResponse struct {
	Algorithms []AlgorithmResponse `json:"algorithms"`
	Default    string              `json:"default"`
}

func algorithmsToResponse(def algorithm.Algorithm) AlgorithmListResponse {
	items := make([]AlgorithmResponse, 0, len(algorithm.All))
	for _, a := range algorithm.All {
		items = append(items, AlgorithmResponse{Tag: string(a), Name: a.DisplayName(), Fuzzy: a.IsFuzzy()})
	}
	return AlgorithmListResponse{Algorithms: items, Default: string(def)}
}

// RecordResponse is the body of GET /records/{id}.
type RecordResponse struct {
	ApplicantID int64  `json:"applicant_id"`
	Name        string `json:"name"`
	CVPath      string `json:"cv_path,omitempty"`
	Category    string `json:"category,omitempty"`
	Position    string `json:"position,omitempty"`
	HasRawText  bool   `json:"has_raw_text"`
}

func recordToResponse(r resume.Record) RecordResponse {
	return RecordResponse{
		ApplicantID: r.ID(),
		Name:        r.Name(),
		CVPath:      r.CVPath(),
		Category:    r.Category(),
		Position:    r.Position(),
		HasRawText:  r.HasRawText(),
	}
}

// CacheStatsResponse is the body of GET /cache/stats.
type CacheStatsResponse struct {
	Entries     int   `json:"entries"`
	FailedPaths int   `json:"failed_paths"`
	Bytes       int64 `json:"bytes"`
	Truncated   int   `json:"truncated"`
}

func cacheStatsToResponse(st textcache.Stats) CacheStatsResponse {
	return CacheStatsResponse{
		Entries:     st.Entries,
		FailedPaths: st.FailedPaths,
		Bytes:       st.Bytes,
		Truncated:   st.Truncated,
	}
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string              `json:"status"`
	Checks  map[string]string   `json:"checks"`
	Records int                 `json:"records"`
	Cache   *CacheStatsResponse `json:"cache,omitempty"`
}

func healthToResponse(r healthuc.Report) HealthResponse {
	checks := make(map[string]string, len(r.Checks))
	for k, v := range r.Checks {
		checks[k] = string(v)
	}
	resp := HealthResponse{Status: string(r.Status), Checks: checks, Records: r.Records}
	if r.Cache != nil {
		c := cacheStatsToResponse(*r.Cache)
		resp.Cache = &c
	}
	return resp
}
