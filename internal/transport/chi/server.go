package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	gochi "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/cvmatch/internal/domain"
	"github.com/kailas-cloud/cvmatch/internal/domain/search/algorithm"
	logpkg "github.com/kailas-cloud/cvmatch/internal/logger"
	"github.com/kailas-cloud/cvmatch/internal/textcache"
	healthuc "github.com/kailas-cloud/cvmatch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/cvmatch/internal/usecase/search"
)

const maxRequestBytes = 64 << 10

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// CacheStatter exposes text cache statistics.
type CacheStatter interface {
	CacheStats() textcache.Stats
}

// Options carries request defaults taken from configuration.
type Options struct {
	DefaultAlgorithm algorithm.Algorithm
	DefaultTopN      int
	MaxTopN          int
}

// Server serves the search API over chi.
type Server struct {
	search        *searchuc.Service
	health        *healthuc.Service
	cache         CacheStatter
	opts          Options
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. cache can be nil.
func NewServer(
	search *searchuc.Service,
	health *healthuc.Service,
	cache CacheStatter,
	opts Options,
	logger *zap.Logger,
) *Server {
	if !opts.DefaultAlgorithm.IsValid() {
		opts.DefaultAlgorithm = algorithm.KMP
	}
	s := &Server{
		search: search,
		health: health,
		cache:  cache,
		opts:   opts,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrRecordNotFound, http.StatusNotFound, CodeRecordNotFound),
		sentinelHandler(domain.ErrInvalidAlgorithm, http.StatusBadRequest, CodeInvalidAlgorithm),
	}
	return s
}

// Routes registers every endpoint on r.
func (s *Server) Routes(r gochi.Router) {
	r.Post("/search", s.Search)
	r.Get("/algorithms", s.ListAlgorithms)
	r.Get("/records/{id}", s.GetRecord)
	r.Get("/cache/stats", s.CacheStats)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, CodeBadRequest, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, CodeBadRequest, "method not allowed")
	})
}

// Search handles POST /search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	algo := s.opts.DefaultAlgorithm
	if req.Algorithm != "" {
		a, ok := algorithm.Parse(req.Algorithm)
		if !ok {
			s.handleDomainError(w, r, fmt.Errorf("%w: %q", domain.ErrInvalidAlgorithm, req.Algorithm))
			return
		}
		algo = a
	}

	topN := s.opts.DefaultTopN
	if req.TopN != nil {
		topN = *req.TopN
	}
	if s.opts.MaxTopN > 0 && topN > s.opts.MaxTopN {
		writeError(w, http.StatusBadRequest, CodeValidationFailed,
			fmt.Sprintf("top_n must be at most %d", s.opts.MaxTopN))
		return
	}

	env := s.search.Run(r.Context(), req.Query, algo, topN)

	status := http.StatusOK
	if env.Error() == domain.ErrInternal.Error() {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, NewEnvelopeResponse(env))
}

// ListAlgorithms handles GET /algorithms.
func (s *Server) ListAlgorithms(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, algorithmsToResponse(s.opts.DefaultAlgorithm))
}

// GetRecord handles GET /records/{id}.
func (s *Server) GetRecord(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(gochi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "applicant id must be a positive integer")
		return
	}

	rec, err := s.search.Record(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recordToResponse(rec))
}

// CacheStats handles GET /cache/stats.
func (s *Server) CacheStats(w http.ResponseWriter, _ *http.Request) {
	var st textcache.Stats
	if s.cache != nil {
		st = s.cache.CacheStats()
	}
	writeJSON(w, http.StatusOK, cacheStatsToResponse(st))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, healthToResponse(report))
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrRecordNotFound,
		domain.ErrInvalidAlgorithm,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	logger := logpkg.FromContext(r.Context())
	logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
