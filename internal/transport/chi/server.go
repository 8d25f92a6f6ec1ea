// Package chi exposes the creator insight HTTP API.
package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Prachiti-Gaikwad/creator-insight/internal/domain"
	"github.com/Prachiti-Gaikwad/creator-insight/internal/domain/creator"
	"github.com/Prachiti-Gaikwad/creator-insight/internal/domain/query"
	"github.com/Prachiti-Gaikwad/creator-insight/internal/ingest"
	datasetrepo "github.com/Prachiti-Gaikwad/creator-insight/internal/repository/dataset"
	historyrepo "github.com/Prachiti-Gaikwad/creator-insight/internal/repository/history"
	"github.com/Prachiti-Gaikwad/creator-insight/internal/usecase/health"
	"github.com/Prachiti-Gaikwad/creator-insight/internal/usecase/insight"
)

// maxUploadBytes caps the request body read for dataset uploads.
const maxUploadBytes = 32 << 20

// Error codes returned in the JSON error body.
const (
	codeBadRequest          = "bad_request"
	codeValidationFailed    = "validation_failed"
	codeDatasetNotFound     = "dataset_not_found"
	codeMalformedDataset    = "malformed_dataset"
	codeDatasetTooLarge     = "dataset_too_large"
	codeParserProviderError = "parser_provider_error"
	codeInternalError       = "internal_error"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Server holds the HTTP handlers for the creator insight API.
type Server struct {
	datasets       *datasetrepo.Store
	history        *historyrepo.Log
	insight        *insight.Service
	health         *health.Service
	defaultWeights query.Weights
	maxUploadRows  int
	logger         *zap.Logger
	errorHandlers  []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	datasets *datasetrepo.Store,
	hist *historyrepo.Log,
	insightSvc *insight.Service,
	healthSvc *health.Service,
	defaultWeights query.Weights,
	maxUploadRows int,
	logger *zap.Logger,
) *Server {
	s := &Server{
		datasets:       datasets,
		history:        hist,
		insight:        insightSvc,
		health:         healthSvc,
		defaultWeights: defaultWeights,
		maxUploadRows:  maxUploadRows,
		logger:         logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrDatasetNotFound, http.StatusNotFound, codeDatasetNotFound),
		sentinelHandler(domain.ErrInvalidWeights, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrInvalidSpec, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(ingest.ErrTooManyRows, http.StatusBadRequest, codeDatasetTooLarge),
		sentinelHandler(domain.ErrMalformedDataset, http.StatusBadRequest, codeMalformedDataset),
		sentinelHandler(domain.ErrParserProviderError, http.StatusBadGateway, codeParserProviderError),
	}
	return s
}

// Routes mounts all API routes on the given router.
func (s *Server) Routes(r chi.Router) {
	r.Post("/datasets", s.UploadDataset)
	r.Get("/datasets", s.ListDatasets)
	r.Get("/datasets/{datasetID}", s.GetDataset)
	r.Delete("/datasets/{datasetID}", s.DeleteDataset)
	r.Post("/datasets/{datasetID}/query", s.QueryDataset)
	r.Post("/datasets/{datasetID}/export", s.ExportDataset)
	r.Get("/history", s.GetHistory)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// DatasetSummary describes one uploaded dataset.
type DatasetSummary struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Rows        int       `json:"rows"`
	SkippedRows int       `json:"skipped_rows"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// DatasetListResponse is the body of GET /datasets.
type DatasetListResponse struct {
	Items []DatasetSummary `json:"items"`
	Total int              `json:"total"`
}

// UploadDataset handles POST /datasets. The body is either a raw CSV
// table or a multipart form with a "file" field.
func (s *Server) UploadDataset(w http.ResponseWriter, r *http.Request) {
	body, name, err := uploadBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid upload: "+err.Error())
		return
	}
	defer func() { _ = body.Close() }()

	records, skipped, err := ingest.ReadRecords(body, s.maxUploadRows)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	ds := creator.Dataset{
		ID:          uuid.NewString(),
		Name:        name,
		Records:     records,
		SkippedRows: skipped,
		UploadedAt:  time.Now().UTC(),
	}
	if err := s.datasets.Put(r.Context(), ds); err != nil {
		s.handleDomainError(w, err)
		return
	}

	s.logger.Info("Dataset uploaded",
		zap.String("dataset_id", ds.ID),
		zap.String("name", ds.Name),
		zap.Int("rows", len(ds.Records)),
		zap.Int("skipped_rows", ds.SkippedRows),
	)
	writeJSON(w, http.StatusCreated, datasetToSummary(ds))
}

// ListDatasets handles GET /datasets.
func (s *Server) ListDatasets(w http.ResponseWriter, r *http.Request) {
	list, err := s.datasets.List(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]DatasetSummary, len(list))
	for i, ds := range list {
		items[i] = datasetToSummary(ds)
	}
	writeJSON(w, http.StatusOK, DatasetListResponse{Items: items, Total: len(items)})
}

// GetDataset handles GET /datasets/{datasetID}.
func (s *Server) GetDataset(w http.ResponseWriter, r *http.Request) {
	ds, err := s.datasets.Get(r.Context(), chi.URLParam(r, "datasetID"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, datasetToSummary(ds))
}

// DeleteDataset handles DELETE /datasets/{datasetID}.
func (s *Server) DeleteDataset(w http.ResponseWriter, r *http.Request) {
	if err := s.datasets.Delete(r.Context(), chi.URLParam(r, "datasetID")); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// WeightsRequest carries the slider values for the three scoring
// dimensions.
type WeightsRequest struct {
	Engagement    float64 `json:"engagement"`
	Followers     float64 `json:"followers"`
	LikesComments float64 `json:"likes_comments"`
}

// QueryRequest is the body of POST /datasets/{datasetID}/query and
// /export. Weights are optional; absent weights use the configured
// defaults.
type QueryRequest struct {
	Query   string          `json:"query"`
	Weights *WeightsRequest `json:"weights,omitempty"`
}

// FilterResponse is the resolved filter echoed back to the client.
type FilterResponse struct {
	Category          string   `json:"category,omitempty"`
	MinFollowers      *int64   `json:"min_followers,omitempty"`
	MaxFollowers      *int64   `json:"max_followers,omitempty"`
	MinEngagementRate *float64 `json:"min_engagement_rate,omitempty"`
}

// ResultItem is one ranked creator in a query response.
type ResultItem struct {
	creator.Record
	Score float64 `json:"score"`
}

// QueryResponse is the body of POST /datasets/{datasetID}/query.
type QueryResponse struct {
	Filter  FilterResponse `json:"filter"`
	Source  string         `json:"source"`
	Total   int            `json:"total"`
	Results []ResultItem   `json:"results"`
}

// QueryDataset handles POST /datasets/{datasetID}/query.
func (s *Server) QueryDataset(w http.ResponseWriter, r *http.Request) {
	req, weights, ok := s.decodeQueryRequest(w, r)
	if !ok {
		return
	}

	res, err := s.insight.Query(r.Context(), chi.URLParam(r, "datasetID"), req.Query, weights)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]ResultItem, len(res.Scores))
	for i, sc := range res.Scores {
		items[i] = ResultItem{Record: sc.Record, Score: sc.Value}
	}
	writeJSON(w, http.StatusOK, QueryResponse{
		Filter:  specToFilter(res.Spec),
		Source:  string(res.Source),
		Total:   res.Total,
		Results: items,
	})
}

// ExportDataset handles POST /datasets/{datasetID}/export. The same
// request body as a query, answered with the ranked table as CSV.
func (s *Server) ExportDataset(w http.ResponseWriter, r *http.Request) {
	req, weights, ok := s.decodeQueryRequest(w, r)
	if !ok {
		return
	}

	res, err := s.insight.Query(r.Context(), chi.URLParam(r, "datasetID"), req.Query, weights)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="ranked_creators.csv"`)
	w.WriteHeader(http.StatusOK)
	if err := ingest.WriteScores(w, res.Scores); err != nil {
		s.logger.Error("CSV export write failed", zap.Error(err))
	}
}

func (s *Server) decodeQueryRequest(w http.ResponseWriter, r *http.Request) (QueryRequest, query.Weights, bool) {
	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return QueryRequest{}, query.Weights{}, false
	}

	weights := s.defaultWeights
	if req.Weights != nil {
		var err error
		weights, err = query.NewWeights(req.Weights.Engagement, req.Weights.Followers, req.Weights.LikesComments)
		if err != nil {
			s.handleDomainError(w, fmt.Errorf("%w: %w", domain.ErrInvalidWeights, err))
			return QueryRequest{}, query.Weights{}, false
		}
	}
	return req, weights, true
}

// HistoryItem is one logged query in GET /history.
type HistoryItem struct {
	Query     string         `json:"query"`
	Filter    FilterResponse `json:"filter"`
	Weights   WeightsRequest `json:"weights"`
	Source    string         `json:"source"`
	Timestamp time.Time      `json:"timestamp"`
}

// HistoryResponse is the body of GET /history.
type HistoryResponse struct {
	Items []HistoryItem `json:"items"`
	Total int           `json:"total"`
}

// GetHistory handles GET /history. Entries come back oldest first.
func (s *Server) GetHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := s.history.Entries(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]HistoryItem, len(entries))
	for i, e := range entries {
		items[i] = HistoryItem{
			Query:  e.QueryText,
			Filter: specToFilter(e.Spec),
			Weights: WeightsRequest{
				Engagement:    e.Weights.Engagement(),
				Followers:     e.Weights.Followers(),
				LikesComments: e.Weights.LikesComments(),
			},
			Source:    string(e.Source),
			Timestamp: e.Timestamp,
		}
	}
	writeJSON(w, http.StatusOK, HistoryResponse{Items: items, Total: len(items)})
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != health.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// uploadBody resolves the CSV stream and dataset name from either a
// multipart form or a raw body.
func uploadBody(r *http.Request) (io.ReadCloser, string, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			return nil, "", fmt.Errorf("parse multipart form: %w", err)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			return nil, "", fmt.Errorf("missing file field: %w", err)
		}
		return file, header.Filename, nil
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		name = "upload.csv"
	}
	return http.MaxBytesReader(nil, r.Body, maxUploadBytes), name, nil
}

func datasetToSummary(ds creator.Dataset) DatasetSummary {
	return DatasetSummary{
		ID:          ds.ID,
		Name:        ds.Name,
		Rows:        len(ds.Records),
		SkippedRows: ds.SkippedRows,
		UploadedAt:  ds.UploadedAt,
	}
}

func specToFilter(spec query.Spec) FilterResponse {
	return FilterResponse{
		Category:          spec.Category(),
		MinFollowers:      spec.MinFollowers(),
		MaxFollowers:      spec.MaxFollowers(),
		MinEngagementRate: spec.MinEngagementRate(),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrDatasetNotFound,
		domain.ErrInvalidWeights,
		domain.ErrInvalidSpec,
		ingest.ErrTooManyRows,
		domain.ErrMalformedDataset,
		domain.ErrParserProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
