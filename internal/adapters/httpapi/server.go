// Package httpapi exposes the analysis service over a JSON HTTP API.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/phishing-detector/internal/core"
)

// analyzeRequest is the request body for /analyze and /explain
type analyzeRequest struct {
	Email string `json:"email"`
}

// analyzeResponse is the response body for /analyze
type analyzeResponse struct {
	IsPhishing bool           `json:"is_phishing"`
	Confidence float64        `json:"confidence"`
	Details    analyzeDetails `json:"details"`
}

// analyzeDetails carries the boundary feature flags alongside the verdict
type analyzeDetails struct {
	URLsFound     int    `json:"urls_found"`
	SuspiciousTLD bool   `json:"suspicious_tld"`
	URLShortener  bool   `json:"url_shortener"`
	MultipleFrom  bool   `json:"multiple_from"`
	Source        string `json:"source"`
}

// explainResponse is the response body for /explain
type explainResponse struct {
	SuspiciousPatterns []string            `json:"suspicious_patterns"`
	URLAnalysis        []string            `json:"url_analysis"`
	TopFeatures        []topFeatureElement `json:"top_features"`
}

type topFeatureElement struct {
	Feature    string  `json:"feature"`
	Importance float64 `json:"importance"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Server serves the analysis API over HTTP
type Server struct {
	service    *core.AnalysisService
	logger     *zap.Logger
	listenAddr string
	server     *http.Server
}

// NewServer creates a new HTTP API server
func NewServer(service *core.AnalysisService, logger *zap.Logger, listenAddr string) *Server {
	return &Server{
		service:    service,
		logger:     logger,
		listenAddr: listenAddr,
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /analyze", s.handleAnalyze)
	mux.HandleFunc("POST /explain", s.handleExplain)
	mux.HandleFunc("GET /healthz", s.handleHealthz)

	s.server = &http.Server{
		Addr:         s.listenAddr,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	s.logger.Info("HTTP API starting", zap.String("address", s.listenAddr))

	go func() {
		if err := s.server.ListenAndServe(); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				s.logger.Error("HTTP server error", zap.Error(err))
			}
		}
	}()

	return nil
}

// Stop stops the HTTP server
func (s *Server) Stop() error {
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// ProcessEmail analyzes a raw email and returns the result. This is mainly
// used for testing or direct calls.
func (s *Server) ProcessEmail(ctx context.Context, raw []byte) (*core.AnalysisResult, error) {
	return s.service.Analyze(ctx, raw), nil
}

// handleAnalyze classifies the submitted email content
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeRequest(w, r)
	if !ok {
		return
	}

	result := s.service.Analyze(r.Context(), []byte(req.Email))

	s.writeJSON(w, http.StatusOK, analyzeResponse{
		IsPhishing: result.Verdict.IsPhishing,
		Confidence: result.Verdict.Confidence,
		Details: analyzeDetails{
			URLsFound:     result.Features.URLCount,
			SuspiciousTLD: result.Features.HasSuspiciousTLD,
			URLShortener:  result.Features.HasURLShortener,
			MultipleFrom:  result.Features.HasMultipleFrom,
			Source:        result.Verdict.Source,
		},
	})
}

// handleExplain returns the rationale for the submitted email content
func (s *Server) handleExplain(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeRequest(w, r)
	if !ok {
		return
	}

	explanation := s.service.Explain([]byte(req.Email))

	features := make([]topFeatureElement, 0, len(explanation.TopFeatures))
	for _, f := range explanation.TopFeatures {
		features = append(features, topFeatureElement{
			Feature:    f.Feature,
			Importance: f.Importance,
		})
	}

	s.writeJSON(w, http.StatusOK, explainResponse{
		SuspiciousPatterns: explanation.SuspiciousPatterns,
		URLAnalysis:        explanation.URLAnalysis,
		TopFeatures:        features,
	})
}

// handleHealthz reports liveness
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeRequest reads and validates the JSON request body. A missing email
// field is the only surfaced failure in the system.
func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request) (*analyzeRequest, bool) {
	req := &analyzeRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return nil, false
	}
	if req.Email == "" {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "no email content provided"})
		return nil, false
	}
	return req, true
}

// writeJSON writes a JSON response with the given status
func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("Failed to encode response", zap.Error(err))
	}
}
