package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/SaesolAhn/KB-infodigest/internal/common"
	"github.com/SaesolAhn/KB-infodigest/internal/interfaces"
	"github.com/SaesolAhn/KB-infodigest/internal/models"
)

// Server exposes the stock engine over HTTP.
type Server struct {
	stocks interfaces.StockService
	logger *common.Logger
}

// NewServer creates a new API server.
func NewServer(stocks interfaces.StockService, logger *common.Logger) *Server {
	return &Server{
		stocks: stocks,
		logger: logger,
	}
}

// Handler builds the HTTP handler with all routes and middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.HandleFunc("/api/stock", s.handleStock)
	mux.HandleFunc("/api/stock/resolve", s.handleResolve)

	var handler http.Handler = mux
	handler = loggingMiddleware(s.logger)(handler)
	handler = correlationIDMiddleware(handler)
	handler = corsMiddleware(handler)
	handler = recoveryMiddleware(s.logger)(handler)
	return handler
}

// handleHealth responds to GET/HEAD /api/health with {"status":"ok"}.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleVersion responds to GET/HEAD /api/version with version info.
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

// handleStock resolves a query and returns the full normalized report.
// GET /api/stock?query=<name|code|ticker|URL>
func (s *Server) handleStock(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("query"))

	report, err := s.stocks.GetStockInfo(r.Context(), query)
	if err != nil {
		s.writeStockError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, report)
}

// handleResolve resolves a query without fetching quote data.
// GET /api/stock/resolve?query=<name|code|ticker|URL>
func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("query"))

	resolution, err := s.stocks.ResolveQuery(r.Context(), query)
	if err != nil {
		s.writeStockError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, resolution)
}

// writeStockError maps the engine's error taxonomy onto HTTP statuses.
// Ambiguous results become 300 Multiple Choices carrying the candidates so
// clients can prompt and retry with a chosen code.
func (s *Server) writeStockError(w http.ResponseWriter, err error) {
	var invalidErr *models.InvalidInputError
	if errors.As(err, &invalidErr) {
		WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: invalidErr.Error(), Code: "invalid_input"})
		return
	}

	var notFoundErr *models.NotFoundError
	if errors.As(err, &notFoundErr) {
		WriteJSON(w, http.StatusNotFound, ErrorResponse{Error: notFoundErr.Error(), Code: "not_found"})
		return
	}

	var ambiguousErr *models.AmbiguousError
	if errors.As(err, &ambiguousErr) {
		WriteJSON(w, http.StatusMultipleChoices, ErrorResponse{
			Error:      ambiguousErr.Error(),
			Code:       "ambiguous",
			Candidates: ambiguousErr.Candidates,
		})
		return
	}

	var upstreamErr *models.UpstreamError
	if errors.As(err, &upstreamErr) {
		WriteJSON(w, http.StatusBadGateway, ErrorResponse{Error: upstreamErr.Error(), Code: "upstream_unavailable"})
		return
	}

	s.logger.Error().Err(err).Msg("Unexpected error handling stock request")
	WriteError(w, http.StatusInternalServerError, "Internal server error")
}
