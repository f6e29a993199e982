package assessments

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/finsight/internal/documents"
	"github.com/JaimeStill/finsight/pkg/formatting"
	"github.com/JaimeStill/finsight/pkg/handlers"
	"github.com/JaimeStill/finsight/pkg/routes"
)

// Handler provides HTTP endpoints for assessment operations.
type Handler struct {
	sys         System
	logger      *slog.Logger
	maxBodySize int64
}

// NewHandler creates a Handler with the given system, logger, and request
// body size limit.
func NewHandler(sys System, logger *slog.Logger, maxBodySize int64) *Handler {
	return &Handler{
		sys:         sys,
		logger:      logger.With("handler", "assessments"),
		maxBodySize: maxBodySize,
	}
}

// Routes returns the route group definition for assessment endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/analysis",
		Tags:        []string{"Analysis"},
		Description: "Risk, sentiment, and anomaly analysis of financial text",
		Schemas:     spec.Schemas,
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/analyze", Handler: h.Analyze, OpenAPI: spec.Analyze},
			{Method: "POST", Pattern: "/compare", Handler: h.Compare, OpenAPI: spec.Compare},
			{Method: "POST", Pattern: "/batch", Handler: h.Batch, OpenAPI: spec.Batch},
			{Method: "POST", Pattern: "/documents/{id}", Handler: h.AnalyzeDocument, OpenAPI: spec.AnalyzeDocument},
		},
	}
}

// Analyze analyzes the text in the request body.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.sys.Analyze(r.Context(), req.Text)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Compare analyzes and compares the two texts in the request body.
func (h *Handler) Compare(w http.ResponseWriter, r *http.Request) {
	var req CompareRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.sys.Compare(r.Context(), req.Text1, req.Text2)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Batch analyzes every document in the request body. Per-document failures
// are reported in the response and do not fail the request.
func (h *Handler) Batch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if !h.decode(w, r, &req) {
		return
	}

	resp, err := h.sys.Batch(r.Context(), req)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}

// AnalyzeDocument analyzes a stored document and applies the policy.
func (h *Handler) AnalyzeDocument(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, documents.ErrInvalidID)
		return
	}

	result, err := h.sys.AnalyzeDocument(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil {
		return true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		err = fmt.Errorf("%w: limit %s", ErrBodyTooLarge, formatting.FormatBytes(tooLarge.Limit, 1))
	} else {
		err = fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
	return false
}
