package documents

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/JaimeStill/finsight/pkg/formatting"
	"github.com/JaimeStill/finsight/pkg/handlers"
	"github.com/JaimeStill/finsight/pkg/pagination"
	"github.com/JaimeStill/finsight/pkg/routes"
)

// Multipart form field names accepted by Upload.
const (
	FormFieldFiles = "files"
	FormFieldFile  = "file"
)

// Handler provides HTTP endpoints for document operations.
type Handler struct {
	sys           System
	logger        *slog.Logger
	pagination    pagination.Config
	maxUploadSize int64
}

// SearchRequest combines pagination and filter criteria for the search endpoint.
type SearchRequest struct {
	pagination.PageRequest
	Filters
}

// NewHandler creates a Handler with the given system, logger, pagination config, and upload size limit.
func NewHandler(
	sys System,
	logger *slog.Logger,
	pagination pagination.Config,
	maxUploadSize int64,
) *Handler {
	return &Handler{
		sys:           sys,
		logger:        logger.With("handler", "documents"),
		pagination:    pagination,
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the route group definition for document endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/documents",
		Tags:        []string{"Documents"},
		Description: "Extracted document text and analysis status",
		Schemas:     spec.Schemas,
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List, OpenAPI: spec.List},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find, OpenAPI: spec.Find},
			{Method: "GET", Pattern: "/{id}/text", Handler: h.Text, OpenAPI: spec.Text},
			{Method: "POST", Pattern: "", Handler: h.Upload, OpenAPI: spec.Upload},
			{Method: "POST", Pattern: "/search", Handler: h.Search, OpenAPI: spec.Search},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete, OpenAPI: spec.Delete},
		},
	}
}

// List returns a paginated list of documents with optional query parameter filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find returns a single document by its UUID path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	doc, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, doc)
}

// Text writes the stored document text as text/plain.
func (h *Handler) Text(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	text, err := h.sys.Text(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(len(text)))
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, text)
}

// Search accepts a JSON body with pagination and filter criteria and returns matching documents.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	req.PageRequest.Normalize(h.pagination)

	result, err := h.sys.List(r.Context(), req.PageRequest, req.Filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Upload registers one or more extracted text files from a multipart form.
// Each file is validated and stored independently; the response lists one
// BatchResult per file in form order. The response is 201 when at least one
// file was stored and 400 when every file failed.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge,
			fmt.Errorf("%w: limit %s", ErrFileTooLarge, formatting.FormatBytes(h.maxUploadSize, 1)))
		return
	}

	headers := slices.Concat(r.MultipartForm.File[FormFieldFiles], r.MultipartForm.File[FormFieldFile])
	if len(headers) == 0 {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: no files provided", ErrInvalidFile))
		return
	}

	results := make([]BatchResult, 0, len(headers))
	created := 0

	for _, header := range headers {
		result := BatchResult{Filename: header.Filename}

		doc, err := h.create(r, header)
		if err != nil {
			h.logger.Warn("document upload failed", "filename", header.Filename, "error", err)
			result.Error = err.Error()
		} else {
			result.Document = doc
			created++
		}

		results = append(results, result)
	}

	status := http.StatusCreated
	if created == 0 {
		status = http.StatusBadRequest
	}

	handlers.RespondJSON(w, status, results)
}

// Delete removes a document by its UUID path parameter.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.sys.Delete(r.Context(), id); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) create(r *http.Request, header *multipart.FileHeader) (*Document, error) {
	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}

	if err := validateText(data); err != nil {
		return nil, err
	}

	cmd := CreateCommand{
		Data:        data,
		Filename:    header.Filename,
		ContentType: detectContentType(header.Header.Get("Content-Type"), data),
	}

	return h.sys.Create(r.Context(), cmd)
}

func validateText(data []byte) error {
	if !utf8.Valid(data) {
		return fmt.Errorf("%w: text is not valid UTF-8", ErrInvalidFile)
	}
	if strings.TrimSpace(string(data)) == "" {
		return fmt.Errorf("%w: text is empty", ErrInvalidFile)
	}
	return nil
}

func detectContentType(header string, data []byte) string {
	header = strings.TrimSpace(header)
	if header != "" && header != "application/octet-stream" {
		return header
	}
	return http.DetectContentType(data)
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidID)
		return uuid.Nil, false
	}
	return id, true
}
