package assessments

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/finsight/internal/analysis"
	"github.com/JaimeStill/finsight/internal/documents"
)

// Domain errors for assessment operations.
var (
	ErrInvalidRequest = errors.New("invalid request body")
	ErrBatchTooLarge  = errors.New("batch exceeds maximum size")
	ErrBodyTooLarge   = errors.New("request body exceeds maximum size")
)

// MapHTTPStatus maps assessment, engine, and document errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, analysis.ErrValidation) || errors.Is(err, ErrInvalidRequest) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrBatchTooLarge) || errors.Is(err, ErrBodyTooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return documents.MapHTTPStatus(err)
}
