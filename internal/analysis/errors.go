package analysis

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Engine errors.
var (
	ErrValidation     = errors.New("invalid analysis input")
	ErrInvalidLexicon = errors.New("invalid lexicon")
	ErrPartialBatch   = errors.New("batch completed with failures")
)

// PartialBatchError lists the document identifiers that failed within an
// otherwise completed batch. It wraps ErrPartialBatch.
type PartialBatchError struct {
	Failed []string
}

func (e *PartialBatchError) Error() string {
	return fmt.Sprintf("%s: %d failed (%s)", ErrPartialBatch, len(e.Failed), strings.Join(e.Failed, ", "))
}

func (e *PartialBatchError) Unwrap() error {
	return ErrPartialBatch
}

func newPartialBatchError(failed []string) *PartialBatchError {
	ids := slices.Clone(failed)
	slices.Sort(ids)
	return &PartialBatchError{Failed: ids}
}
