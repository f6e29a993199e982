package policy

import (
	"errors"

	"github.com/JaimeStill/finsight/pkg/repository"
)

// ErrDownstreamWrite wraps failures persisting a decision. Apply logs it and
// still returns the decision.
var ErrDownstreamWrite = errors.New("policy write failed")

// ErrDocumentMissing reports a decision for a document that no longer exists.
var ErrDocumentMissing = errors.New("document not found")

var writeErrors = repository.Errors{
	NotFound:  ErrDocumentMissing,
	Reference: ErrDocumentMissing,
}
