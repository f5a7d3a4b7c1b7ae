// Package apperr holds the error values shared between services and
// controllers. Services return these; the controller layer maps them to HTTP
// status codes in one place.
package apperr

import (
	"errors"
	"fmt"

	"github.com/lshigami/Compiti/internal/dto"
)

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	// ErrAlreadyClosed rejects evaluation or group assignment on a closed
	// assignment. Answer submission against a closed assignment is a
	// ConflictError instead, so the student gets the refreshed state back.
	ErrAlreadyClosed = errors.New("assignment already closed")
)

// InvalidInput covers malformed questions, answers, scores and group sizes.
// Detected before any write.
type InvalidInput struct {
	Reason string
}

func (e *InvalidInput) Error() string {
	return e.Reason
}

func NewInvalidInput(format string, args ...interface{}) error {
	return &InvalidInput{Reason: fmt.Sprintf(format, args...)}
}

// PairLimit reports the first student pair (in index order) that already
// collaborated the maximum number of times under the same teacher.
type PairLimit struct {
	StudentID1 uint
	StudentID2 uint
	Count      int64
}

func (e *PairLimit) Error() string {
	return fmt.Sprintf("pair (%d, %d) has already worked together %d times", e.StudentID1, e.StudentID2, e.Count)
}

// Conflict signals an optimistic-concurrency rejection. Current is the
// persisted assignment state at the moment the write was refused, so the
// caller can reconcile its stale view.
type Conflict struct {
	Reason  string
	Current *dto.AssignmentResponseDTO
}

func (e *Conflict) Error() string {
	return e.Reason
}

// Storage wraps an opaque persistence failure. Never retried by this layer.
type Storage struct {
	Err error
}

func (e *Storage) Error() string {
	return "storage error: " + e.Err.Error()
}

func (e *Storage) Unwrap() error {
	return e.Err
}
