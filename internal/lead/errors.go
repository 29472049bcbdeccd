package lead

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for request-terminating failures. The web layer maps
// these to HTTP statuses with errors.Is.
var (
	// ErrNotFound means the referenced lead does not exist.
	ErrNotFound = errors.New("lead not found")

	// ErrUnauthorized means no acting user was supplied for an operation
	// that requires one.
	ErrUnauthorized = errors.New("not logged in")

	// ErrForbidden means the acting user is not the lead's owner.
	ErrForbidden = errors.New("forbidden: not the record owner")
)

// ValidationError describes a single violated field rule.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// ValidationErrors is the full set of violated rules for a payload.
// Nothing is persisted when validation fails.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, v := range e {
		msgs[i] = v.Error()
	}
	return strings.Join(msgs, "; ")
}

// First returns the first violated rule's message, for callers that
// report fail-fast per row (bulk import).
func (e ValidationErrors) First() string {
	if len(e) == 0 {
		return ""
	}
	return e[0].Error()
}

// PersistenceError wraps a storage-layer failure. The record-update and
// history-append pair share one transaction, so a failure of either
// surfaces as a single PersistenceError and persists neither.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// MalformedInputError reports a bulk payload that cannot be processed at
// all: unparseable CSV or a row count over the limit. No rows are
// processed when it is returned.
type MalformedInputError struct {
	Reason string
}

func (e *MalformedInputError) Error() string {
	return e.Reason
}
