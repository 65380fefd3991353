package domain

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrEmptySearchResult is returned when the top repository search yields nothing.
	ErrEmptySearchResult = errors.New("search returned no repositories")

	// ErrMalformedResponse is returned when a GitHub response is missing required fields
	// or violates the expected shape.
	ErrMalformedResponse = errors.New("malformed github response")

	// ErrStatsPending is returned when GitHub is still computing commit statistics
	// after every polling attempt.
	ErrStatsPending = errors.New("commit statistics are still being computed")
)

// Reason classifies why a fetch failed.
type Reason string

const (
	ReasonTransport    Reason = "transport"
	ReasonEmptyResult  Reason = "empty_result"
	ReasonMalformed    Reason = "malformed"
	ReasonStatsPending Reason = "stats_pending"
	ReasonCanceled     Reason = "canceled"
)

// FetchError is the single failure kind of a snapshot fetch. Reason lets callers tell
// an empty search from a transport error without inspecting the chain themselves.
type FetchError struct {
	Op     string
	Reason Reason
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s failed (%s): %v", e.Op, e.Reason, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError wraps err as a FetchError for op, classifying it with ReasonOf.
// A FetchError passed in is returned unchanged.
func NewFetchError(op string, err error) error {
	if err == nil {
		return nil
	}
	var fe *FetchError
	if errors.As(err, &fe) {
		return err
	}
	return &FetchError{Op: op, Reason: ReasonOf(err), Err: err}
}

// ReasonOf classifies any error into a fetch failure Reason.
func ReasonOf(err error) Reason {
	var fe *FetchError
	switch {
	case errors.As(err, &fe):
		return fe.Reason
	case errors.Is(err, ErrEmptySearchResult):
		return ReasonEmptyResult
	case errors.Is(err, ErrMalformedResponse):
		return ReasonMalformed
	case errors.Is(err, ErrStatsPending):
		return ReasonStatsPending
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ReasonCanceled
	default:
		return ReasonTransport
	}
}
