package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReasonOf(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected Reason
	}{
		{name: "empty search", err: fmt.Errorf("search: %w", ErrEmptySearchResult), expected: ReasonEmptyResult},
		{name: "malformed", err: fmt.Errorf("detail: %w", ErrMalformedResponse), expected: ReasonMalformed},
		{name: "stats pending", err: ErrStatsPending, expected: ReasonStatsPending},
		{name: "canceled", err: context.Canceled, expected: ReasonCanceled},
		{name: "deadline", err: fmt.Errorf("get: %w", context.DeadlineExceeded), expected: ReasonCanceled},
		{name: "anything else", err: errors.New("connection refused"), expected: ReasonTransport},
		{name: "already classified", err: &FetchError{Op: "x", Reason: ReasonMalformed, Err: errors.New("boom")}, expected: ReasonMalformed},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ReasonOf(tc.err))
		})
	}
}

func TestNewFetchError(t *testing.T) {
	assert.NoError(t, NewFetchError("search", nil))

	err := NewFetchError("search", fmt.Errorf("failed to search: %w", ErrEmptySearchResult))
	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "search", fe.Op)
	assert.Equal(t, ReasonEmptyResult, fe.Reason)
	assert.ErrorIs(t, err, ErrEmptySearchResult)
	assert.Contains(t, err.Error(), "fetch search failed (empty_result)")

	// An existing FetchError keeps its original op.
	again := NewFetchError("build", err)
	assert.Same(t, err, again)
}

func TestRepositorySnapshot_Languages(t *testing.T) {
	s := &RepositorySnapshot{
		Name:  "repo",
		Owner: Owner{Login: "octo"},
		LanguagePercentages: []LanguageShare{
			{Name: "Go", Bytes: 3, Percent: 75},
			{Name: "Shell", Bytes: 1, Percent: 25},
		},
	}
	assert.Equal(t, map[string]float64{"Go": 75, "Shell": 25}, s.Languages())
	assert.Equal(t, "octo/repo", s.Ref().FullName())
}
