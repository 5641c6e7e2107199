package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jonathan/talent-search/internal/search"
	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{
			name:     "nil",
			err:      nil,
			expected: http.StatusOK,
		},
		{
			name:     "ValidationError",
			err:      &search.ValidationError{Field: "status", Message: "must be one of draft, active, closed"},
			expected: http.StatusBadRequest,
		},
		{
			name:     "wrapped ValidationError",
			err:      fmt.Errorf("search: %w", &search.ValidationError{Field: "minScore", Message: "must be at least 0"}),
			expected: http.StatusBadRequest,
		},
		{
			name:     "context canceled",
			err:      fmt.Errorf("failed to resolve jobs: %w", context.Canceled),
			expected: StatusClientClosedRequest,
		},
		{
			name:     "store failure",
			err:      errors.New("connection refused"),
			expected: http.StatusInternalServerError,
		},
		{
			name:     "missing store",
			err:      search.ErrStoreRequired,
			expected: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HTTPStatus(tt.err))
		})
	}
}
