package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{
			name: "unauthenticated",
			err:  ErrUnauthenticated,
			want: http.StatusUnauthorized,
		},
		{
			name: "bad input",
			err:  ErrBadInput,
			want: http.StatusBadRequest,
		},
		{
			name: "not found",
			err:  ErrNotFound,
			want: http.StatusNotFound,
		},
		{
			name: "conflict maps to 400",
			err:  ErrConflict,
			want: http.StatusBadRequest,
		},
		{
			name: "wrapped sentinel keeps its status",
			err:  fmt.Errorf("storage.AddFavorite: %w: no user %q", ErrNotFound, "alice"),
			want: http.StatusNotFound,
		},
		{
			name: "unclassified error is internal",
			err:  errors.New("connection refused"),
			want: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}
