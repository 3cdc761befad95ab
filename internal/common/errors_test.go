package common

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatusFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"not found", fmt.Errorf("book 1: %w", ErrNotFound), http.StatusNotFound},
		{"unauthorized", ErrUnauthorized, http.StatusUnauthorized},
		{"forbidden", ErrForbidden, http.StatusForbidden},
		{"validation", fmt.Errorf("title: %w", ErrValidation), http.StatusBadRequest},
		{"bad request", ErrBadRequest, http.StatusBadRequest},
		{"conflict", ErrConflict, http.StatusConflict},
		{"storage", StorageError(errors.New("s3 down")), http.StatusInternalServerError},
		{"pg unique", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), http.StatusConflict},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, HTTPStatusFromError(tc.err))
		})
	}
}

func TestStorageError(t *testing.T) {
	err := StorageError(fmt.Errorf("put: %w", context.DeadlineExceeded))
	assert.ErrorIs(t, err, ErrStorage)
	assert.Contains(t, err.Error(), "timed out")

	err = StorageError(errors.New("access denied"))
	assert.ErrorIs(t, err, ErrStorage)
	assert.Contains(t, err.Error(), "access denied")
}

func TestRespondWithErr(t *testing.T) {
	w := httptest.NewRecorder()
	RespondWithErr(w, fmt.Errorf("book not found: %w", ErrNotFound))

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"book not found: requested resource not found"}`, w.Body.String())
}
