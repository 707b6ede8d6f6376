package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coinly/coinly/internal/apperror"
)

func TestRespondJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		status   int
		data     interface{}
		wantBody string
	}{
		{"object", http.StatusOK, map[string]string{"message": "success"}, `{"message":"success"}`},
		{"created", http.StatusCreated, map[string]int{"id": 123}, `{"id":123}`},
		{"array", http.StatusOK, []string{"a", "b", "c"}, `["a","b","c"]`},
		{"nil data", http.StatusNoContent, nil, ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rr := httptest.NewRecorder()
			respondJSON(rr, tt.status, tt.data)

			assert.Equal(t, tt.status, rr.Code)
			assert.Contains(t, rr.Header().Get("Content-Type"), "application/json")
			if tt.wantBody == "" {
				assert.Empty(t, rr.Body.String())
			} else {
				assert.JSONEq(t, tt.wantBody, rr.Body.String())
			}
		})
	}
}

func TestRespondError(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	respondError(rr, http.StatusConflict, "resource already exists")

	assert.Equal(t, http.StatusConflict, rr.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "resource already exists", body.Error)
	assert.Empty(t, body.Field)
}

func TestRespondServiceError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		err       error
		wantCode  int
		wantError string
		wantField string
	}{
		{
			name:      "validation error keeps field",
			err:       apperror.ValidationError("amount", "amount must be greater than zero"),
			wantCode:  http.StatusBadRequest,
			wantError: "amount must be greater than zero",
			wantField: "amount",
		},
		{
			name:      "wrapped app error",
			err:       fmt.Errorf("failed to complete setup: %w", apperror.Conflict("setup already completed")),
			wantCode:  http.StatusConflict,
			wantError: "setup already completed",
		},
		{
			name:      "not found",
			err:       apperror.NotFound("transaction"),
			wantCode:  http.StatusNotFound,
			wantError: "transaction not found",
		},
		{
			name:      "plain error hides details",
			err:       errors.New("disk on fire"),
			wantCode:  http.StatusInternalServerError,
			wantError: "an internal error occurred",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rr := httptest.NewRecorder()
			respondServiceError(rr, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)

			assert.Equal(t, tt.wantCode, rr.Code)
			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.Equal(t, tt.wantError, body.Error)
			assert.Equal(t, tt.wantField, body.Field)
		})
	}
}

func BenchmarkRespondJSON(b *testing.B) {
	data := map[string]interface{}{
		"id":     "123",
		"name":   "Test",
		"amount": 100.50,
	}
	for i := 0; i < b.N; i++ {
		rr := httptest.NewRecorder()
		respondJSON(rr, http.StatusOK, data)
	}
}
