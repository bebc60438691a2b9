package response

import (
	"encoding/json/v2"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/bookbookapp/bookbook-server/internal/errors"
	"github.com/bookbookapp/bookbook-server/internal/store"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestJSON_Success(t *testing.T) {
	w := httptest.NewRecorder()

	data := map[string]string{"message": "test"}
	JSON(w, http.StatusOK, data, discardLogger())

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))

	var result Envelope
	err := json.Unmarshal(w.Body.Bytes(), &result)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.NotNil(t, result.Data)
}

func TestError_SetsSuccessFalse(t *testing.T) {
	w := httptest.NewRecorder()

	NotFound(w, "book not found", discardLogger())

	assert.Equal(t, http.StatusNotFound, w.Code)

	var result Envelope
	err := json.Unmarshal(w.Body.Bytes(), &result)
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, "book not found", result.Error)
}

func TestNoContent(t *testing.T) {
	w := httptest.NewRecorder()
	NoContent(w)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.Bytes())
}

func TestHandleError_DomainError(t *testing.T) {
	w := httptest.NewRecorder()

	HandleError(w, apperrors.ValidationWithDetails("validation failed", map[string]string{"email": "is required"}), discardLogger())

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var result Envelope
	err := json.Unmarshal(w.Body.Bytes(), &result)
	require.NoError(t, err)

	assert.Equal(t, apperrors.CodeValidation, result.Code)
	assert.Equal(t, "validation failed", result.Error)
	assert.NotNil(t, result.Details)
}

func TestHandleError_StoreSentinels(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"book not found", store.ErrBookNotFound, http.StatusNotFound},
		{"user not found", store.ErrUserNotFound, http.StatusNotFound},
		{"already exists", store.ErrAlreadyExists, http.StatusConflict},
		{"duplicate book", store.ErrBookExists, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			HandleError(w, tt.err, discardLogger())
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestHandleError_UnknownErrorIs500(t *testing.T) {
	w := httptest.NewRecorder()

	HandleError(w, apperrors.New("something odd"), discardLogger())

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var result Envelope
	err := json.Unmarshal(w.Body.Bytes(), &result)
	require.NoError(t, err)
	assert.Equal(t, "internal server error", result.Error)
}
