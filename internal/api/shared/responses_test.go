package shared

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondWithErrorIncludesTraceID(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/api/cards", nil)
	req = req.WithContext(WithTraceID(req.Context(), "trace-123"))
	rec := httptest.NewRecorder()

	RespondWithErrorAndLog(rec, req, http.StatusBadGateway, "Upstream failed",
		errors.New("api-key: abcdefghijklmnop"))

	require.Equal(t, http.StatusBadGateway, rec.Code)

	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, map[string]any{"error": "Upstream failed", "trace_id": "trace-123"}, body)
}

func TestRespondWithErrorWithoutTrace(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	RespondWithError(rec, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusBadRequest, "bad")

	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, map[string]any{"error": "bad"}, body)
}

func TestRespondWithAttachment(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	RespondWithAttachment(rec, httptest.NewRequest(http.MethodPost, "/", nil),
		"application/pdf", "christmas_card_ana.pdf", []byte("%PDF"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="christmas_card_ana.pdf"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "4", rec.Header().Get("Content-Length"))
	assert.Equal(t, "%PDF", rec.Body.String())
}

func TestRequestMediaTypes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		contentType string
		json        bool
		form        bool
	}{
		{"application/json", true, false},
		{"application/json; charset=utf-8", true, false},
		{"application/x-www-form-urlencoded", false, true},
		{"multipart/form-data; boundary=x", false, true},
		{"text/plain", false, false},
		{"", false, false},
	}

	for _, tc := range tests {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("Content-Type", tc.contentType)
		assert.Equal(t, tc.json, IsJSON(req), tc.contentType)
		assert.Equal(t, tc.form, IsForm(req), tc.contentType)
	}
}
