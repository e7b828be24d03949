package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractAccessToken(t *testing.T) {
	var request = httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, ExtractAccessToken(request))

	request.Header.Set("Authorization", "Bearer abc.def.ghi")
	assert.Equal(t, "abc.def.ghi", ExtractAccessToken(request))

	request.Header.Set("Authorization", "bearer abc.def.ghi")
	assert.Equal(t, "abc.def.ghi", ExtractAccessToken(request))

	request.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	assert.Empty(t, ExtractAccessToken(request))

	request.Header.Set("Authorization", "Bearer")
	assert.Empty(t, ExtractAccessToken(request))
}

func TestError(t *testing.T) {
	var response = httptest.NewRecorder()
	Error(response, "invalid_token", "token rejected", http.StatusBadRequest)

	assert.Equal(t, http.StatusBadRequest, response.Code)
	assert.Equal(t, "application/json", response.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache, no-store, must-revalidate", response.Header().Get("Cache-Control"))

	var envelope ErrorResponse
	require.NoError(t, json.NewDecoder(response.Body).Decode(&envelope))
	assert.Equal(t, "invalid_token", envelope.Error)
	assert.Equal(t, "token rejected", envelope.ErrorDescription)
}

func TestWriteJSON(t *testing.T) {
	var response = httptest.NewRecorder()
	WriteJSON(response, map[string]int{"deleted_tokens": 4}, http.StatusOK)

	assert.Equal(t, http.StatusOK, response.Code)
	assert.JSONEq(t, `{"deleted_tokens":4}`, response.Body.String())
}
