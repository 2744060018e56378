package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIKeyMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		requestHeader  string
		expectedStatus int
		expectedError  string
	}{
		{"valid API key", "test-key", http.StatusOK, ""},
		{"missing API key header", "", http.StatusUnauthorized, "Missing X-API-Key header"},
		{"invalid API key", "wrong-key", http.StatusUnauthorized, "Invalid API key"},
		{"key prefix", "test", http.StatusUnauthorized, "Invalid API key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
			handler := apiKeyMiddleware("test-key")(testHandler)

			req := httptest.NewRequest("GET", "/test", nil)
			if tt.requestHeader != "" {
				req.Header.Set(apiKeyHeader, tt.requestHeader)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedError != "" {
				var resp APIResponse
				require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
				assert.False(t, resp.Success)
				assert.Equal(t, tt.expectedError, resp.Error)
			}
		})
	}
}

func TestInstrumentAuthMiddleware(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetricsWith(reg)

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	handler := metrics.InstrumentAuthMiddleware(apiKeyMiddleware("k"))(ok)

	for _, key := range []string{"k", "k", "bad", ""} {
		req := httptest.NewRequest("GET", "/", nil)
		if key != "" {
			req.Header.Set(apiKeyHeader, key)
		}
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.authRequestsTotal.WithLabelValues(statusSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.authRequestsTotal.WithLabelValues(statusError)))
}

func TestSendSuccess(t *testing.T) {
	w := httptest.NewRecorder()
	sendSuccess(w, map[string]string{"message": "test"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp APIResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.Equal(t, map[string]interface{}{"message": "test"}, resp.Data)
}

func TestSendError(t *testing.T) {
	tests := []struct {
		name       string
		message    string
		statusCode int
	}{
		{"bad request error", "Invalid request", http.StatusBadRequest},
		{"unauthorized error", "Not authorized", http.StatusUnauthorized},
		{"internal server error", "Server error", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			sendError(w, tt.message, tt.statusCode)

			assert.Equal(t, tt.statusCode, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			var resp APIResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			assert.False(t, resp.Success)
			assert.Equal(t, tt.message, resp.Error)
		})
	}
}
