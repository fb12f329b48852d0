package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func Test_normalizePath(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{
			name:     "api route",
			path:     "/api/v1/copy",
			expected: "/api/v1/copy",
		},
		{
			name:     "root",
			path:     "/",
			expected: "/",
		},
		{
			name:     "asset",
			path:     "/static/app.js",
			expected: "/static/:file_name.js",
		},
		{
			name:     "trailing slash",
			path:     "/api/v1/fields/",
			expected: "/api/v1/fields",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual := normalizePath(tt.path)
			assert.Equal(t, tt.expected, actual)
		})
	}
}

func TestCors(t *testing.T) {
	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("nextHandler"))
	})

	tests := []struct {
		name            string
		method          string
		headers         map[string]string
		expectedStatus  int
		expectedHeaders map[string]string
	}{
		{
			name:           "OPTIONS without Origin",
			method:         "OPTIONS",
			expectedStatus: http.StatusMethodNotAllowed,
		},
		{
			name:           "OPTIONS with Origin",
			method:         "OPTIONS",
			headers:        map[string]string{"Origin": "http://myapp.com"},
			expectedStatus: http.StatusNoContent,
		},
		{
			name:           "POST with Origin",
			method:         "POST",
			headers:        map[string]string{"Origin": "http://anotherapp.com"},
			expectedStatus: http.StatusOK,
			expectedHeaders: map[string]string{
				"Access-Control-Allow-Origin": "http://anotherapp.com",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svr := SkipOptions(SetCORS(nextHandler))

			req := httptest.NewRequest(tt.method, "/", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()
			svr.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			for k, v := range tt.expectedHeaders {
				assert.Equal(t, v, w.Header().Get(k))
			}
		})
	}
}

func TestMetrics(t *testing.T) {
	m := NewHTTPMetrics("fieldclip")
	h := Metrics("api", m.Requests, m.Duration)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))

	for _, p := range []string{"/api/v1/copy", "/api/v1/copy", "/missing"} {
		req := httptest.NewRequest(http.MethodPost, p, nil)
		req.Header.Set("User-Agent", "curl/8.0.1")
		h.ServeHTTP(httptest.NewRecorder(), req)
	}

	// 4XX responses are not reported.
	assert.Equal(t, 1, testutil.CollectAndCount(m.Requests))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.Requests))
}

func TestStatusResponseWriter(t *testing.T) {
	rec := httptest.NewRecorder()
	w := NewStatusResponseWriter(rec)
	assert.Equal(t, http.StatusOK, w.Code())

	_, _ = w.Write([]byte("hello"))
	assert.Equal(t, 5, w.ResponseBytes())
	assert.Equal(t, "2XX", w.StatusCodeClass())

	w.WriteHeader(http.StatusServiceUnavailable)
	assert.Equal(t, "5XX", w.StatusCodeClass())
}
