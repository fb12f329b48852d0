package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mergefield/fieldclip/clipboard"
	"github.com/mergefield/fieldclip/copier"
	"github.com/mergefield/fieldclip/inmem"
	kithttp "github.com/mergefield/fieldclip/kit/transport/http"
	"github.com/mergefield/fieldclip/preview"
	"github.com/mergefield/fieldclip/rtf"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestHandler(t *testing.T, opts ...func(*Backend)) (*Handler, *clipboard.Memory) {
	t.Helper()

	mem := clipboard.NewMemory()
	w := clipboard.NewWriter(mem, clipboard.MustEncoder(clipboard.DefaultCodePage))
	ev, err := preview.NewEvaluator()
	require.NoError(t, err)

	b := &Backend{
		Log:             zaptest.NewLogger(t),
		Copier:          copier.NewService(rtf.NewCompiler(), rtf.DefaultEnvelope(), w),
		Fields:          inmem.NewService(),
		Preview:         ev,
		MaxDepth:        8,
		MaxRequestBytes: 1 << 10,
	}
	for _, o := range opts {
		o(b)
	}
	return NewHandler(b), mem
}

func serve(h http.Handler, method, path, contentType, body string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		r.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m), w.Body.String())
	return m
}

func TestHandler_CopyField(t *testing.T) {
	h, mem := newTestHandler(t)

	w := serve(h, http.MethodPost, "/copy_field", "application/json", `{"type":"simple","name":"Email"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decodeBody(t, w)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "Copied to clipboard!", body["message"])
	assert.NotContains(t, body, "fragment")

	got, ok := mem.Data(clipboard.FormatRTF)
	require.True(t, ok)
	assert.Equal(t, rtf.Document(rtf.MergeFieldRef("Email")), string(got))
}

func TestHandler_CopyAPIReturnsFragment(t *testing.T) {
	h, _ := newTestHandler(t)

	w := serve(h, http.MethodPost, "/api/v1/copy", "application/json",
		`{"type":"check_empty","main_field":"A","fallback_field":"B"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decodeBody(t, w)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t,
		`{\field{\*\fldinst { IF {\field{\*\fldinst { MERGEFIELD "A" }}{\fldrslt }} = "" "{\field{\*\fldinst { MERGEFIELD "B" }}{\fldrslt }}" "{\field{\*\fldinst { MERGEFIELD "A" }}{\fldrslt }}" }}{\fldrslt }}`,
		body["fragment"])
	assert.True(t, strings.HasPrefix(body["document"].(string), `{\rtf1\ansi\ansicpg1252`))
}

func TestHandler_CopyErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		setup  func(*clipboard.Memory)
		status int
		code   string
	}{
		{
			name:   "missing condition field",
			body:   `{"type":"if","true_content":{"type":"text","value":"x"}}`,
			status: http.StatusBadRequest,
			code:   "invalid",
		},
		{
			name:   "empty body",
			body:   "",
			status: http.StatusBadRequest,
			code:   "invalid",
		},
		{
			name:   "null body",
			body:   `null`,
			status: http.StatusBadRequest,
			code:   "invalid",
		},
		{
			name:   "malformed json",
			body:   `{"type":`,
			status: http.StatusBadRequest,
			code:   "invalid",
		},
		{
			name:   "wrong value type",
			body:   `{"type":"simple","name":42}`,
			status: http.StatusBadRequest,
			code:   "invalid",
		},
		{
			name:   "too deep",
			body:   nested(10),
			status: http.StatusBadRequest,
			code:   "invalid",
		},
		{
			name:   "too large",
			body:   `{"type":"text","value":"` + strings.Repeat("x", 2048) + `"}`,
			status: http.StatusRequestEntityTooLarge,
			code:   "request too large",
		},
		{
			name:   "clipboard unavailable",
			body:   `{"type":"simple","name":"A"}`,
			setup:  func(m *clipboard.Memory) { m.OpenErr = errors.New("held by another process") },
			status: http.StatusServiceUnavailable,
			code:   "unavailable",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, mem := newTestHandler(t)
			if tt.setup != nil {
				tt.setup(mem)
			}

			w := serve(h, http.MethodPost, "/copy_field", "application/json", tt.body)
			require.Equal(t, tt.status, w.Code, w.Body.String())
			assert.Equal(t, tt.code, w.Header().Get(kithttp.PlatformErrorCodeHeader))

			body := decodeBody(t, w)
			assert.Equal(t, "error", body["status"])
			assert.NotEmpty(t, body["message"])
			assert.Equal(t, 0, mem.Writes())
			assert.False(t, mem.IsOpen())
		})
	}
}

// nested returns an if tree nested depth levels deep.
func nested(depth int) string {
	s := `{"type":"text","value":"leaf"}`
	for i := 1; i < depth; i++ {
		s = `{"type":"if","condition_field":"F","true_content":` + s + `}`
	}
	return s
}

func TestHandler_Compile(t *testing.T) {
	h, mem := newTestHandler(t)

	w := serve(h, http.MethodPost, "/api/v1/compile", "application/json", `{"type":"text","value":"Dear "}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res copier.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "Dear ", res.Fragment)
	assert.Equal(t, rtf.Document("Dear "), res.Document)
	assert.Equal(t, 0, mem.Writes(), "compile must not touch the clipboard")
}

func TestHandler_CompileUnknownTypeIsEmpty(t *testing.T) {
	h, _ := newTestHandler(t)

	w := serve(h, http.MethodPost, "/api/v1/compile", "application/json", `{"type":"date"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "", decodeBody(t, w)["fragment"])
}

func TestHandler_Preview(t *testing.T) {
	h, _ := newTestHandler(t)

	w := serve(h, http.MethodPost, "/api/v1/preview", "application/json", `{
		"field": {"type":"check_empty","main_field":"Email","fallback_content":{"type":"text","value":"none"}},
		"record": {"Email": ""}
	}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "none", decodeBody(t, w)["text"])

	w = serve(h, http.MethodPost, "/api/v1/preview", "application/json", `{"record": {"Email": "x"}}`)
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	assert.Equal(t, "field is required", decodeBody(t, w)["message"])
}

func TestHandler_Fields(t *testing.T) {
	h, _ := newTestHandler(t)

	w := serve(h, http.MethodGet, "/api/v1/fields", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []interface{}{}, decodeBody(t, w)["fields"])

	w = serve(h, http.MethodPost, "/api/v1/fields", "text/plain; charset=utf-8", "First\n\n Last \nFirst\n")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, float64(2), body["count"])

	w = serve(h, http.MethodGet, "/api/v1/fields", "", "")
	assert.Equal(t, []interface{}{"First", "Last"}, decodeBody(t, w)["fields"])

	w = serve(h, http.MethodPost, "/api/v1/fields", "application/json", `["Zip","City"]`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = serve(h, http.MethodGet, "/api/v1/fields", "", "")
	assert.Equal(t, []interface{}{"Zip", "City"}, decodeBody(t, w)["fields"])

	w = serve(h, http.MethodPost, "/api/v1/fields", "text/plain", "\n  \n")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(h, http.MethodDelete, "/api/v1/fields", "", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = serve(h, http.MethodGet, "/api/v1/fields", "", "")
	assert.Equal(t, []interface{}{}, decodeBody(t, w)["fields"])
}

func TestHandler_Index(t *testing.T) {
	h, _ := newTestHandler(t)

	w := serve(h, http.MethodGet, "/", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, DefaultContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "Merge field builder")
}

func TestHandler_IndexGzip(t *testing.T) {
	h, _ := newTestHandler(t)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
}

func TestHandler_NotFoundAndMethod(t *testing.T) {
	h, _ := newTestHandler(t)

	w := serve(h, http.MethodGet, "/nope", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "error", decodeBody(t, w)["status"])

	w = serve(h, http.MethodGet, "/copy_field", "", "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestHandler_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := kithttp.NewHTTPMetrics("fieldclip")
	reg.MustRegister(m.PrometheusCollectors()...)

	h, _ := newTestHandler(t, func(b *Backend) {
		b.HTTPMetrics = m
		b.MetricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	})

	w := serve(h, http.MethodPost, "/api/v1/compile", "application/json", `{"type":"simple"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = serve(h, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, bytes.Contains(w.Body.Bytes(), []byte("fieldclip_http_requests_total")), w.Body.String())
}
