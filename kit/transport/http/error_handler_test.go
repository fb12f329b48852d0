package http_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mergefield/fieldclip/kit/platform/errors"
	kithttp "github.com/mergefield/fieldclip/kit/transport/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeError(t *testing.T) {
	w := httptest.NewRecorder()

	kithttp.NewAPI().Err(w, httptest.NewRequest(http.MethodGet, "/", nil), nil)

	if w.Code != 200 {
		t.Errorf("expected status code 200, got: %d", w.Code)
	}
}

func TestEncodeErrorWithError(t *testing.T) {
	err := &errors.Error{
		Code: errors.EUnavailable,
		Msg:  "clipboard unavailable",
		Err:  fmt.Errorf("OpenClipboard: access is denied"),
	}

	w := httptest.NewRecorder()

	kithttp.NewAPI().Err(w, httptest.NewRequest(http.MethodGet, "/", nil), err)

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, errors.EUnavailable, w.Header().Get(kithttp.PlatformErrorCodeHeader))

	var body kithttp.ErrBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "error", body.Status)
	assert.Equal(t, errors.EUnavailable, body.Code)
	assert.Equal(t, "clipboard unavailable: OpenClipboard: access is denied", body.Msg)
}

func TestErrorCodeToStatusCode(t *testing.T) {
	tests := []struct {
		code   string
		status int
	}{
		{code: errors.EInvalid, status: http.StatusBadRequest},
		{code: errors.ETooLarge, status: http.StatusRequestEntityTooLarge},
		{code: errors.ENotFound, status: http.StatusNotFound},
		{code: errors.EInternal, status: http.StatusInternalServerError},
		{code: "made up", status: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.status, kithttp.ErrorCodeToStatusCode(tt.code))
		})
	}
}
