package http

import (
	"net/http"

	"github.com/mergefield/fieldclip/kit/platform/errors"
)

// PlatformErrorCodeHeader shows the error code of platform error.
const PlatformErrorCodeHeader = "X-Platform-Error-Code"

// ErrorCodeToStatusCode converts a fieldclip error code to an appropriate
// HTTP status code. Unknown codes map to 500.
func ErrorCodeToStatusCode(code string) int {
	status, ok := statusCodePlatformError[code]
	if !ok {
		return http.StatusInternalServerError
	}
	return status
}

// statusCodePlatformError is the map convert platform.Error to error
var statusCodePlatformError = map[string]int{
	errors.EInternal:         http.StatusInternalServerError,
	errors.EInvalid:          http.StatusBadRequest,
	errors.ENotFound:         http.StatusNotFound,
	errors.EUnavailable:      http.StatusServiceUnavailable,
	errors.EMethodNotAllowed: http.StatusMethodNotAllowed,
	errors.ETooLarge:         http.StatusRequestEntityTooLarge,
}
