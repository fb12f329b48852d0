package http

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/mergefield/fieldclip/kit/platform/errors"
	"go.uber.org/zap"
)

// OKer is implemented by request bodies that can validate themselves once decoded.
type OKer interface {
	OK() error
}

// APIOptFn is a functional option for setting fields on the API type.
type APIOptFn func(*API)

// WithLog sets the logger.
func WithLog(logger *zap.Logger) APIOptFn {
	return func(api *API) {
		api.logger = logger
	}
}

// WithPrettyJSON sets the json encoder to marshal indent or not.
func WithPrettyJSON(b bool) APIOptFn {
	return func(api *API) {
		api.prettyJSON = b
	}
}

// API provides a consolidated means for handling API interface concerns.
// Concerns such as decoding request bodies, encoding responses and
// mapping errors onto status codes.
type API struct {
	logger *zap.Logger

	prettyJSON bool
	maxBytes   int64
}

// WithMaxBytes caps the size of request bodies read by Decode.
func WithMaxBytes(n int64) APIOptFn {
	return func(api *API) {
		api.maxBytes = n
	}
}

// NewAPI creates a new API type.
func NewAPI(opts ...APIOptFn) *API {
	api := API{
		logger:     zap.NewNop(),
		prettyJSON: true,
	}
	for _, o := range opts {
		o(&api)
	}
	return &api
}

// DecodeJSON decodes reader with json.
func (a *API) DecodeJSON(r io.Reader, v interface{}) error {
	return a.decode("json", json.NewDecoder(a.limit(r)), v)
}

// ReadBody reads the whole request body, honoring the max bytes limit.
func (a *API) ReadBody(r io.Reader) ([]byte, error) {
	b, err := io.ReadAll(a.limit(r))
	if err != nil {
		return nil, a.tooLarge(err)
	}
	return b, nil
}

func (a *API) limit(r io.Reader) io.Reader {
	if a == nil || a.maxBytes <= 0 {
		return r
	}
	return &limitedReader{r: io.LimitReader(r, a.maxBytes+1), remaining: a.maxBytes + 1}
}

type decoder interface {
	Decode(interface{}) error
}

func (a *API) decode(encoding string, dec decoder, v interface{}) error {
	if err := dec.Decode(v); err != nil {
		if tooLarge := a.tooLarge(err); tooLarge != err {
			return tooLarge
		}
		return &errors.Error{
			Code: errors.EInvalid,
			Msg:  "failed to unmarshal " + encoding,
			Err:  err,
		}
	}

	if vv, ok := v.(OKer); ok {
		return vv.OK()
	}
	return nil
}

func (a *API) tooLarge(err error) error {
	if err == errBodyTooLarge {
		return &errors.Error{
			Code: errors.ETooLarge,
			Msg:  "request body exceeds the configured limit",
		}
	}
	return err
}

// Respond writes to the response writer, handling all errors in writing.
func (a *API) Respond(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	if status == http.StatusNoContent {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	enc := json.NewEncoder(w)
	if a == nil || a.prettyJSON {
		enc.SetIndent("", "\t")
	}

	w.WriteHeader(status)
	if err := enc.Encode(v); err != nil {
		a.logErr("failed to encode response", err)
	}
}

// Err is used for writing an error to the response.
func (a *API) Err(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	a.logErr("api error encountered", err)

	code := errors.ErrorCode(err)
	w.Header().Set(PlatformErrorCodeHeader, code)
	a.Respond(w, r, ErrorCodeToStatusCode(code), ErrBody{
		Status: "error",
		Code:   code,
		Msg:    err.Error(),
	})
}

func (a *API) logErr(msg string, err error) {
	if a == nil || err == nil || a.logger == nil {
		return
	}
	a.logger.Error(msg, zap.Error(err))
}

// ErrBody is an err response body. Status mirrors the success envelope so
// that clients can branch on a single field.
type ErrBody struct {
	Status string `json:"status"`
	Code   string `json:"code"`
	Msg    string `json:"message"`
}

var errBodyTooLarge = &errors.Error{Code: errors.ETooLarge, Msg: "body too large"}

// limitedReader fails once more than the allowed bytes have been read so that
// a truncated body is never mistaken for a complete one.
type limitedReader struct {
	r         io.Reader
	remaining int64
}

func (l *limitedReader) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	l.remaining -= int64(n)
	if l.remaining <= 0 {
		return n, errBodyTooLarge
	}
	return n, err
}
