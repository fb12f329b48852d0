package http

import (
	"bytes"
	"encoding/json"
	"mime"
	"net/http"

	"github.com/NYTimes/gziphandler"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/mergefield/fieldclip"
	"github.com/mergefield/fieldclip/copier"
	"github.com/mergefield/fieldclip/kit/platform/errors"
	kithttp "github.com/mergefield/fieldclip/kit/transport/http"
	"github.com/mergefield/fieldclip/preview"
	"go.uber.org/zap"
)

const (
	prefixAPI     = "/api/v1"
	prefixCopy    = prefixAPI + "/copy"
	prefixCompile = prefixAPI + "/compile"
	prefixPreview = prefixAPI + "/preview"
	prefixFields  = prefixAPI + "/fields"

	// legacyCopyPath is the route posted to by the original web page.
	legacyCopyPath = "/copy_field"

	copiedMessage = "Copied to clipboard!"
)

// Backend is all services and associated parameters required to construct
// the HTTP handler.
type Backend struct {
	Log *zap.Logger

	Copier  *copier.Service
	Fields  fieldclip.FieldCatalog
	Preview *preview.Evaluator

	// MaxDepth bounds nesting of decoded field trees. Zero disables the limit.
	MaxDepth int
	// MaxRequestBytes bounds request bodies. Zero disables the limit.
	MaxRequestBytes int64

	// HTTPMetrics, when set, records request counts and durations.
	HTTPMetrics *kithttp.HTTPMetrics
	// MetricsHandler, when set, is served on /metrics.
	MetricsHandler http.Handler
}

// Handler serves the fieldclip HTTP API and web page.
type Handler struct {
	chi.Router

	api      *kithttp.API
	log      *zap.Logger
	copier   *copier.Service
	fields   fieldclip.FieldCatalog
	preview  *preview.Evaluator
	maxDepth int
}

// NewHandler constructs the http handler for b.
func NewHandler(b *Backend) *Handler {
	h := &Handler{
		api: kithttp.NewAPI(
			kithttp.WithLog(b.Log),
			kithttp.WithMaxBytes(b.MaxRequestBytes),
		),
		log:      b.Log,
		copier:   b.Copier,
		fields:   b.Fields,
		preview:  b.Preview,
		maxDepth: b.MaxDepth,
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer,
		middleware.RequestID,
		middleware.RealIP,
		kithttp.SkipOptions,
		kithttp.SetCORS,
		LoggingMW(b.Log),
	)
	if b.HTTPMetrics != nil {
		r.Use(kithttp.Metrics("fieldclip", b.HTTPMetrics.Requests, b.HTTPMetrics.Duration))
	}

	r.Get("/health", HealthHandler)
	r.Method(http.MethodGet, "/ready", ReadyHandler())
	if b.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", b.MetricsHandler)
	}

	r.Group(func(r chi.Router) {
		r.Use(gziphandler.GzipHandler)

		r.Method(http.MethodGet, "/", IndexHandler())
		r.Post(legacyCopyPath, h.handlePostCopy)

		r.Route(prefixAPI, func(r chi.Router) {
			r.Post("/copy", h.handlePostCopy)
			r.Post("/compile", h.handlePostCompile)
			r.Post("/preview", h.handlePostPreview)

			r.Route("/fields", func(r chi.Router) {
				r.Get("/", h.handleGetFields)
				r.Post("/", h.handlePostFields)
				r.Delete("/", h.handleDeleteFields)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		h.api.Err(w, r, &errors.Error{
			Code: errors.ENotFound,
			Msg:  "path not found",
		})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		h.api.Err(w, r, &errors.Error{
			Code: errors.EMethodNotAllowed,
			Msg:  r.Method + " is not allowed on " + r.URL.Path,
		})
	})

	h.Router = r
	return h
}

type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type copyResponse struct {
	statusResponse
	Fragment string `json:"fragment,omitempty"`
	Document string `json:"document,omitempty"`
}

// decodeField reads a field tree from the request body.
func (h *Handler) decodeField(r *http.Request) (fieldclip.Node, error) {
	b, err := h.api.ReadBody(r.Body)
	if err != nil {
		return nil, err
	}
	return fieldclip.DecodeNodeDepth(b, h.maxDepth)
}

func (h *Handler) handlePostCopy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	n, err := h.decodeField(r)
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	res, err := h.copier.Copy(ctx, n)
	if err != nil {
		h.api.Err(w, r, err)
		return
	}
	h.log.Debug("Field copied", zap.String("fragment", res.Fragment))

	resp := copyResponse{statusResponse: statusResponse{Status: "success", Message: copiedMessage}}
	if r.URL.Path != legacyCopyPath {
		resp.Fragment = res.Fragment
		resp.Document = res.Document
	}
	h.api.Respond(w, r, http.StatusOK, resp)
}

func (h *Handler) handlePostCompile(w http.ResponseWriter, r *http.Request) {
	n, err := h.decodeField(r)
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	res, err := h.copier.Render(r.Context(), n)
	if err != nil {
		h.api.Err(w, r, err)
		return
	}
	h.api.Respond(w, r, http.StatusOK, res)
}

type previewRequest struct {
	Field  json.RawMessage `json:"field"`
	Record preview.Record  `json:"record"`
}

// OK rejects requests without a field description.
func (r previewRequest) OK() error {
	if len(bytes.TrimSpace(r.Field)) == 0 {
		return &errors.Error{
			Code: errors.EInvalid,
			Op:   fieldclip.OpPreview,
			Msg:  "field is required",
		}
	}
	return nil
}

type previewResponse struct {
	Text string `json:"text"`
}

func (h *Handler) handlePostPreview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := h.api.DecodeJSON(r.Body, &req); err != nil {
		h.api.Err(w, r, err)
		return
	}

	n, err := fieldclip.DecodeNodeDepth(req.Field, h.maxDepth)
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	text, err := h.preview.Evaluate(r.Context(), n, req.Record)
	if err != nil {
		h.api.Err(w, r, err)
		return
	}
	h.api.Respond(w, r, http.StatusOK, previewResponse{Text: text})
}

type fieldsResponse struct {
	Fields []string `json:"fields"`
}

func (h *Handler) handleGetFields(w http.ResponseWriter, r *http.Request) {
	names, err := h.fields.ListFields(r.Context())
	if err != nil {
		h.api.Err(w, r, err)
		return
	}
	h.api.Respond(w, r, http.StatusOK, fieldsResponse{Fields: names})
}

type importResponse struct {
	statusResponse
	Count int `json:"count"`
}

// handlePostFields replaces the catalog. A text/plain body holds one name
// per line, any other body is a JSON array of names.
func (h *Handler) handlePostFields(w http.ResponseWriter, r *http.Request) {
	names, err := h.decodeFieldNames(r)
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	n, err := h.fields.ImportFields(r.Context(), names)
	if err != nil {
		h.api.Err(w, r, err)
		return
	}
	h.api.Respond(w, r, http.StatusOK, importResponse{
		statusResponse: statusResponse{Status: "success", Message: "Field list imported"},
		Count:          n,
	})
}

func (h *Handler) decodeFieldNames(r *http.Request) ([]string, error) {
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mt == "text/plain" {
		b, err := h.api.ReadBody(r.Body)
		if err != nil {
			return nil, err
		}
		return fieldclip.ParseFieldList(bytes.NewReader(b))
	}

	var names []string
	if err := h.api.DecodeJSON(r.Body, &names); err != nil {
		return nil, err
	}
	return names, nil
}

func (h *Handler) handleDeleteFields(w http.ResponseWriter, r *http.Request) {
	if err := h.fields.ClearFields(r.Context()); err != nil {
		h.api.Err(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
