package http

import (
	"encoding/json"
	"net/http"
	"time"
)

// ReadyHandler reports readiness along with the start time and uptime of
// the process. The default behavior is always ready.
func ReadyHandler() http.Handler {
	up := time.Now()
	fn := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "ready",
			"started": up.UTC().Format(time.RFC3339Nano),
			"up":      time.Since(up).String(),
		})
	}
	return http.HandlerFunc(fn)
}

// HealthHandler reports that the service is able to answer requests.
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"name":"fieldclip","message":"ready for fields","status":"pass"}` + "\n"))
}
