package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/justchokingaround/marquee/internal/batch"
	providerhttp "github.com/justchokingaround/marquee/internal/providers/http"
)

type errorBody struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}

// badRequest marks errors caused by malformed input
type badRequest struct{ msg string }

func (e badRequest) Error() string { return e.msg }

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps pipeline errors onto HTTP statuses. A failed all-or-nothing
// batch is an upstream failure; a provider 404 stays a 404.
func statusFor(err error) int {
	var (
		bad  badRequest
		perr *providerhttp.ProviderError
		agg  *batch.AggregationError
	)
	switch {
	case errors.As(err, &bad):
		return http.StatusBadRequest
	case errors.As(err, &perr) && perr.NotFound():
		return http.StatusNotFound
	case errors.As(err, &agg), errors.As(err, &perr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	reqID := RequestIDFromContext(r.Context())
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "request_id", reqID, "error", err)
	}
	writeJSON(w, status, errorBody{Error: err.Error(), RequestID: reqID})
}
