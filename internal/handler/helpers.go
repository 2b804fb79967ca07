// Package handler exposes the staff-facing HTTP API. Handlers translate
// between HTTP and the domain packages; core-API state never lives here.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tabletap/staff-api/internal/upstream"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// writeUpstreamError maps core-API failures onto staff-facing responses. A
// dropped upstream session is a 401 so the client re-authenticates; a
// business rejection carries the upstream message; anything else is a 502.
func writeUpstreamError(w http.ResponseWriter, err error) {
	if errors.Is(err, upstream.ErrUnauthorized) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "session expired, please log in again"})
		return
	}
	var apiErr *upstream.APIError
	if errors.As(err, &apiErr) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": apiErr.Message})
		return
	}
	writeJSON(w, http.StatusBadGateway, map[string]string{"error": "core API unavailable"})
}
