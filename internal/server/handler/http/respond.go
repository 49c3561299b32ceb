package http

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/atinyakov/MediaKeeper/internal/apperrors"
)

// writeJSON writes v as JSON with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// respondError writes err as a structured error response. Errors outside
// the taxonomy are logged with full detail before a generic internal
// error is sent outward.
func respondError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	if apperrors.StatusFor(err) == http.StatusInternalServerError {
		logger.Error("unhandled error",
			zap.Error(err),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
		)
	}
	apperrors.Write(w, r, err)
}
