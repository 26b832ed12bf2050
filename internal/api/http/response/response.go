// Package response writes JSON bodies and API errors.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/dtroode/daytrack-server/internal/apierrors"
	"github.com/dtroode/daytrack-server/internal/logger"
)

// ErrorBody is the payload of every failed request.
type ErrorBody struct {
	Kind    apierrors.Kind `json:"kind"`
	Message string         `json:"message"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error renders err. API errors keep their kind, status and message;
// anything else becomes an internal error and is logged.
func Error(w http.ResponseWriter, r *http.Request, log *logger.Logger, err error) {
	apiErr, ok := apierrors.As(err)
	if !ok {
		apiErr = apierrors.NewErrInternalServerError(err)
	}

	if apiErr.HTTPCode >= http.StatusInternalServerError {
		log.Error("Request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err.Error())
	}

	JSON(w, apiErr.HTTPCode, ErrorBody{Kind: apiErr.Kind, Message: apiErr.Message})
}
