package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Notifuse/blockeditor/internal/domain"
	"github.com/Notifuse/blockeditor/pkg/blocks"
	"github.com/Notifuse/blockeditor/pkg/logger"
)

// WriteJSONError writes a JSON error response with the given message and status code.
// The body is formatted as {"error": "message"}.
func WriteJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}

// writeJSON writes a JSON response with the given status code and data.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// unprocessable are structurally valid requests the document cannot honour
var unprocessable = []error{
	blocks.ErrNoParent,
	blocks.ErrRootBlock,
	blocks.ErrNotContainer,
	blocks.ErrInvalidSlot,
	blocks.ErrInvalidDirection,
	blocks.ErrInvalidDocument,
}

// statusFor maps a service error to its HTTP status
func statusFor(err error) int {
	switch {
	case domain.IsValidationError(err):
		return http.StatusBadRequest
	case domain.IsNotFound(err), errors.Is(err, blocks.ErrBlockNotFound):
		return http.StatusNotFound
	case domain.IsVersionConflict(err):
		return http.StatusConflict
	}
	for _, target := range unprocessable {
		if errors.Is(err, target) {
			return http.StatusUnprocessableEntity
		}
	}
	return http.StatusInternalServerError
}

// writeServiceError answers with the mapped status. Internal failures are
// logged and replaced by fallback so storage details do not leak.
func writeServiceError(w http.ResponseWriter, log logger.Logger, err error, fallback string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.WithField("error", err.Error()).Error(fallback)
		WriteJSONError(w, fallback, status)
		return
	}
	WriteJSONError(w, err.Error(), status)
}
