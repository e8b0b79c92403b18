package web

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
)

// encodeFailureBody is written when a response cannot be marshalled.
const encodeFailureBody = `{"code":500,"message":"INTERNAL_SERVER_ERROR","data":"Internal Server Error"}`

// RespondJSON writes payload as JSON with the given status. A nil payload writes only the status.
func RespondJSON(w http.ResponseWriter, logger *slog.Logger, status int, payload any) {
	if payload == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	response, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Error encoding response to JSON", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(encodeFailureBody))
		return
	}
	w.WriteHeader(status)
	if _, err := w.Write(response); err != nil {
		logger.Debug("Error writing response", "error", err)
	}
}

// RespondError writes a message wrapped in an Envelope.
func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, message string) {
	RespondEnvelope(w, logger, status, message)
}

// ParseID reads the numeric {id} path value. On failure it writes a 400 envelope and returns false.
func ParseID(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (int64, bool) {
	pathValueID := r.PathValue("id")
	id, err := strconv.ParseInt(pathValueID, 10, 64)
	if err != nil {
		RespondError(w, logger, http.StatusBadRequest, fmt.Sprintf("Invalid ID: %s", pathValueID))
		return 0, false
	}
	return id, true
}
