package web

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
)

var (
	errMissingParam = errors.New("url parameter is required")
	errInvalidParam = errors.New("invalid number")
)

// queryInt32 reads key from the query string as an int32 no smaller than minValue.
func queryInt32(r *http.Request, key string, minValue int64) (int32, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, errMissingParam
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || v < minValue {
		return 0, errInvalidParam
	}
	return int32(v), nil
}

// ParseValidateGte reads a required int32 query parameter that must be >= minValue.
// On failure it writes a 400 envelope and returns false.
func ParseValidateGte(r *http.Request, w http.ResponseWriter, logger *slog.Logger, key string, minValue int64) (int32, bool) {
	v, err := queryInt32(r, key, minValue)
	switch {
	case errors.Is(err, errMissingParam):
		RespondError(w, logger, http.StatusBadRequest, fmt.Sprintf("%s url parameter is required", key))
		return 0, false
	case err != nil:
		RespondError(w, logger, http.StatusBadRequest, fmt.Sprintf("Invalid %s number: %s", key, r.URL.Query().Get(key)))
		return 0, false
	}
	return v, true
}
