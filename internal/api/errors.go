package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"lendit/internal/apperr"

	"github.com/go-playground/validator/v10"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeServiceError maps domain errors onto HTTP status codes. Unclassified
// errors are reported as 500 without leaking internals.
func writeServiceError(w http.ResponseWriter, err error) {
	var verrs validator.ValidationErrors
	switch {
	case apperr.IsNotFound(err):
		writeError(w, http.StatusNotFound, err.Error())
	case apperr.IsBookingStatus(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case apperr.IsConflict(err):
		writeError(w, http.StatusConflict, err.Error())
	case errors.As(err, &verrs):
		writeError(w, http.StatusBadRequest, verrs.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
