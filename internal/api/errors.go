package api

import (
	"encoding/json"
	"net/http"

	"shareit/internal/service"
)

// ErrorResponse is the wire shape for failures: the taxonomy kind plus the
// original human-readable message.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

var kindStatus = map[service.Kind]int{
	service.KindNotFound:          http.StatusNotFound,
	service.KindInvalidRange:      http.StatusBadRequest,
	service.KindUnavailable:       http.StatusBadRequest,
	service.KindInvalidTransition: http.StatusBadRequest,
	service.KindUnsupportedState:  http.StatusBadRequest,
	service.KindValidation:        http.StatusBadRequest,
	service.KindAlreadyExists:     http.StatusConflict,

	// Booking your own item surfaces through the id-validation path in the
	// reference system, which answers 404, not 400.
	service.KindSelfBooking: http.StatusNotFound,
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeServiceError(w http.ResponseWriter, err error) {
	kind := service.KindOf(err)
	status, ok := kindStatus[kind]
	if !ok {
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error:   "Internal",
			Message: "internal server error",
		})
		return
	}
	writeJSON(w, status, ErrorResponse{Error: string(kind), Message: err.Error()})
}

func writeValidationError(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{
		Error:   string(service.KindValidation),
		Message: message,
	})
}
