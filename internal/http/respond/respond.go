package respond

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/nomadcabs/nomad-cabs-be/internal/booking"
	"github.com/nomadcabs/nomad-cabs-be/internal/storage"
)

// Envelope is the standard API response wrapper used across handlers.
type Envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// JSON writes a success or informational response using the common envelope.
func JSON(w http.ResponseWriter, status int, message string, data any) {
	write(w, status, Envelope{Code: status, Message: message, Data: data})
}

// Error writes an error response with the shared envelope structure.
func Error(w http.ResponseWriter, status int, message string) {
	write(w, status, Envelope{Code: status, Message: message})
}

// StoreError maps storage and state-machine errors onto the HTTP taxonomy:
// not-found 404, conflicts 409, everything else a logged 500.
func StoreError(w http.ResponseWriter, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		Error(w, http.StatusNotFound, notFoundMsg)
	case errors.Is(err, storage.ErrAlreadyExists):
		Error(w, http.StatusConflict, "record already exists")
	case errors.Is(err, booking.ErrInvalidTransition):
		Error(w, http.StatusConflict, err.Error())
	default:
		log.Printf("respond: store error: %v", err)
		Error(w, http.StatusInternalServerError, "internal error")
	}
}

func write(w http.ResponseWriter, status int, payload Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("respond: encode payload failed: %v", err)
	}
}
