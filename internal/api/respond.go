package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/puri-adityakumar/yellow-ai/internal/core"
)

// Error kinds used in the wire envelope. Every non-2xx body is
// {"kind": ..., "message": ...}.
const (
	kindUnauthenticated = "unauthenticated"
	kindValidation      = "validation"
	kindNotFound        = "not_found"
	kindInternal        = "internal"
)

type errorEnvelope struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, kind, message string) {
	writeJSON(w, status, errorEnvelope{Kind: kind, Message: message})
}

// writeServiceError translates a service error into the wire taxonomy. Raw
// store errors never reach the client; they are logged and reported as
// internal.
func writeServiceError(w http.ResponseWriter, err error, logContext string) {
	var ve *core.ValidationError
	switch {
	case errors.Is(err, core.ErrNotFound):
		writeError(w, http.StatusNotFound, kindNotFound, "Not found")
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, kindValidation, ve.Message)
	default:
		log.Printf("%s: %v", logContext, err)
		writeError(w, http.StatusInternalServerError, kindInternal, "Internal server error")
	}
}
