package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
)

// ErrInvalidJSON is returned by DecodeJSON for any body that does not parse.
var ErrInvalidJSON = errors.New("invalid JSON")

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is the body of mutations that return no resource.
type MessageResponse struct {
	Message string `json:"message"`
}

// CreatedResponse is the body of inserts that return the new row id.
type CreatedResponse struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

// RespondJSON sends a JSON response with the given status code.
// Every JSON response allows any origin.
func RespondJSON(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("ERROR: failed to encode JSON response: %v", err)
	}
}

// RespondError sends a JSON error response with the given message and status code.
func RespondError(w http.ResponseWriter, message string, statusCode int) {
	RespondJSON(w, ErrorResponse{Error: message}, statusCode)
}

// RespondStorageError reports a storage failure as 500 with its cause.
func RespondStorageError(w http.ResponseWriter, err error) {
	RespondError(w, fmt.Sprintf("Database error: %v", err), http.StatusInternalServerError)
}

// DecodeJSON decodes the request body into dst. An empty or malformed body,
// or one with anything but whitespace after the first value, yields
// ErrInvalidJSON.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrInvalidJSON
		}
		return fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: extra data after JSON value", ErrInvalidJSON)
	}
	return nil
}

// ValidationError carries a client-facing message for a rejected request body.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Invalid returns a ValidationError with message.
func Invalid(message string) error {
	return &ValidationError{Message: message}
}
