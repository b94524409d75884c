package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "refeitorio/pkg/domain-errors"
)

// WriteJSON writes v as a JSON response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError renders a domain error as a JSON envelope. Internal errors omit
// the description so implementation details never leak to clients.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	body := map[string]string{"error": string(code)}
	var de *dErrors.Error
	if code != dErrors.CodeInternal && errors.As(err, &de) && de.Description != "" {
		body["error_description"] = de.Description
	}
	WriteJSON(w, dErrors.ToHTTPStatus(code), body)
}

// WriteMessage renders a {message} body, the shape the ordering API uses for
// client-facing precondition failures.
func WriteMessage(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{"message": message})
}
