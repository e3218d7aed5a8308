// internal/app/features/shared/respond.go

// Package shared holds the success-response envelope used by every
// feature handler. Failures go through the errors package instead.
package shared

import (
	"encoding/json"
	"net/http"
)

// Envelope is the uniform success body. Zero fields are omitted, so a
// login response carries status+token while a list carries
// status+results+data.
type Envelope struct {
	Status  string `json:"status"`
	Results *int   `json:"results,omitempty"`
	Token   string `json:"token,omitempty"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// JSON writes an Envelope with Status "success".
func JSON(w http.ResponseWriter, code int, env Envelope) {
	env.Status = "success"
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(env)
}

// Data writes a success envelope wrapping data under the given key.
func Data(w http.ResponseWriter, code int, key string, v any) {
	JSON(w, code, Envelope{Data: map[string]any{key: v}})
}

// List writes a success envelope with a results count.
func List(w http.ResponseWriter, key string, items any, count int) {
	JSON(w, http.StatusOK, Envelope{Results: &count, Data: map[string]any{key: items}})
}

// NoContent writes an empty success for deletes.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Decode reads a JSON request body into v. Unknown fields are ignored,
// matching how the rest of the API treats extra input.
func Decode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}
