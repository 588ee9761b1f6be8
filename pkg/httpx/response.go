package httpx

import (
	"encoding/json"
	"net/http"
)

// WriteJSON writes a JSON response with the given status code. Responses
// are never cached: invitation codes appear in several of them.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// ErrorBody is the error shape shared by middleware and handlers.
type ErrorBody struct {
	Error            string            `json:"error"`
	ErrorDescription string            `json:"error_description"`
	Fields           map[string]string `json:"fields,omitempty"`
}

// WriteError writes an ErrorBody without field details.
func WriteError(w http.ResponseWriter, status int, code, desc string) {
	WriteJSON(w, status, ErrorBody{Error: code, ErrorDescription: desc})
}

// MaxBodyBytes bounds JSON request bodies.
const MaxBodyBytes = 1 << 20

// DecodeJSON reads a bounded JSON body into v, rejecting unknown fields.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
