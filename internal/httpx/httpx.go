package httpx

import (
	"encoding/json"
	"net/http"
)

type APIError struct {
	Error string `json:"error"`
}

func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, code int, msg string) {
	WriteJSON(w, code, APIError{Error: msg})
}

// WriteUnauthorized answers 401 with a WWW-Authenticate challenge so
// clients know which scheme the route expects.
func WriteUnauthorized(w http.ResponseWriter, scheme, msg string) {
	w.Header().Set("WWW-Authenticate", scheme)
	WriteError(w, http.StatusUnauthorized, msg)
}
