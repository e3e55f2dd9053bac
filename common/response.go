package common

import (
	"encoding/json"
	"net/http"
)

// WriteJSON writes data with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// WriteResource writes the success envelope {"<name>": value} with status 200.
func WriteResource(w http.ResponseWriter, name string, value any) {
	WriteJSON(w, http.StatusOK, map[string]any{name: value})
}
