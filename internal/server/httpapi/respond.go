package httpapi

import (
	"encoding/json"
	"net/http"
)

// Machine-readable status strings. Clients branch on these, not on the
// human-readable error text.
const (
	statusSuccess            = "success"
	statusInvalidData        = "invalid_data"
	statusInvalidCredentials = "invalid_credentials"
	statusUnauthorized       = "unauthorized"
	statusNotVerified        = "not_verified"
	statusTokenNotFound      = "token_not_found"
	statusUnknownError       = "unknown_error"
)

type response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, body response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

func writeData(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, response{Status: statusSuccess, Data: data})
}

func writeError(w http.ResponseWriter, code int, status string, message string) {
	writeJSON(w, code, response{Status: status, Error: message})
}
