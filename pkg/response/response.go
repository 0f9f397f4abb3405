// Package response writes the gateway's JSON wire bodies. Success bodies are
// flat per-endpoint DTOs; error bodies are always {"error": "..."}.
package response

import (
	"net/http"

	"github.com/bytedance/sonic"
)

type ErrorBody struct {
	Error string `json:"error"`
}

// FromError writes the error body with the given status.
func FromError(w http.ResponseWriter, status int, err error) error {
	return write(w, status, ErrorBody{Error: err.Error()})
}

// FromDTO writes the DTO verbatim with the given status.
func FromDTO(w http.ResponseWriter, status int, dto any) error {
	return write(w, status, dto)
}

func write(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(status)
	return sonic.ConfigDefault.NewEncoder(w).Encode(v)
}
