package httpapi

import (
	"encoding/json"
	"net/http"
)

// errorResponse is the error payload of every endpoint.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func toJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, status int, msg, code string) {
	toJSON(w, status, errorResponse{Error: msg, Code: code})
}

func badRequest(w http.ResponseWriter, msg, code string) { writeErr(w, http.StatusBadRequest, msg, code) }
func notFound(w http.ResponseWriter)                     { writeErr(w, http.StatusNotFound, "not found", "not_found") }
