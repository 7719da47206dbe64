package httpx

import (
	"encoding/json"
	"net/http"
)

const problemTypeBlank = "about:blank"

// ProblemDetail represents RFC7807 problem details.
type ProblemDetail struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// JSON sends a JSON response with the given status code. Responses are never
// cached since every payload reflects a live upstream query.
func JSON(w http.ResponseWriter, status int, data any) {
	writeJSON(w, "application/json; charset=utf-8", status, data)
}

// Problem sends an RFC7807 problem details response.
func Problem(w http.ResponseWriter, status int, title, detail string) {
	writeJSON(w, "application/problem+json", status, ProblemDetail{
		Type:   problemTypeBlank,
		Title:  title,
		Status: status,
		Detail: detail,
	})
}

func writeJSON(w http.ResponseWriter, contentType string, status int, data any) {
	h := w.Header()
	h.Set("Content-Type", contentType)
	h.Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
