package web

import (
	"encoding/json"
	"net/http"

	"inventory-ledger/internal/core"
)

type errorResponse struct {
	Error     string            `json:"error"`
	Code      string            `json:"code"`
	Details   map[string]string `json:"details,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, r *http.Request, message, code string, status int) {
	writeErrorResponse(w, r, status, errorResponse{Error: message, Code: code})
}

// writeServiceError maps a ledger error to its HTTP status. Errors without a
// ledger code are reported as internal errors without leaking their text.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	typed := core.AsError(err)
	if typed == nil {
		meta := core.MetadataFor(core.CodeInternal)
		writeErrorResponse(w, r, meta.HTTPStatus, errorResponse{Error: meta.PublicMessage, Code: string(core.CodeInternal)})
		return
	}
	meta := core.MetadataFor(typed.Code())
	writeErrorResponse(w, r, meta.HTTPStatus, errorResponse{
		Error:   typed.Message(),
		Code:    string(typed.Code()),
		Details: typed.Details(),
	})
}

func writeErrorResponse(w http.ResponseWriter, r *http.Request, status int, resp errorResponse) {
	resp.RequestID = requestIDFromContext(r.Context())
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// writeJSON writes a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
