package authsdk

import (
	"encoding/json"
	"net/http"
)

// WriteError writes the error to w in the gateway's wire format. The same
// APIError type serves both sides: the gateway writes it, the SDK's
// parseErrorResponse reads it back.
func (e *APIError) WriteError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(e.StatusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":             e.Code,
		"error_description": e.Description,
	})
}
