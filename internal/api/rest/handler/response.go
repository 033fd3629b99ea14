package handler

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse carries a failure with error detail, for internal endpoints
// where surfacing the cause to the caller is acceptable.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// MessageResponse carries a failure with a generic human-readable message
// and no error detail.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// WriteJSONResponse writes a JSON response with the given status code and data
func WriteJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteErrorResponse writes a failure response carrying error detail
func WriteErrorResponse(w http.ResponseWriter, statusCode int, err string) {
	WriteJSONResponse(w, statusCode, ErrorResponse{Error: err})
}

// WriteMessageResponse writes a failure response with a generic message
func WriteMessageResponse(w http.ResponseWriter, statusCode int, message string) {
	WriteJSONResponse(w, statusCode, MessageResponse{Message: message})
}
