package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     *APIError   `json:"error,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// APIError represents an API error
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// writeJSONResponse writes a JSON response
func writeJSONResponse(w http.ResponseWriter, r *http.Request, statusCode int, data interface{}) {
	requestID := getRequestID(r)

	response := APIResponse{
		Success:   statusCode < 400,
		Data:      data,
		RequestID: requestID,
		Timestamp: time.Now(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(response)
}

// writeErrorResponse writes an error JSON response
func writeErrorResponse(w http.ResponseWriter, r *http.Request, statusCode int, code, message, details string) {
	requestID := getRequestID(r)

	response := APIResponse{
		Success: false,
		Error: &APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
		RequestID: requestID,
		Timestamp: time.Now(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(response)
}

// getRequestID extracts request ID from context
func getRequestID(r *http.Request) string {
	if requestID := r.Context().Value("request_id"); requestID != nil {
		if id, ok := requestID.(string); ok {
			return id
		}
	}
	return uuid.New().String()
}

// Common error responses
func writeBadRequestError(w http.ResponseWriter, r *http.Request, message string) {
	writeErrorResponse(w, r, http.StatusBadRequest, "BAD_REQUEST", message, "")
}

func writeNotFoundError(w http.ResponseWriter, r *http.Request, resource string) {
	writeErrorResponse(w, r, http.StatusNotFound, "NOT_FOUND", resource+" not found", "")
}

func writeInternalServerError(w http.ResponseWriter, r *http.Request, err error) {
	writeErrorResponse(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", err.Error())
}
