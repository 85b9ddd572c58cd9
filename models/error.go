package models

import (
	"net/http"
	"time"
)

// ErrorResponse is the JSON body of every error the API returns.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      int    `json:"code"`
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	RequestID string `json:"request_id,omitempty"`
}

func NewErrorResponse(message string, code int, requestID string) ErrorResponse {
	return ErrorResponse{
		Error:     message,
		Code:      code,
		Status:    http.StatusText(code),
		Timestamp: time.Now().Format(time.RFC3339),
		RequestID: requestID,
	}
}
