package dto

import "time"

// ErrorResponse is the standardized JSON error envelope returned by all
// endpoints on failure.
type ErrorResponse struct {
	Message      string    `json:"message" example:"question is required"`
	ErrorDetails string    `json:"error,omitempty" example:"invalid request body"`
	Timestamp    time.Time `json:"timestamp"`
}

// Error implements the error interface so the envelope can travel through
// gin's error list.
func (e ErrorResponse) Error() string {
	if e.ErrorDetails != "" {
		return e.Message + ": " + e.ErrorDetails
	}
	return e.Message
}

// NewErrorResponse builds an envelope from a message and an optional
// underlying error.
func NewErrorResponse(message string, err error) ErrorResponse {
	resp := ErrorResponse{
		Message:   message,
		Timestamp: time.Now(),
	}
	if err != nil {
		resp.ErrorDetails = err.Error()
	}
	return resp
}
