package dto

import "time"

// ErrorResponse is the standard JSON error body returned by the API.
//
// Fields:
//   - Message: short human readable description.
//   - ErrorDetails: underlying error text, omitted when empty.
//   - Kind: error classification for share data failures (e.g. "PARSE"), omitted when empty.
//   - Timestamp: when the error was produced (UTC).
type ErrorResponse struct {
	Message      string    `json:"message" example:"invalid share data"`
	ErrorDetails string    `json:"error_details,omitempty" example:"line 3: invalid price \"abc\" for Acme"`
	Kind         string    `json:"kind,omitempty" example:"PARSE"`
	Timestamp    time.Time `json:"timestamp"`
}

// Error implements the error interface so ErrorResponse can be attached to gin contexts.
func (e ErrorResponse) Error() string {
	if e.ErrorDetails == "" {
		return e.Message
	}
	return e.Message + ": " + e.ErrorDetails
}

// NewErrorResponse builds an ErrorResponse; err may be nil.
func NewErrorResponse(message string, err error) ErrorResponse {
	resp := ErrorResponse{Message: message, Timestamp: time.Now().UTC()}
	if err != nil {
		resp.ErrorDetails = err.Error()
	}
	return resp
}
