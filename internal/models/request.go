package models

// APIResponse represents a generic API response
type APIResponse struct {
	// Success is false whenever Error is set
	Success bool `json:"success"`
	// Message is an optional human readable note
	Message string `json:"message,omitempty"`
	// Error carries the failure reason
	Error string `json:"error,omitempty"`
	// Optional data payload
	Data interface{} `json:"data,omitempty"`
}

// CoachRequest is the body of POST /api/career-coach
type CoachRequest struct {
	UserID  int64  `json:"userId"`
	Message string `json:"message"`
}
