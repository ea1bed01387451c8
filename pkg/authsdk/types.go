package authsdk

// Credentials is the request body for register and login.
type Credentials struct {
	Username string `json:"username" example:"sue"`
	Password string `json:"password" example:"1234"`
}

// UserResponse identifies a user. Password hashes are never returned.
type UserResponse struct {
	ID       int64  `json:"id" example:"1"`
	Username string `json:"username" example:"sue"`
}

// MessageResponse carries a human-readable result or error message.
type MessageResponse struct {
	Message string `json:"message" example:"Welcome sue"`
}

// HealthResponse represents the response structure for health check endpoints.
// Used by both /livez and /readyz endpoints (readyz includes additional Checks field).
type HealthResponse struct {
	// Status indicates the overall health status (e.g., "ok")
	Status string `json:"status"`

	// Uptime is the service uptime duration as a string (e.g., "1h23m45s")
	Uptime string `json:"uptime,omitempty"`

	// Version is the service version string
	Version string `json:"version,omitempty"`

	// Checks contains the status of individual components (only in readyz)
	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks represents the status of critical service dependencies.
type HealthChecks struct {
	// Database is the credential store status
	Database string `json:"database"`

	// Sessions is the session store status
	Sessions string `json:"sessions"`
}
