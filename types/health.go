package types

// Health status constants represent the operational state of the backend as
// seen from this client.
const (
	// StatusHealthy indicates the backend answered a probe normally.
	StatusHealthy = "healthy"

	// StatusDegraded indicates the backend answered but reported trouble.
	StatusDegraded = "degraded"

	// StatusUnhealthy indicates the backend could not be reached or returned
	// an error.
	StatusUnhealthy = "unhealthy"
)

// HealthStatus reports the outcome of a backend health probe.
type HealthStatus struct {
	// Status is the current health state (healthy, degraded, or unhealthy).
	Status string `json:"status"`

	// Message is a human-readable description of the state.
	Message string `json:"message,omitempty"`

	// Details carries diagnostic context such as latency or the failing
	// endpoint.
	Details map[string]any `json:"details,omitempty"`
}

// IsHealthy returns true if the status is StatusHealthy.
func (h HealthStatus) IsHealthy() bool {
	return h.Status == StatusHealthy
}

// NewHealthyStatus creates a healthy status with an optional message.
func NewHealthyStatus(message string) HealthStatus {
	return HealthStatus{Status: StatusHealthy, Message: message}
}

// NewDegradedStatus creates a degraded status with a message and details.
func NewDegradedStatus(message string, details map[string]any) HealthStatus {
	return HealthStatus{Status: StatusDegraded, Message: message, Details: details}
}

// NewUnhealthyStatus creates an unhealthy status with a message and details.
func NewUnhealthyStatus(message string, details map[string]any) HealthStatus {
	return HealthStatus{Status: StatusUnhealthy, Message: message, Details: details}
}
