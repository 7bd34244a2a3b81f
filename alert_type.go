package dogstatsd

// AlertType represents the severity of an event.
type AlertType string

const (
	// AlertInfo is the default alert type; it is omitted on the wire.
	AlertInfo AlertType = "info"
	// AlertError marks an error event.
	AlertError AlertType = "error"
	// AlertWarning marks a warning event.
	AlertWarning AlertType = "warning"
	// AlertSuccess marks a success event.
	AlertSuccess AlertType = "success"
)

// ServiceCheckStatus represents the reported state of a service check.
type ServiceCheckStatus int

const (
	// StatusOK reports a healthy check.
	StatusOK ServiceCheckStatus = iota
	// StatusWarning reports a degraded check.
	StatusWarning
	// StatusCritical reports a failing check.
	StatusCritical
	// StatusUnknown reports a check whose state could not be determined.
	StatusUnknown
)
