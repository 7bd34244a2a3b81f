package dogstatsd

// logLevel represents the severity level of an internal log message.
type logLevel string

const (
	// logLevelError represents error messages.
	logLevelError logLevel = "error"
	// logLevelWarn represents warning messages.
	logLevelWarn logLevel = "warning"
	// logLevelInfo represents informational messages.
	logLevelInfo logLevel = "info"
	// logLevelVerbose represents verbose level messages.
	logLevelVerbose logLevel = "verbose"
	// logLevelDebug represents debug level messages.
	logLevelDebug logLevel = "debug"
)
