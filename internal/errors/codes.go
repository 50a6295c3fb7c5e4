package errors

// Common error codes
const (
	// System errors
	ErrInternal        ErrorCode = "internal_error"
	ErrInvalidArgument ErrorCode = "invalid_argument"
	ErrUnavailable     ErrorCode = "service_unavailable"

	// Configuration errors
	ErrInvalidConfig   ErrorCode = "invalid_configuration"
	ErrBindFlags       ErrorCode = "bind_flags_failed"
	ErrParseFlags      ErrorCode = "parse_flags_failed"
	ErrReadConfig      ErrorCode = "read_config_failed"
	ErrInvalidInterval ErrorCode = "invalid_interval"
	ErrInvalidAttempts ErrorCode = "invalid_attempts"
	ErrInvalidPath     ErrorCode = "invalid_path"

	// Logging errors
	ErrInvalidLogLevel ErrorCode = "invalid_log_level"

	// Initialization errors
	ErrInitFailed     ErrorCode = "initialization_failed"
	ErrShutdownFailed ErrorCode = "shutdown_failed"

	// Process errors
	ErrAlreadyRunning ErrorCode = "already_running"

	// Peripheral errors
	ErrPeripheralUnavailable ErrorCode = "peripheral_unavailable"
	ErrPeripheralRead        ErrorCode = "peripheral_read_failed"

	// Operation errors
	ErrOperationFailed ErrorCode = "operation_failed"
	ErrTimeout         ErrorCode = "operation_timeout"

	// Metrics errors
	ErrInitMetrics  ErrorCode = "init_metrics_failed"
	ErrWriteMetrics ErrorCode = "write_metrics_failed"
)

// Common error messages
var errorMessages = map[ErrorCode]string{
	ErrInternal:              "Internal error occurred",
	ErrInvalidArgument:       "Invalid argument provided",
	ErrUnavailable:           "Service unavailable",
	ErrInvalidConfig:         "Invalid configuration",
	ErrBindFlags:             "Failed to bind flags",
	ErrParseFlags:            "Failed to parse flags",
	ErrReadConfig:            "Failed to read config file",
	ErrInvalidInterval:       "Invalid interval value",
	ErrInvalidAttempts:       "Invalid attempt count",
	ErrInvalidPath:           "Invalid path",
	ErrInvalidLogLevel:       "Invalid log level",
	ErrInitFailed:            "Initialization failed",
	ErrShutdownFailed:        "Shutdown failed",
	ErrAlreadyRunning:        "Another instance is already running",
	ErrPeripheralUnavailable: "Peripheral unavailable",
	ErrPeripheralRead:        "Failed to read peripheral",
	ErrOperationFailed:       "Operation failed",
	ErrTimeout:               "Operation timed out",
	ErrInitMetrics:           "Failed to initialize metrics",
	ErrWriteMetrics:          "Failed to write metrics",
}

// GetErrorMessage returns the message for a given error code
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}

	return string(code)
}
