package errors

// ErrorCode is a stable identifier for a failure class. It shows up in
// structured log events as "error_code".
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Error represents a coded error with optional cause and context data
type Error interface {
	error
	Code() ErrorCode
	WithMessage(msg string) Error
	WithData(data any) Error
	GetData() any
	Unwrap() error
}

// Factory defines methods for creating coded errors
type Factory interface {
	New(code ErrorCode) Error
	Wrap(code ErrorCode, err error) Error
	WithMessage(code ErrorCode, msg string) Error
	WithData(code ErrorCode, data any) Error
}
