package logger

import "codeberg.org/mutker/powerlogd/internal/errors"

// Logger defines the interface for logging operations. Components take a
// Logger so tests can capture output; production code uses Default().
type Logger interface {
	Debug() *LogEvent
	Info() *LogEvent
	Warn() *LogEvent
	Error() *LogEvent
	ErrorWithCode(err errors.Error) *LogEvent
}
