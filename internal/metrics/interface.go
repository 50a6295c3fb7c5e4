package metrics

import "codeberg.org/mutker/powerlogd/internal/state"

// Collector receives what the tasks observe. Implementations must be safe for
// concurrent use.
type Collector interface {
	// ObserveRecord exports the record the logger just formatted.
	ObserveRecord(r state.Record)

	// RecordWrite counts one storage write attempt. A nil err is a success.
	RecordWrite(err error)

	// RecordReadError counts a failed periodic read of peripheral.
	RecordReadError(peripheral string)

	SetAvailability(peripheral string, available bool)

	// Close flushes pending output.
	Close() error
}
