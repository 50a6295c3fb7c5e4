package storage

// Service is the removable storage the CSV log is appended to.
type Service interface {
	// Mount checks the storage is present and usable.
	Mount() error

	// OpenAppend opens name for appending, creating it if needed.
	OpenAppend(name string) (File, error)
}

// File is an open append target. Close must be called after each write cycle.
type File interface {
	AppendLine(text string) error
	Close() error
}
