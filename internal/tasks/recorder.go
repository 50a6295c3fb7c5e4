package tasks

import (
	"context"
	"time"

	"codeberg.org/mutker/powerlogd/internal/console"
	"codeberg.org/mutker/powerlogd/internal/errors"
	"codeberg.org/mutker/powerlogd/internal/logger"
	"codeberg.org/mutker/powerlogd/internal/metrics"
	"codeberg.org/mutker/powerlogd/internal/state"
	"codeberg.org/mutker/powerlogd/internal/storage"
	"github.com/cenkalti/backoff/v4"
)

// Recorder formats the shared record as a CSV line, echoes it to the console
// and appends it to the log file.
type Recorder struct {
	Store            *state.Store
	Console          console.Console
	Storage          storage.Service
	StorageAvailable bool
	// File is the log file name relative to the storage root.
	File string
	// RetryDelay separates attempts after a failed write.
	RetryDelay time.Duration
	Metrics    metrics.Collector
	Log        logger.Logger
}

// Cycle runs one logging cycle. If the write fails the whole cycle, snapshot
// included, is repeated every RetryDelay until it succeeds; it returns an
// error only when ctx is done first. The store lock is held for the snapshot
// alone, never across storage I/O or the retry wait.
func (r *Recorder) Cycle(ctx context.Context) error {
	attempt := 0
	op := func() error {
		attempt++

		rec := r.Store.Snapshot()
		line := state.FormatCSV(rec)

		r.Console.WriteLine(line)
		r.Metrics.ObserveRecord(rec)

		if !r.StorageAvailable {
			return nil
		}

		err := r.write(line)
		r.Metrics.RecordWrite(err)
		return err
	}

	notify := func(err error, next time.Duration) {
		r.Log.Warn().
			Err(err).
			Str("peripheral", "storage").
			Str("path", r.File).
			Int("attempt", attempt).
			Dur("retry_in", next).
			Msg("Failed to write to storage. Retrying...")
	}

	b := backoff.WithContext(backoff.NewConstantBackOff(r.RetryDelay), ctx)
	return backoff.RetryNotify(op, b, notify)
}

// write appends line and closes the file. A failed close after a synced append
// is only logged: the line is on the card and retrying would duplicate it.
func (r *Recorder) write(line string) error {
	f, err := r.Storage.OpenAppend(r.File)
	if err != nil {
		return err
	}

	if err := f.AppendLine(line); err != nil {
		if cerr := f.Close(); cerr != nil {
			r.Log.Debug().Err(cerr).Str("path", r.File).Msg("Failed to close log file after write error")
		}
		return err
	}

	if err := f.Close(); err != nil {
		r.Log.Warn().
			Str("error_code", errors.CodeOf(err).String()).
			Err(err).
			Str("path", r.File).
			Msg("Failed to close log file")
	}

	return nil
}
