// Package buildinfo reports when the running binary was built. The clock is
// reseeded with this time after it loses power.
package buildinfo

import (
	"os"
	"runtime/debug"
	"time"
)

// Timestamp is set at link time:
//
//	go build -ldflags "-X codeberg.org/mutker/powerlogd/internal/buildinfo.Timestamp=2025-02-10T08:00:00Z"
var Timestamp string

// Time returns the build time, trying in order the linker-set Timestamp, the
// VCS commit time recorded by the Go toolchain and the executable's
// modification time. ok is false when none is available.
func Time() (t time.Time, ok bool) {
	if t, ok = parse(Timestamp); ok {
		return t, true
	}

	if info, found := debug.ReadBuildInfo(); found {
		for _, s := range info.Settings {
			if s.Key == "vcs.time" {
				if t, ok = parse(s.Value); ok {
					return t, true
				}
			}
		}
	}

	exe, err := os.Executable()
	if err != nil {
		return time.Time{}, false
	}
	fi, err := os.Stat(exe)
	if err != nil {
		return time.Time{}, false
	}
	return fi.ModTime().UTC().Truncate(time.Second), true
}

func parse(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}
