//go:build !linux

package i2c

import (
	"fmt"
	"runtime"

	"codeberg.org/mutker/powerlogd/internal/errors"
)

// Open always fails: i2c-dev is Linux only.
func Open(path string) (Bus, error) {
	return nil, errors.New().Wrap(ErrOpenBus, fmt.Errorf("%s: i2c-dev not supported on %s", path, runtime.GOOS))
}
