//go:build linux

package i2c

import (
	"fmt"
	"os"
	"runtime"
	"sync"
	"unsafe"

	"codeberg.org/mutker/powerlogd/internal/errors"
	"golang.org/x/sys/unix"
)

// From <linux/i2c-dev.h> and <linux/i2c.h>.
const (
	ioctlRDWR = 0x0707
	flagRead  = 0x0001
)

// i2cMsg mirrors struct i2c_msg.
type i2cMsg struct {
	addr  uint16
	flags uint16
	len   uint16
	buf   uintptr
}

// rdwrData mirrors struct i2c_rdwr_ioctl_data.
type rdwrData struct {
	msgs  uintptr
	nmsgs uint32
}

// Linux is an i2c-dev character device. Tx issues the write and the read as one
// I2C_RDWR transaction, giving the repeated start register reads need.
type Linux struct {
	mu sync.Mutex
	f  *os.File
}

var _ Bus = (*Linux)(nil)

// Open opens an i2c-dev node such as /dev/i2c-1.
func Open(path string) (Bus, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, errors.New().Wrap(ErrOpenBus, err)
	}
	return &Linux{f: f}, nil
}

func (b *Linux) Tx(addr uint16, w, r []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	msgs := make([]i2cMsg, 0, 2)
	if len(w) > 0 {
		msgs = append(msgs, i2cMsg{addr: addr, len: uint16(len(w)), buf: uintptr(unsafe.Pointer(&w[0]))})
	}
	if len(r) > 0 {
		msgs = append(msgs, i2cMsg{addr: addr, flags: flagRead, len: uint16(len(r)), buf: uintptr(unsafe.Pointer(&r[0]))})
	}
	if len(msgs) == 0 {
		return nil
	}

	data := rdwrData{msgs: uintptr(unsafe.Pointer(&msgs[0])), nmsgs: uint32(len(msgs))}
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, b.f.Fd(), ioctlRDWR, uintptr(unsafe.Pointer(&data)))
	runtime.KeepAlive(w)
	runtime.KeepAlive(r)
	runtime.KeepAlive(msgs)

	if errno != 0 {
		return errors.New().Wrap(ErrTx, fmt.Errorf("addr 0x%02x: %w", addr, errno))
	}
	return nil
}

func (b *Linux) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.f.Close()
}
