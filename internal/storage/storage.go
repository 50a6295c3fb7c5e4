package storage

import (
	"os"

	"codeberg.org/mutker/powerlogd/internal/errors"
	"github.com/spf13/afero"
)

const defaultFilePerm = 0o644

type Config struct {
	// Root is the mount point of the removable storage.
	Root string
}

func (c Config) Validate() error {
	if c.Root == "" {
		return errors.New().New(ErrInvalidRoot)
	}
	return nil
}

type service struct {
	root string
	fs   afero.Fs
}

// New returns a Service rooted at cfg.Root on the host filesystem.
func New(cfg Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return NewWithFs(afero.NewOsFs(), cfg.Root), nil
}

// NewWithFs returns a Service rooted at root on fs.
func NewWithFs(fs afero.Fs, root string) Service {
	return &service{
		root: root,
		fs:   afero.NewBasePathFs(fs, root),
	}
}

// Mount fails unless the root exists and is a directory.
func (s *service) Mount() error {
	ok, err := afero.DirExists(s.fs, "/")
	if err != nil {
		return errors.New().Wrap(ErrNotMounted, err)
	}
	if !ok {
		return errors.New().WithData(ErrNotMounted, s.root)
	}
	return nil
}

func (s *service) OpenAppend(name string) (File, error) {
	f, err := s.fs.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_APPEND, defaultFilePerm)
	if err != nil {
		return nil, errors.New().Wrap(ErrOpen, err)
	}
	return &file{f: f}, nil
}

type file struct {
	f afero.File
}

// AppendLine writes text and a newline, then syncs.
func (f *file) AppendLine(text string) error {
	errFactory := errors.New()

	if _, err := f.f.WriteString(text + "\n"); err != nil {
		return errFactory.Wrap(ErrWrite, err)
	}
	if err := f.f.Sync(); err != nil {
		return errFactory.Wrap(ErrWrite, err)
	}
	return nil
}

func (f *file) Close() error {
	if err := f.f.Close(); err != nil {
		return errors.New().Wrap(ErrClose, err)
	}
	return nil
}
