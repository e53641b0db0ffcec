package repository

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
)

var (
	ErrStore = fmt.Errorf("%w: could not store repository data", ErrPersistence)
	ErrLoad  = fmt.Errorf("%w: could not load repository data", ErrPersistence)
)

// Store is an interface to access the data of a repository as a whole,
// so it can be persisted outside of memory.
//
// Load MUST return an error wrapping os.ErrNotExist, if there is no data under name yet.
// Implementations acquire and release all resources within a single call.
type Store interface {
	Store(name string, data any) error
	Load(name string, data any) error
}

// NoopStore never persists anything and always loads an empty sequence.
var NoopStore Store = &noopStore{} //nolint:gochecknoglobals // pattern from std lib slog.DiscardHandler

type noopStore struct{}

func (n noopStore) Store(_ string, _ any) error {
	return nil
}

func (n noopStore) Load(_ string, data any) error {
	if v := reflect.ValueOf(data); v.Kind() == reflect.Pointer && v.Elem().Kind() == reflect.Slice {
		v.Elem().Set(reflect.MakeSlice(v.Elem().Type(), 0, 0))
	}

	return nil
}

// writeFile writes to a temporary file next to path and moves it into place,
// so a failed write keeps the previous content of path.
func writeFile(path string, write func(w io.Writer) error) error {
	dir := filepath.Dir(path)

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("%w: %v", ErrStore, err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStore, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err = write(tmp); err != nil {
		_ = tmp.Close()

		return fmt.Errorf("%w: %v", ErrStore, err)
	}

	if err = tmp.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrStore, err)
	}

	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("%w: %v", ErrStore, err)
	}

	return nil
}

// closeErr keeps the first error of a deferred close.
func closeErr(err *error, closeFn func() error, wrap error) {
	if cErr := closeFn(); cErr != nil && *err == nil {
		*err = fmt.Errorf("%w: %w", wrap, cErr)
	}
}

func persistenceErr(op string, err error) error {
	if errors.Is(err, ErrPersistence) {
		return fmt.Errorf("%s: %w", op, err)
	}

	return fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
}
