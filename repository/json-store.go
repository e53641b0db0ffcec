package repository

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

var _ Store = (*JSONStore)(nil)

// JSONStore persists the data as a human-readable JSON file per name in dir.
// JSONStore is not schema aware and uses the standard go marshalling,
// fields in the file that the target type does not know are rejected.
type JSONStore struct {
	dir string
}

// NewJSONStore returns a JSONStore writing to dir. The directory is created on the first Store.
func NewJSONStore(dir string) *JSONStore {
	return &JSONStore{dir: dir}
}

func (s *JSONStore) Path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

func (s *JSONStore) Store(name string, data any) error {
	if data == nil {
		return nil
	}

	b, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStore, err)
	}

	return writeFile(s.Path(name), func(w io.Writer) error {
		_, err := io.Copy(w, bytes.NewReader(b))

		return err
	})
}

func (s *JSONStore) Load(name string, data any) error {
	file, err := os.Open(s.Path(name))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLoad, err)
	}
	defer file.Close()

	dec := json.NewDecoder(file)
	dec.DisallowUnknownFields()

	if err = dec.Decode(data); err != nil {
		return fmt.Errorf("%w: %v", ErrLoad, err)
	}

	if _, err = dec.Token(); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: unexpected data after the records", ErrLoad)
	}

	return nil
}
