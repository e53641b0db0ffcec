package repository

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

var _ Store = (*YAMLStore)(nil)

// YAMLStore persists the data as a YAML document per name in dir.
// Keys that the target type does not know are rejected on Load.
type YAMLStore struct {
	dir string
}

func NewYAMLStore(dir string) *YAMLStore {
	return &YAMLStore{dir: dir}
}

func (s *YAMLStore) Path(name string) string {
	return filepath.Join(s.dir, name+".yaml")
}

func (s *YAMLStore) Store(name string, data any) error {
	if data == nil {
		return nil
	}

	return writeFile(s.Path(name), func(w io.Writer) error {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)

		if err := enc.Encode(data); err != nil {
			return err
		}

		return enc.Close()
	})
}

func (s *YAMLStore) Load(name string, data any) error {
	file, err := os.Open(s.Path(name))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLoad, err)
	}
	defer file.Close()

	dec := yaml.NewDecoder(file)
	dec.KnownFields(true)

	if err = dec.Decode(data); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty document", ErrLoad)
		}

		return fmt.Errorf("%w: %v", ErrLoad, err)
	}

	return nil
}
