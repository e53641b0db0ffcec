package repository

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

var _ Store = (*TOMLStore)(nil)

// tomlRecordsKey holds the records, as a TOML document cannot be an array itself.
const tomlRecordsKey = "records"

// TOMLStore persists the data as a TOML document per name in dir,
// with all records in the array of tables [[records]].
type TOMLStore struct {
	dir string
}

func NewTOMLStore(dir string) *TOMLStore {
	return &TOMLStore{dir: dir}
}

func (s *TOMLStore) Path(name string) string {
	return filepath.Join(s.dir, name+".toml")
}

func (s *TOMLStore) Store(name string, data any) error {
	if data == nil {
		return nil
	}

	return writeFile(s.Path(name), func(w io.Writer) error {
		return toml.NewEncoder(w).Encode(map[string]any{tomlRecordsKey: data})
	})
}

func (s *TOMLStore) Load(name string, data any) error {
	file, err := os.Open(s.Path(name))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLoad, err)
	}
	defer file.Close()

	var doc map[string]toml.Primitive

	meta, err := toml.NewDecoder(file).Decode(&doc)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLoad, err)
	}

	records, ok := doc[tomlRecordsKey]
	if !ok {
		return fmt.Errorf("%w: missing key %q", ErrLoad, tomlRecordsKey)
	}

	if err = meta.PrimitiveDecode(records, data); err != nil {
		return fmt.Errorf("%w: %v", ErrLoad, err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("%w: unknown keys %v", ErrLoad, undecoded)
	}

	return nil
}
