// Package records reads entities from flat, delimited text, one entity per line.
//
//	# id;name;score
//	1;Ada;98
//
// Lines starting with # and blank lines are skipped. Parsing failures are
// reported with ErrMissingField and ErrMalformedField, which are independent of
// the errors of the repository: a line that fails never reaches a repository.
package records

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var (
	ErrMissingField   = errors.New("missing field")
	ErrMalformedField = errors.New("malformed field")
)

// Kind of a parsing error, used when reporting it.
type Kind string

const (
	KindMissingField   Kind = "MissingField"
	KindMalformedField Kind = "MalformedField"
)

// KindOf returns the Kind of err, or an empty Kind if err is not a parsing error.
func KindOf(err error) Kind {
	switch {
	case errors.Is(err, ErrMissingField):
		return KindMissingField
	case errors.Is(err, ErrMalformedField):
		return KindMalformedField
	default:
		return ""
	}
}

// LineError is the failure of a single line.
type LineError struct {
	Err  error
	Line int
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// Fields are the trimmed values of one line.
type Fields []string

// String returns the field at i. The Parser guarantees i is in range up to the required count.
func (f Fields) String(i int) string {
	return f[i]
}

// Int parses the field at i as a decimal integer.
func (f Fields) Int(i int) (int64, error) {
	v, err := strconv.ParseInt(f[i], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: field %d: %q is not a number", ErrMalformedField, i+1, f[i])
	}

	return v, nil
}

// Parser builds entities of type E from lines with at least Required fields.
type Parser[E any] struct {
	build     func(Fields) (E, error)
	delimiter string
	required  int
}

func NewParser[E any](delimiter string, required int, build func(Fields) (E, error)) *Parser[E] {
	if delimiter == "" {
		panic("records: delimiter must not be empty")
	}

	if required < 1 {
		panic("records: at least one field is required")
	}

	return &Parser[E]{
		build:     build,
		delimiter: delimiter,
		required:  required,
	}
}

// ParseLine turns a single line into an entity.
func (p *Parser[E]) ParseLine(line string) (E, error) {
	parts := strings.Split(line, p.delimiter)
	if len(parts) < p.required {
		return *new(E), fmt.Errorf("%w: want %d fields, got %d", ErrMissingField, p.required, len(parts))
	}

	fields := make(Fields, len(parts))
	for i, part := range parts {
		fields[i] = strings.TrimSpace(part)
	}

	return p.build(fields)
}

// Parse reads all lines of r. It returns every entity that could be parsed
// and the joined LineErrors of all lines that could not.
// Reading errors of r stop the parsing and are returned as they are.
func (p *Parser[E]) Parse(r io.Reader) ([]E, error) {
	var (
		entities []E
		errs     []error
		lineNo   int
	)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNo++

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		e, err := p.ParseLine(line)
		if err != nil {
			errs = append(errs, &LineError{Line: lineNo, Err: err})

			continue
		}

		entities = append(entities, e)
	}

	if err := scanner.Err(); err != nil {
		return entities, fmt.Errorf("could not read records: %w", err)
	}

	return entities, errors.Join(errs...)
}
