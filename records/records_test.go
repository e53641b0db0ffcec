package records_test

import (
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-arrower/keeper/records"
)

type score struct {
	Name  string
	ID    int64
	Score int64
}

func scoreParser() *records.Parser[score] {
	return records.NewParser(";", 3, func(f records.Fields) (score, error) {
		id, err := f.Int(0)
		if err != nil {
			return score{}, err
		}

		points, err := f.Int(2)
		if err != nil {
			return score{}, err
		}

		return score{ID: id, Name: f.String(1), Score: points}, nil
	})
}

func TestParser_ParseLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		line    string
		want    score
		wantErr error
	}{
		{"1;Ada;98", score{ID: 1, Name: "Ada", Score: 98}, nil},
		{" 2 ; Grace Hopper ; 77 ", score{ID: 2, Name: "Grace Hopper", Score: 77}, nil},
		{"3;Linus;10;extra", score{ID: 3, Name: "Linus", Score: 10}, nil},
		{"4;Ken", score{}, records.ErrMissingField},
		{"x;Ken;1", score{}, records.ErrMalformedField},
		{"5;Ken;many", score{}, records.ErrMalformedField},
		{"5;Ken;", score{}, records.ErrMalformedField},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			t.Parallel()

			got, err := scoreParser().ParseLine(tt.line)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParser_Parse(t *testing.T) {
	t.Parallel()

	t.Run("all valid", func(t *testing.T) {
		t.Parallel()

		name := gofakeit.FirstName()
		input := "# id;name;score\n\n1;" + name + ";50\n2;Bob;60\n"

		got, err := scoreParser().Parse(strings.NewReader(input))
		require.NoError(t, err)
		assert.Equal(t, []score{{ID: 1, Name: name, Score: 50}, {ID: 2, Name: "Bob", Score: 60}}, got)
	})

	t.Run("bad lines are reported and skipped", func(t *testing.T) {
		t.Parallel()

		input := "1;Ada;98\n2;Bob\nthree;Carl;3\n4;Dora;40"

		got, err := scoreParser().Parse(strings.NewReader(input))
		assert.Len(t, got, 2)
		assert.ErrorIs(t, err, records.ErrMissingField)
		assert.ErrorIs(t, err, records.ErrMalformedField)

		var lineErr *records.LineError
		require.ErrorAs(t, err, &lineErr)
		assert.Equal(t, 2, lineErr.Line)
		assert.Equal(t, records.KindMissingField, records.KindOf(lineErr))
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()

		got, err := scoreParser().Parse(strings.NewReader(""))
		assert.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("read fails", func(t *testing.T) {
		t.Parallel()

		errRead := errors.New("disk gone")

		_, err := scoreParser().Parse(iotest.ErrReader(errRead))
		assert.ErrorIs(t, err, errRead)
	})
}

func TestNewParser(t *testing.T) {
	t.Parallel()

	build := func(records.Fields) (score, error) { return score{}, nil }

	assert.Panics(t, func() { records.NewParser("", 1, build) })
	assert.Panics(t, func() { records.NewParser(";", 0, build) })
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, records.KindMalformedField, records.KindOf(&records.LineError{Line: 1, Err: records.ErrMalformedField}))
	assert.Equal(t, records.Kind(""), records.KindOf(errors.New("other")))
}
