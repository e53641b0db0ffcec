package demo_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-arrower/keeper"
	"github.com/go-arrower/keeper/demo"
	"github.com/go-arrower/keeper/domain"
	"github.com/go-arrower/keeper/report"
	"github.com/go-arrower/keeper/repository"
)

var ctx = context.Background()

func newTestRunner(t *testing.T, opts ...demo.Option) (*demo.Runner, *report.Memory) {
	t.Helper()

	sink := &report.Memory{}
	clock := func() time.Time { return time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC) }

	runner := demo.NewRunner(
		repository.NewJSONStore(t.TempDir()),
		sink,
		append([]demo.Option{demo.WithSeed(1337), demo.WithClock(clock)}, opts...)...,
	)

	return runner, sink
}

func kinds(entries []report.Entry) []string {
	result := make([]string, 0, len(entries))
	for _, e := range entries {
		result = append(result, e.Kind)
	}

	return result
}

func TestRunner_Run(t *testing.T) {
	t.Parallel()

	tests := []struct {
		program string
		want    []string
	}{
		{"inventory", []string{"DuplicateKey", "InvalidValue", "NotFound", "InvalidValue", "InvalidValue", "NotFound"}},
		{"bank", []string{"InvalidValue", "Overflow", "NotFound", "NotFound"}},
		{"pharmacy", []string{"NotFound", "InvalidValue", "InvalidValue"}},
		{"students", []string{"MissingField", "MalformedField", "MalformedField", "DuplicateKey", "InvalidValue"}},
		{"persistence", []string{"DuplicateKey", "PersistenceError"}},
	}

	for _, tt := range tests {
		t.Run(tt.program, func(t *testing.T) {
			t.Parallel()

			runner, sink := newTestRunner(t)

			failed, err := runner.Run(ctx, tt.program)
			require.NoError(t, err)

			assert.Equal(t, len(tt.want), failed)
			assert.Equal(t, tt.want, kinds(sink.Failures()))
			assert.True(t, sink.Summed)

			for _, f := range sink.Failures() {
				assert.Equal(t, tt.program, f.Program)
				assert.NotEmpty(t, f.Op)
			}
		})
	}

	t.Run("all programs", func(t *testing.T) {
		t.Parallel()

		runner, sink := newTestRunner(t)

		failed, err := runner.Run(ctx)
		require.NoError(t, err)
		assert.Equal(t, 20, failed)
		assert.Len(t, sink.Failures(), 20)
	})

	t.Run("unknown program", func(t *testing.T) {
		t.Parallel()

		runner, sink := newTestRunner(t)

		_, err := runner.Run(ctx, "inventory", "lottery")
		assert.ErrorIs(t, err, demo.ErrUnknownProgram)
		assert.Empty(t, sink.Entries, "nothing runs")
	})

	t.Run("every failure is the expected one", func(t *testing.T) {
		t.Parallel()

		buf := &bytes.Buffer{}
		runner, _ := newTestRunner(t, demo.WithLogger(keeper.NewLogger(buf, keeper.LevelTrace)))

		_, err := runner.Run(ctx)
		require.NoError(t, err)

		assert.NotContains(t, buf.String(), "level=ERROR")
	})

	t.Run("persistence reports its seed data", func(t *testing.T) {
		t.Parallel()

		runner, sink := newTestRunner(t)

		_, err := runner.Run(ctx, "persistence")
		require.NoError(t, err)

		require.GreaterOrEqual(t, len(sink.Entries), 3)
		for i, op := range []string{"add product 1", "add product 2", "add product 3"} {
			assert.Equal(t, op, sink.Entries[i].Op)
			assert.NoError(t, sink.Entries[i].Err)
		}

		assert.Equal(t, sink.Steps, len(sink.Entries), "every step has an outcome")
	})

	t.Run("memory store", func(t *testing.T) {
		t.Parallel()

		runner := demo.NewRunner(repository.NoopStore, &report.Memory{})

		_, err := runner.Run(ctx, "persistence")
		assert.NoError(t, err)
	})

	t.Run("logs failures", func(t *testing.T) {
		t.Parallel()

		buf := &bytes.Buffer{}
		runner, _ := newTestRunner(t, demo.WithLogger(keeper.NewLogger(buf, keeper.LevelTrace)))

		_, err := runner.Run(ctx, "bank")
		require.NoError(t, err)

		assert.Contains(t, buf.String(), "msg=\"step failed\" program=bank")
		assert.Contains(t, buf.String(), "kind=Overflow")
	})
}

func TestPrograms(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"inventory", "bank", "pharmacy", "students", "persistence"}, demo.Programs())
}

func TestImportStudents(t *testing.T) {
	t.Parallel()

	t.Run("import", func(t *testing.T) {
		t.Parallel()

		store := repository.NewJSONStore(t.TempDir())
		sink := &report.Memory{}
		input := "1;Ada;90\n2;Bob\n3;Carl;120\n4;Dora;55\n"

		added, err := demo.ImportStudents(ctx, store, strings.NewReader(input), sink)
		require.NoError(t, err)
		assert.Equal(t, 2, added)
		assert.Equal(t, []string{"MissingField", "InvalidValue"}, kinds(sink.Failures()))

		repo, found, err := repository.Load[domain.Student, int](ctx, store, "students")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, []int{1, 4}, repo.IDs(ctx))
	})

	t.Run("import twice", func(t *testing.T) {
		t.Parallel()

		store := repository.NewJSONStore(t.TempDir())

		_, err := demo.ImportStudents(ctx, store, strings.NewReader("1;Ada;90\n"), &report.Memory{})
		require.NoError(t, err)

		sink := &report.Memory{}
		added, err := demo.ImportStudents(ctx, store, strings.NewReader("1;Ada;90\n2;Bob;80\n"), sink)
		require.NoError(t, err)
		assert.Equal(t, 1, added)
		assert.Equal(t, []string{"DuplicateKey"}, kinds(sink.Failures()))
	})

	t.Run("broken snapshot", func(t *testing.T) {
		t.Parallel()

		store := repository.NewJSONStore(t.TempDir())
		require.NoError(t, store.Store("students", map[string]string{"not": "a list"}))

		_, err := demo.ImportStudents(ctx, store, strings.NewReader("1;Ada;90\n"), &report.Memory{})
		assert.ErrorIs(t, err, repository.ErrPersistence)
	})
}

func TestNewImportHandler(t *testing.T) {
	t.Parallel()

	t.Run("import file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		file := filepath.Join(dir, "students.txt")
		require.NoError(t, os.WriteFile(file, []byte("1;Ada;90\n2;Bob;80\n"), 0o600))

		res, err := demo.NewImportHandler(repository.NewJSONStore(dir), &report.Memory{}).H(ctx, demo.ImportRequest{File: file})
		require.NoError(t, err)
		assert.Equal(t, 2, res.Added)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()

		_, err := demo.NewImportHandler(repository.NewJSONStore(dir), &report.Memory{}).H(ctx, demo.ImportRequest{File: filepath.Join(dir, "x")})
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}
