package repository

import (
	"context"
	"os"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-arrower/keeper/repository/testdata"
)

// Corruption overwrites the data under name with content that is not a valid snapshot.
type Corruption func(t *testing.T, store Store, name string)

// StoreSuite is a conformance test every Store implementation has to pass.
// newStore MUST return a Store without any data. Every entry of corrupt is run as
// its own case and MUST make Load fail with ErrPersistence; if it is empty, those cases are skipped.
func StoreSuite(
	t *testing.T,
	newStore func(t *testing.T) Store,
	corrupt map[string]Corruption,
) { //nolint:tparallel // t.Parallel can only be called ones! The caller decides
	t.Helper()

	if newStore == nil {
		t.Fatal("store constructor is nil")
	}

	ctx := context.Background()

	t.Run("cold start", func(t *testing.T) {
		t.Parallel()

		var data []testdata.Record
		err := newStore(t).Load("Record", &data)
		assert.ErrorIs(t, err, os.ErrNotExist)
		assert.ErrorIs(t, err, ErrPersistence)

		repo, found, err := Load[testdata.Record, testdata.RecordID](ctx, newStore(t), "Record")
		assert.NoError(t, err)
		assert.False(t, found)

		count, _ := repo.Count(ctx)
		assert.Equal(t, 0, count)
	})

	for _, n := range []int{0, 1, 7} {
		t.Run("round trip "+strconv.Itoa(n), func(t *testing.T) {
			t.Parallel()

			store := newStore(t)
			want := testdata.TestRecords(n)

			repo := NewMemoryRepository[testdata.Record, testdata.RecordID]()
			require.NoError(t, repo.AddAll(ctx, want))

			err := Save[testdata.Record](ctx, repo, store, "Record")
			require.NoError(t, err)

			loaded, found, err := Load[testdata.Record, testdata.RecordID](ctx, store, "Record")
			require.NoError(t, err)
			assert.True(t, found)

			got, _ := loaded.All(ctx)
			AssertRecordsEqual(t, want, got)
		})
	}

	t.Run("overwrite", func(t *testing.T) {
		t.Parallel()

		store := newStore(t)

		first := NewMemoryRepository[testdata.Record, testdata.RecordID]()
		_ = first.AddAll(ctx, testdata.TestRecords(3))
		require.NoError(t, Save[testdata.Record](ctx, first, store, "Record"))

		second := NewMemoryRepository[testdata.Record, testdata.RecordID]()
		_ = second.Add(ctx, testdata.TestRecord(42))
		require.NoError(t, Save[testdata.Record](ctx, second, store, "Record"))

		loaded, _, err := Load[testdata.Record, testdata.RecordID](ctx, store, "Record")
		require.NoError(t, err)
		assert.Equal(t, []testdata.RecordID{42}, loaded.IDs(ctx))
	})

	t.Run("names are independent", func(t *testing.T) {
		t.Parallel()

		store := newStore(t)

		records := NewMemoryRepository[testdata.Record, testdata.RecordID]()
		_ = records.AddAll(ctx, testdata.TestRecords(2))
		require.NoError(t, Save[testdata.Record](ctx, records, store, "Record"))

		labels := NewMemoryRepository[testdata.Label, testdata.LabelID]()
		_ = labels.Add(ctx, testdata.Label{ID: "a", Title: "first"})
		require.NoError(t, Save[testdata.Label](ctx, labels, store, "Label"))

		loadedRecords, _, err := Load[testdata.Record, testdata.RecordID](ctx, store, "Record")
		require.NoError(t, err)
		assert.Len(t, loadedRecords.IDs(ctx), 2)

		loadedLabels, _, err := Load[testdata.Label, testdata.LabelID](ctx, store, "Label")
		require.NoError(t, err)
		assert.Equal(t, []testdata.LabelID{"a"}, loadedLabels.IDs(ctx))
	})

	t.Run("duplicate ids in snapshot", func(t *testing.T) {
		t.Parallel()

		store := newStore(t)
		record := testdata.TestRecord(1)
		require.NoError(t, store.Store("Record", []testdata.Record{record, record}))

		repo, found, err := Load[testdata.Record, testdata.RecordID](ctx, store, "Record")
		assert.ErrorIs(t, err, ErrDuplicateKey)
		assert.False(t, found)
		assert.Nil(t, repo)
	})

	t.Run("unknown shape", func(t *testing.T) {
		t.Parallel()

		store := newStore(t)
		require.NoError(t, store.Store("Record", testdata.TestRecords(2)))

		// a Label has no field Name, Count, or Created
		_, _, err := Load[testdata.Label, testdata.LabelID](ctx, store, "Record")
		assert.ErrorIs(t, err, ErrPersistence)
	})

	if len(corrupt) == 0 {
		t.Run("corrupt", func(t *testing.T) {
			t.Skip("store can not be corrupted")
		})
	}

	for reason, corruptFn := range corrupt {
		t.Run("corrupt "+reason, func(t *testing.T) {
			t.Parallel()

			store := newStore(t)
			corruptFn(t, store, "Record")

			repo, found, err := Load[testdata.Record, testdata.RecordID](ctx, store, "Record")
			assert.ErrorIs(t, err, ErrPersistence)
			assert.Equal(t, KindPersistence, KindOf(err))
			assert.False(t, found)
			assert.Nil(t, repo)
		})
	}
}

// AssertRecordsEqual compares timestamps with time.Time.Equal,
// as a round trip does not keep the location or monotonic clock reading.
func AssertRecordsEqual(t *testing.T, want []testdata.Record, got []testdata.Record) {
	t.Helper()

	if !assert.Len(t, got, len(want)) {
		return
	}

	for i := range want {
		assert.True(t, want[i].Created.Equal(got[i].Created), "created of record %d", want[i].ID)

		w, g := want[i], got[i]
		w.Created, g.Created = w.Created.UTC(), g.Created.UTC()
		assert.Equal(t, w, g)
	}
}
