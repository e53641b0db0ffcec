package repository_test

import (
	"context"
	"errors"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/go-arrower/keeper/repository"
	"github.com/go-arrower/keeper/repository/testdata"
)

var errStoreFailed = errors.New("store failed")

var ctx = context.Background()

func newRecordRepo(opts ...repository.Option) *repository.AmountRepository[testdata.Record, testdata.RecordID] {
	return repository.NewAmountRepository[testdata.Record, testdata.RecordID](opts...)
}

func testLabel() testdata.Label {
	return testdata.Label{
		ID:    testdata.LabelID(gofakeit.UUID()),
		Title: gofakeit.BookTitle(),
	}
}

type testStore struct {
	load  func(name string, data any) error
	store func(name string, data any) error
}

func (s testStore) Load(name string, data any) error {
	return s.load(name, data)
}

func (s testStore) Store(name string, data any) error {
	return s.store(name, data)
}

func testStoreFails() testStore {
	return testStore{
		load: func(_ string, _ any) error {
			return errStoreFailed
		},
		store: func(_ string, _ any) error {
			return errStoreFailed
		},
	}
}
