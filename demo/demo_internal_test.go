package demo

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/go-arrower/keeper/domain"
	"github.com/go-arrower/keeper/report"
	"github.com/go-arrower/keeper/repository"
)

func TestSession_step(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("recover panic", func(t *testing.T) {
		t.Parallel()

		sink := &report.Memory{}
		s := &session{runner: NewRunner(repository.NoopStore, sink), program: "test"}

		err := s.step(ctx, "explode", func() (string, error) {
			panic("boom")
		})
		assert.Equal(t, &report.PanicError{Value: "boom"}, err)

		err = s.step(ctx, "continue", func() (string, error) {
			return "fine", nil
		})
		assert.NoError(t, err)

		assert.Equal(t, 1, s.failed)
		assert.Equal(t, []report.Entry{
			{Program: "test", Op: "explode", Err: &report.PanicError{Value: "boom"}, Kind: "Panic"},
			{Program: "test", Op: "continue", Detail: "fine"},
		}, sink.Entries)
	})

	t.Run("failure", func(t *testing.T) {
		t.Parallel()

		sink := &report.Memory{}
		s := &session{runner: NewRunner(repository.NoopStore, sink), program: "test"}

		s.expect(ctx, "missing", repository.ErrNotFound, func() (string, error) {
			return "", repository.ErrNotFound
		})

		assert.Equal(t, 1, s.failed)
		assert.Equal(t, "NotFound", sink.Failures()[0].Kind)
	})
}

func TestSession_expect(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	newSession := func() (*session, *bytes.Buffer, *report.Memory) {
		buf := &bytes.Buffer{}
		sink := &report.Memory{}
		logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelError}))

		return &session{runner: NewRunner(repository.NoopStore, sink, WithLogger(logger)), program: "test"}, buf, sink
	}

	t.Run("expected error", func(t *testing.T) {
		t.Parallel()

		s, buf, _ := newSession()

		s.expect(ctx, "overflow", repository.ErrOverflow, func() (string, error) {
			return "", fmt.Errorf("%w: id 1", repository.ErrOverflow)
		})

		assert.Equal(t, 1, s.failed)
		assert.Empty(t, buf.String())
	})

	t.Run("other error", func(t *testing.T) {
		t.Parallel()

		s, buf, sink := newSession()

		s.expect(ctx, "overflow", repository.ErrOverflow, func() (string, error) {
			return "", repository.ErrNotFound
		})

		assert.Equal(t, 1, s.failed)
		assert.Equal(t, "NotFound", sink.Failures()[0].Kind)
		assert.Contains(t, buf.String(), "level=ERROR")
		assert.Contains(t, buf.String(), "step failed with an unexpected error")
		assert.Contains(t, buf.String(), "want=overflow")
		assert.Contains(t, buf.String(), "kind=NotFound")
	})

	t.Run("no error", func(t *testing.T) {
		t.Parallel()

		s, buf, sink := newSession()

		s.expect(ctx, "overflow", repository.ErrOverflow, func() (string, error) {
			return "ok", nil
		})

		assert.Equal(t, 0, s.failed)
		assert.Empty(t, sink.Failures())
		assert.Contains(t, buf.String(), "step did not fail")
	})
}

func TestTransfer(t *testing.T) {
	t.Parallel()

	t.Run("transfer", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		repo := repository.NewAmountRepository[domain.Account, int]()
		_ = repo.AddAll(ctx, []domain.Account{{ID: 1, Owner: "Ada", Balance: 100}, {ID: 2, Owner: "Alan"}})

		err := transfer(ctx, repo, 1, 2, 30)
		assert.NoError(t, err)

		a, _ := repo.GetByID(ctx, 2)
		assert.Equal(t, int64(30), a.Balance)
	})

	t.Run("reverts the withdrawal", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		repo := repository.NewAmountRepository[domain.Account, int]()
		_ = repo.Add(ctx, domain.Account{ID: 1, Owner: "Ada", Balance: 100})

		err := transfer(ctx, repo, 1, 2, 50)
		assert.ErrorIs(t, err, repository.ErrNotFound)

		a, _ := repo.GetByID(ctx, 1)
		assert.Equal(t, int64(100), a.Balance)
	})
}
