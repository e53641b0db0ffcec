package repository

import (
	"context"
	"fmt"
)

// NewAmountRepository returns an empty repository for entities with a mutable amount.
// The amount is checked against NonNegative, unless WithAmountRule is given,
// when an entity is added, restored, or updated.
func NewAmountRepository[E Amounted[E, ID], ID id](opts ...Option) *AmountRepository[E, ID] {
	repo := &AmountRepository[E, ID]{
		MemoryRepository: NewMemoryRepository[E, ID](opts...),
	}

	repo.check = func(entity E) error {
		return repo.checkAmount(entity.Identity(), entity.Amount())
	}

	return repo
}

// AmountRepository extends MemoryRepository with in place updates of the
// single mutable field of its entities.
type AmountRepository[E Amounted[E, ID], ID id] struct {
	*MemoryRepository[E, ID]
}

// UpdateAmount overwrites the amount of the entity with id.
// It fails with ErrNotFound for unknown ids and with ErrInvalidValue,
// if the amount violates the AmountRule. On failure the stored amount is unchanged.
func (repo *AmountRepository[E, ID]) UpdateAmount(_ context.Context, id ID, amount int64) error {
	current, found := repo.data[id]
	if !found {
		return fmt.Errorf("%w: id %v", ErrNotFound, id)
	}

	if err := repo.checkAmount(id, amount); err != nil {
		return err
	}

	updated := current.WithAmount(amount)
	if updated.Identity() != id {
		panic(fmt.Sprintf("WithAmount changed the identity of %v to %v", id, updated.Identity()))
	}

	repo.data[id] = updated

	return nil
}

// AdjustAmount adds delta to the amount of the entity with id and returns the new amount.
// A sum outside of the int64 range fails with ErrOverflow, otherwise
// the same rules as for UpdateAmount apply.
func (repo *AmountRepository[E, ID]) AdjustAmount(ctx context.Context, id ID, delta int64) (int64, error) {
	current, found := repo.data[id]
	if !found {
		return 0, fmt.Errorf("%w: id %v", ErrNotFound, id)
	}

	amount, ok := addAmount(current.Amount(), delta)
	if !ok {
		return current.Amount(), fmt.Errorf("%w: id %v: %d%+d", ErrOverflow, id, current.Amount(), delta)
	}

	if err := repo.UpdateAmount(ctx, id, amount); err != nil {
		return current.Amount(), err
	}

	return amount, nil
}

func (repo *AmountRepository[E, ID]) checkAmount(id ID, amount int64) error {
	if err := repo.amountRule(amount); err != nil {
		return fmt.Errorf("%w: id %v: %w", ErrInvalidValue, id, err)
	}

	return nil
}

// addAmount reports false instead of wrapping around.
func addAmount(a, b int64) (int64, bool) {
	sum := a + b

	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, false
	}

	return sum, true
}
