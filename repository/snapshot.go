package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// Lister is the read side of a repository required to take a snapshot.
type Lister[E any] interface {
	All(ctx context.Context) ([]E, error)
}

// Save writes all entities of repo in enumeration order to store under name.
// Every failure is an ErrPersistence.
func Save[E any](ctx context.Context, repo Lister[E], store Store, name string) error {
	if store == nil {
		return fmt.Errorf("save %s: %w: no store", name, ErrPersistence)
	}

	all, err := repo.All(ctx)
	if err != nil {
		return persistenceErr("save "+name, err)
	}

	if err = store.Store(name, all); err != nil {
		return persistenceErr("save "+name, err)
	}

	return nil
}

// Load returns a new repository populated from the snapshot under name.
// If there is no snapshot yet, the repository is empty and found is false.
// Duplicate ids in the snapshot fail with ErrDuplicateKey, records breaking a rule
// of the repository with ErrInvalidValue. Content that is not a sequence of E fails with ErrPersistence.
func Load[E Entity[ID], ID id](
	ctx context.Context,
	store Store,
	name string,
	opts ...Option,
) (*MemoryRepository[E, ID], bool, error) {
	repo := NewMemoryRepository[E, ID](append([]Option{WithName(name)}, opts...)...)

	found, err := repo.Restore(ctx, store, name)
	if err != nil {
		return nil, false, err
	}

	return repo, found, nil
}

// LoadAmount is Load for entities with a mutable amount.
func LoadAmount[E Amounted[E, ID], ID id](
	ctx context.Context,
	store Store,
	name string,
	opts ...Option,
) (*AmountRepository[E, ID], bool, error) {
	repo := NewAmountRepository[E, ID](append([]Option{WithName(name)}, opts...)...)

	found, err := repo.Restore(ctx, store, name)
	if err != nil {
		return nil, false, err
	}

	return repo, found, nil
}

// Restore replaces all entities of repo with the snapshot under name.
// A missing snapshot clears repo and reports found as false.
// On any error repo stays unchanged.
func (repo *MemoryRepository[E, ID]) Restore(ctx context.Context, store Store, name string) (bool, error) {
	if store == nil {
		return false, fmt.Errorf("load %s: %w: no store", name, ErrPersistence)
	}

	var snapshot []E

	if err := store.Load(name, &snapshot); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			_ = repo.Clear(ctx)

			return false, nil
		}

		return false, persistenceErr("load "+name, err)
	}

	if snapshot == nil {
		return false, fmt.Errorf("load %s: %w: not a sequence of records", name, ErrPersistence)
	}

	data := make(map[ID]E, len(snapshot))
	order := make([]ID, 0, len(snapshot))

	for pos, entity := range snapshot {
		if err := repo.accept(entity); err != nil {
			return false, fmt.Errorf("load %s: record %d: %w", name, pos, err)
		}

		id := entity.Identity()
		if _, dup := data[id]; dup {
			return false, fmt.Errorf("load %s: record %d: %w: id %v", name, pos, ErrDuplicateKey, id)
		}

		data[id] = entity
		order = append(order, id)
	}

	repo.data = data
	repo.order = order

	return true, nil
}
