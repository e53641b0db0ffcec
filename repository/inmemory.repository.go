package repository

import (
	"context"
	"fmt"
	"math"
	"reflect"
	"slices"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// NewMemoryRepository returns an empty repository for the entity E.
// If your repository needs additional methods, you can embed this repo into your own implementation
// to extend it to your use case. See the examples in the test files.
func NewMemoryRepository[E Entity[ID], ID id](opts ...Option) *MemoryRepository[E, ID] {
	repo := &MemoryRepository[E, ID]{
		data:  make(map[ID]E),
		order: []ID{},
		repoConfig: repoConfig{
			name:       defaultName(new(E)),
			amountRule: NonNegative,
		},
	}

	for _, opt := range opts {
		opt(&repo.repoConfig)
	}

	return repo
}

// MemoryRepository keeps entities of type E unique by their identity.
// Entities are enumerated in the order they have been added.
//
// A MemoryRepository has exactly one owner and is not safe for concurrent use.
type MemoryRepository[E Entity[ID], ID id] struct {
	data  map[ID]E
	order []ID

	// check is the additional rule of embedding repositories, e.g. the AmountRule.
	check func(entity E) error

	repoConfig
}

const panicIDNotSupported = "type of ID is not supported: "

// NextID returns an unused ID. String IDs are random UUIDs, or ULIDs with WithSortableIDs.
// Integer IDs continue after the highest ID in the repository.
func (repo *MemoryRepository[E, ID]) NextID(_ context.Context) (ID, error) { //nolint:ireturn // valid use of generics
	var id ID

	next := reflect.ValueOf(&id).Elem()

	switch next.Kind() { //nolint:exhaustive // id constraint limits the kinds
	case reflect.String:
		if repo.ulidEntropy == nil {
			next.SetString(uuid.New().String())

			break
		}

		sortable, err := ulid.New(ulid.Now(), repo.ulidEntropy)
		if err != nil {
			return id, fmt.Errorf("%w: %w", ErrOverflow, err)
		}

		next.SetString(sortable.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		var highest int64
		for _, known := range repo.order {
			highest = max(highest, reflect.ValueOf(known).Int())
		}

		if highest == math.MaxInt64 || next.OverflowInt(highest+1) {
			return id, fmt.Errorf("%w: no id left after %d", ErrOverflow, highest)
		}

		next.SetInt(highest + 1)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		var highest uint64
		for _, known := range repo.order {
			highest = max(highest, reflect.ValueOf(known).Uint())
		}

		if highest == math.MaxUint64 || next.OverflowUint(highest+1) {
			return id, fmt.Errorf("%w: no id left after %d", ErrOverflow, highest)
		}

		next.SetUint(highest + 1)
	default:
		panic(panicIDNotSupported + next.Kind().String())
	}

	return id, nil
}

// Add inserts entity. It fails with ErrDuplicateKey, if the identity is already taken,
// and with ErrInvalidValue, if the entity breaks a rule of the repository.
func (repo *MemoryRepository[E, ID]) Add(_ context.Context, entity E) error {
	if err := repo.accept(entity); err != nil {
		return err
	}

	id := entity.Identity()
	if _, found := repo.data[id]; found {
		return fmt.Errorf("%w: id %v", ErrDuplicateKey, id)
	}

	repo.data[id] = entity
	repo.order = append(repo.order, id)

	return nil
}

// AddAll adds the entities in order and stops at the first failure.
// Entities before the failing one stay added.
func (repo *MemoryRepository[E, ID]) AddAll(ctx context.Context, entities []E) error {
	for _, e := range entities {
		if err := repo.Add(ctx, e); err != nil {
			return err
		}
	}

	return nil
}

func (repo *MemoryRepository[E, ID]) GetByID(_ context.Context, id ID) (E, error) { //nolint:ireturn // valid use of generics
	if e, ok := repo.data[id]; ok {
		return e, nil
	}

	return *new(E), fmt.Errorf("%w: id %v", ErrNotFound, id)
}

// Remove deletes the entity with id. Other entities are not affected.
func (repo *MemoryRepository[E, ID]) Remove(_ context.Context, id ID) error {
	if _, found := repo.data[id]; !found {
		return fmt.Errorf("%w: id %v", ErrNotFound, id)
	}

	delete(repo.data, id)
	repo.order = slices.DeleteFunc(repo.order, func(known ID) bool { return known == id })

	return nil
}

// All returns a snapshot of all entities in enumeration order.
// Later changes to the repository are not visible in the returned slice.
func (repo *MemoryRepository[E, ID]) All(_ context.Context) ([]E, error) {
	result := make([]E, 0, len(repo.order))

	for _, id := range repo.order {
		result = append(result, repo.data[id])
	}

	return result, nil
}

// IDs returns the identities in enumeration order.
func (repo *MemoryRepository[E, ID]) IDs(_ context.Context) []ID {
	return slices.Clone(repo.order)
}

func (repo *MemoryRepository[E, ID]) Exists(_ context.Context, id ID) (bool, error) {
	_, ok := repo.data[id]

	return ok, nil
}

func (repo *MemoryRepository[E, ID]) Count(_ context.Context) (int, error) {
	return len(repo.data), nil
}

// Clear removes all entities.
func (repo *MemoryRepository[E, ID]) Clear(_ context.Context) error {
	clear(repo.data)
	repo.order = repo.order[:0]

	return nil
}

// accept checks entity against the validator and the rule of an embedding repository.
func (repo *MemoryRepository[E, ID]) accept(entity E) error {
	if err := repo.validateEntity(entity); err != nil {
		return err
	}

	if repo.check != nil {
		return repo.check(entity)
	}

	return nil
}

// Name is the name a Store persists this repository under.
func (repo *MemoryRepository[E, ID]) Name() string {
	return repo.name
}
