package repository

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/oklog/ulid/v2"
)

var (
	ErrDuplicateKey = errors.New("duplicate key")
	ErrNotFound     = errors.New("not found")
	ErrInvalidValue = errors.New("invalid value")
	ErrOverflow     = errors.New("overflow")
	ErrPersistence  = errors.New("persistence error")
)

// Kind names one class of the closed error taxonomy of this package.
type Kind string

const (
	KindDuplicateKey Kind = "DuplicateKey"
	KindNotFound     Kind = "NotFound"
	KindInvalidValue Kind = "InvalidValue"
	KindOverflow     Kind = "Overflow"
	KindPersistence  Kind = "PersistenceError"
	KindUnclassified Kind = "Unclassified"
)

// KindOf classifies err. Errors outside the taxonomy are KindUnclassified,
// a nil error has no kind.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrDuplicateKey):
		return KindDuplicateKey
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrOverflow):
		return KindOverflow
	case errors.Is(err, ErrInvalidValue):
		return KindInvalidValue
	case errors.Is(err, ErrPersistence):
		return KindPersistence
	default:
		return KindUnclassified
	}
}

// Entity is the minimal contract of every value kept in a MemoryRepository.
// The identity must not change after the entity is created.
type Entity[ID id] interface {
	Identity() ID
}

// Amounted is an Entity with exactly one mutable numeric field,
// e.g. the quantity of a product or the balance of an account.
// WithAmount returns a copy of the entity with the new amount and
// everything else, especially the identity, unchanged.
type Amounted[E any, ID id] interface {
	Entity[ID]
	Amount() int64
	WithAmount(amount int64) E
}

// id are the types allowed as a primary key used in the generic repositories.
type id interface {
	~string |
		~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// AmountRule decides if an amount is valid for an entity.
// A returned error is wrapped into ErrInvalidValue.
type AmountRule func(amount int64) error

var errNegativeAmount = errors.New("must not be negative")

// NonNegative is the default AmountRule.
func NonNegative(amount int64) error {
	if amount < 0 {
		return fmt.Errorf("%d %w", amount, errNegativeAmount)
	}

	return nil
}

// Option configures a repository.
type Option func(config *repoConfig)

type repoConfig struct {
	name       string
	validate   *validator.Validate
	amountRule AmountRule
	// ulidEntropy is set, if string ids are ULIDs instead of UUIDs.
	ulidEntropy io.Reader
}

// WithName overwrites the name a Store uses to persist the repository.
// By default, it is the type name of the entity, e.g. "Product".
func WithName(name string) Option {
	return func(config *repoConfig) {
		config.name = name
	}
}

// WithValidator checks the `validate` struct tags of every entity before it is added.
// If v is nil, a new validator is used.
func WithValidator(v *validator.Validate) Option {
	if v == nil {
		v = validator.New()
	}

	return func(config *repoConfig) {
		config.validate = v
	}
}

// WithAmountRule replaces NonNegative as the domain constraint of the mutable field.
// ONLY applies to AmountRepository.
func WithAmountRule(rule AmountRule) Option {
	return func(config *repoConfig) {
		if rule != nil {
			config.amountRule = rule
		}
	}
}

// WithSortableIDs makes NextID return ULIDs for string ids.
// They sort in the order NextID was called, even within the same millisecond.
func WithSortableIDs() Option {
	return func(config *repoConfig) {
		config.ulidEntropy = &ulid.LockedMonotonicReader{
			MonotonicReader: ulid.Monotonic(rand.Reader, 0),
		}
	}
}

func defaultName(entity any) string {
	return reflect.TypeOf(entity).Elem().Name()
}

func (c repoConfig) validateEntity(entity any) error {
	if c.validate == nil {
		return nil
	}

	err := c.validate.Struct(entity)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		fields := make([]string, 0, len(fieldErrs))
		for _, fieldErr := range fieldErrs {
			fields = append(fields, fieldErr.Field()+" failed on rule "+fieldErr.Tag())
		}

		return fmt.Errorf("%w: %v", ErrInvalidValue, fields)
	}

	return fmt.Errorf("%w: %v", ErrInvalidValue, err)
}
