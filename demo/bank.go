package demo

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/go-arrower/keeper/domain"
	"github.com/go-arrower/keeper/repository"
)

type accounts = repository.AmountRepository[domain.Account, int]

func (r *Runner) bank(ctx context.Context, s *session) {
	repo := repository.NewAmountRepository[domain.Account, int](repository.WithName("accounts"))

	owners := []string{"Ada Lovelace", "Alan Turing", r.faker.Name()}
	for i, owner := range owners {
		a := domain.Account{ID: i + 1, Owner: owner, Balance: 100_00}

		s.step(ctx, fmt.Sprintf("open account %d", a.ID), func() (string, error) {
			return owner, repo.Add(ctx, a)
		})
	}

	s.step(ctx, "deposit 25.00 to account 1", func() (string, error) {
		balance, err := repo.AdjustAmount(ctx, 1, 25_00)

		return cents(balance), err
	})

	s.expect(ctx, "withdraw 500.00 from account 2", repository.ErrInvalidValue, func() (string, error) {
		balance, err := repo.AdjustAmount(ctx, 2, -500_00)

		return cents(balance), err
	})

	s.expect(ctx, "deposit the maximum to account 3", repository.ErrOverflow, func() (string, error) {
		balance, err := repo.AdjustAmount(ctx, 3, math.MaxInt64)

		return cents(balance), err
	})

	s.expect(ctx, "deposit to account 99", repository.ErrNotFound, func() (string, error) {
		balance, err := repo.AdjustAmount(ctx, 99, 1)

		return cents(balance), err
	})

	s.step(ctx, "transfer 40.00 from account 1 to 2", func() (string, error) {
		return "", transfer(ctx, repo, 1, 2, 40_00)
	})

	s.expect(ctx, "transfer 10.00 from account 3 to 99", repository.ErrNotFound, func() (string, error) {
		return "", transfer(ctx, repo, 3, 99, 10_00)
	})

	s.step(ctx, "close account 3", func() (string, error) {
		return "", repo.Remove(ctx, 3)
	})

	s.step(ctx, "list accounts", func() (string, error) {
		return listing[domain.Account](ctx, repo)
	})
}

// transfer moves amount between two accounts. If the deposit fails,
// the withdrawal is reverted.
func transfer(ctx context.Context, repo *accounts, from int, to int, amount int64) error {
	if _, err := repo.AdjustAmount(ctx, from, -amount); err != nil {
		return fmt.Errorf("withdraw from %d: %w", from, err)
	}

	if _, err := repo.AdjustAmount(ctx, to, amount); err != nil {
		if _, rErr := repo.AdjustAmount(ctx, from, amount); rErr != nil {
			return errors.Join(fmt.Errorf("deposit to %d: %w", to, err), fmt.Errorf("revert %d: %w", from, rErr))
		}

		return fmt.Errorf("deposit to %d: %w", to, err)
	}

	return nil
}

func cents(amount int64) string {
	return fmt.Sprintf("balance %d.%02d", amount/100, amount%100)
}
