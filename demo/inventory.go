package demo

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/go-arrower/keeper/domain"
	"github.com/go-arrower/keeper/repository"
)

func seedProducts() []domain.Product {
	return []domain.Product{
		{ID: 1, Name: "Hammer", Brand: "Stanley", Quantity: 12},
		{ID: 2, Name: "Screwdriver", Brand: "Wera", Quantity: 30},
		{ID: 3, Name: "Drill", Brand: "Makita", Quantity: 4},
	}
}

func newProductRepo() *repository.AmountRepository[domain.Product, int] {
	return repository.NewAmountRepository[domain.Product, int](
		repository.WithName("products"),
		repository.WithValidator(validator.New()),
	)
}

func (r *Runner) inventory(ctx context.Context, s *session) {
	products := newProductRepo()

	for _, p := range seedProducts() {
		s.step(ctx, fmt.Sprintf("add product %d", p.ID), func() (string, error) {
			return p.String(), products.Add(ctx, p)
		})
	}

	s.step(ctx, "add generated product", func() (string, error) {
		id, err := products.NextID(ctx)
		if err != nil {
			return "", err
		}

		p := domain.Product{ID: id, Name: r.faker.Noun(), Brand: r.faker.Company(), Quantity: int64(r.faker.IntRange(1, 50))}

		return p.String(), products.Add(ctx, p)
	})

	s.expect(ctx, "add product 1 again", repository.ErrDuplicateKey, func() (string, error) {
		return "", products.Add(ctx, domain.Product{ID: 1, Name: "Hammer", Brand: "Bosch", Quantity: 1})
	})

	s.expect(ctx, "add product without name", repository.ErrInvalidValue, func() (string, error) {
		return "", products.Add(ctx, domain.Product{ID: 9, Quantity: 1})
	})

	s.step(ctx, "find product 2", func() (string, error) {
		p, err := products.GetByID(ctx, 2)

		return p.String(), err
	})

	s.expect(ctx, "find product 42", repository.ErrNotFound, func() (string, error) {
		p, err := products.GetByID(ctx, 42)

		return p.String(), err
	})

	s.step(ctx, "sell 2 drills", func() (string, error) {
		left, err := products.AdjustAmount(ctx, 3, -2)

		return fmt.Sprintf("%d left", left), err
	})

	s.expect(ctx, "sell 5 drills", repository.ErrInvalidValue, func() (string, error) {
		left, err := products.AdjustAmount(ctx, 3, -5)

		return fmt.Sprintf("%d left", left), err
	})

	s.step(ctx, "restock hammers", func() (string, error) {
		return "quantity 50", products.UpdateAmount(ctx, 1, 50)
	})

	s.expect(ctx, "set negative stock", repository.ErrInvalidValue, func() (string, error) {
		return "", products.UpdateAmount(ctx, 2, -1)
	})

	s.step(ctx, "remove product 2", func() (string, error) {
		return "", products.Remove(ctx, 2)
	})

	s.expect(ctx, "remove product 2 again", repository.ErrNotFound, func() (string, error) {
		return "", products.Remove(ctx, 2)
	})

	s.step(ctx, "list products", func() (string, error) {
		return listing[domain.Product](ctx, products)
	})
}
