package demo

import (
	"context"
	"fmt"

	"github.com/go-arrower/keeper/domain"
	"github.com/go-arrower/keeper/repository"
)

const (
	productsName = "products"
	brokenName   = "products-broken"
	neverName    = "never-saved"
)

func (r *Runner) persistence(ctx context.Context, s *session) {
	products := newProductRepo()
	for _, p := range seedProducts() {
		s.step(ctx, fmt.Sprintf("add product %d", p.ID), func() (string, error) {
			return p.String(), products.Add(ctx, p)
		})
	}

	s.step(ctx, "save products", func() (string, error) {
		if err := repository.Save[domain.Product](ctx, products, r.store, productsName); err != nil {
			return "", err
		}

		count, _ := products.Count(ctx)

		return fmt.Sprintf("%d products", count), nil
	})

	s.step(ctx, "load products", func() (string, error) {
		loaded, found, err := repository.LoadAmount[domain.Product, int](ctx, r.store, productsName)
		if err != nil {
			return "", err
		}

		count, _ := loaded.Count(ctx)

		return fmt.Sprintf("found=%t, %d products", found, count), nil
	})

	s.step(ctx, "load products never saved", func() (string, error) {
		_, found, err := repository.Load[domain.Product, int](ctx, r.store, neverName)

		return fmt.Sprintf("found=%t", found), err
	})

	s.expect(ctx, "load snapshot with duplicate ids", repository.ErrDuplicateKey, func() (string, error) {
		p := seedProducts()[0]
		if err := r.store.Store(brokenName, []domain.Product{p, p}); err != nil {
			return "", fmt.Errorf("%w: %w", repository.ErrPersistence, err)
		}

		_, _, err := repository.Load[domain.Product, int](ctx, r.store, brokenName)

		return "", err
	})

	s.expect(ctx, "load products as patients", repository.ErrPersistence, func() (string, error) {
		_, _, err := repository.Load[domain.Patient, int](ctx, r.store, productsName)

		return "", err
	})
}
