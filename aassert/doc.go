// Package aassert provides a set of testing tools
// for use with the normal Go testing system.
//
// Use the stretchr/testify/assert package first.
// This package has additional keeper assertions that go beyond
// what testify is offering, following the design decisions of
// testify/assert as close as possible: every assertion returns
// true on success and accepts optional msgAndArgs.
//
// # Example
//
//	func TestProduct(t *testing.T) {
//		aassert.NumFields(t, 4, domain.Product{}, "snapshot shape")
//
//		err := repo.Remove(ctx, 42)
//		aassert.Kind(t, repository.KindNotFound, err)
//	}
package aassert
