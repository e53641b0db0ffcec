package aassert

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/go-arrower/keeper/repository"
)

// Kind asserts that err is classified as the expected kind of the repository errors.
func Kind(t *testing.T, expected repository.Kind, err error, msgAndArgs ...any) bool {
	t.Helper()

	if err == nil {
		return assert.Fail(t, fmt.Sprintf("expected an error of kind %s, got none", expected), msgAndArgs...)
	}

	if got := repository.KindOf(err); got != expected {
		return assert.Fail(t, fmt.Sprintf("error %q is of kind %s, expected: %s", err, got, expected), msgAndArgs...)
	}

	return true
}
