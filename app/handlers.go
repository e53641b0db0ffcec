// Package app provides common decorators for use cases in the application layer.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
)

// Request can produce side effects and return data.
type Request[Req any, Res any] interface {
	H(ctx context.Context, req Req) (Res, error)
}

// RequestFunc adapts a function to a Request.
type RequestFunc[Req any, Res any] func(ctx context.Context, req Req) (Res, error)

func (f RequestFunc[Req, Res]) H(ctx context.Context, req Req) (Res, error) { //nolint:ireturn // valid use of generics
	return f(ctx, req)
}

// NewInstrumentedRequest is a convenience helper for easy dependency setup.
// The order of dependencies represents the order of calling.
func NewInstrumentedRequest[Req any, Res any](
	logger *slog.Logger,
	validate *validator.Validate,
	req Request[Req, Res],
) Request[Req, Res] {
	return NewLoggedRequest(logger, NewValidatedRequest(validate, req))
}

// requestName returns packageName.structName of the request.
func requestName(req any) string {
	return fmt.Sprintf("%T", req)
}
