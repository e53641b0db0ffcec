package app

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/go-arrower/keeper/repository"
)

type ctxKey string

const ctxValidated ctxKey = "keeper.validated"

// PassedValidation is a helper giving you feedback, if a request passed validation of this decorator.
// Use it in case you want to ensure that this decorator was called before continuing with your business logic.
func PassedValidation(ctx context.Context) bool {
	if v, ok := ctx.Value(ctxValidated).(bool); ok {
		return v
	}

	return false
}

// NewValidatedRequest checks the `validate` struct tags of every request.
// A failing request is not passed on and fails with repository.ErrInvalidValue.
func NewValidatedRequest[Req any, Res any](validate *validator.Validate, req Request[Req, Res]) Request[Req, Res] {
	if validate == nil {
		validate = validator.New()
	}

	return &requestValidatingDecorator[Req, Res]{
		validate: validate,
		base:     req,
	}
}

type requestValidatingDecorator[Req any, Res any] struct {
	validate *validator.Validate
	base     Request[Req, Res]
}

func (d *requestValidatingDecorator[Req, Res]) H(ctx context.Context, req Req) (Res, error) { //nolint:ireturn,lll // valid use of generics
	err := d.validate.Struct(req)
	if err != nil {
		return *new(Res), fmt.Errorf("%w: %s: %w", repository.ErrInvalidValue, requestName(req), err)
	}

	return d.base.H(context.WithValue(ctx, ctxValidated, true), req) //nolint:wrapcheck // decorate but not change anything
}
