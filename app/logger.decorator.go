package app

import (
	"context"
	"log/slog"
)

func NewLoggedRequest[Req any, Res any](logger *slog.Logger, handler Request[Req, Res]) Request[Req, Res] {
	return &requestLoggingDecorator[Req, Res]{
		logger: logger,
		base:   handler,
	}
}

type requestLoggingDecorator[Req any, Res any] struct {
	logger *slog.Logger
	base   Request[Req, Res]
}

func (d *requestLoggingDecorator[Req, Res]) H(ctx context.Context, req Req) (Res, error) { //nolint:ireturn,lll // valid use of generics
	name := requestName(req)

	d.logger.DebugContext(ctx, "executing request",
		slog.String("request", name),
	)

	res, err := d.base.H(ctx, req)

	if err != nil {
		d.logger.DebugContext(ctx, "failed to execute request",
			slog.String("request", name),
			slog.String("error", err.Error()),
		)
	} else {
		d.logger.DebugContext(ctx, "request executed successfully",
			slog.String("request", name))
	}

	return res, err //nolint:wrapcheck // decorate but not change anything
}
