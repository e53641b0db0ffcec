// Package demo runs small programs showing how the repository behaves,
// including every kind of failure it can report.
//
// A program is a fixed sequence of steps. A failing step, even a panicking one,
// is reported to the report.Sink and the program continues with the next step.
package demo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/go-arrower/keeper/report"
	"github.com/go-arrower/keeper/repository"
)

var ErrUnknownProgram = errors.New("unknown program")

// Programs returns the names of all programs in the order they run by default.
func Programs() []string {
	return []string{"inventory", "bank", "pharmacy", "students", "persistence"}
}

type program func(ctx context.Context, s *session)

// Option configures a Runner.
type Option func(r *Runner)

// WithSeed makes the generated sample data reproducible. A seed of 0 is random.
func WithSeed(seed int64) Option {
	return func(r *Runner) {
		r.faker = gofakeit.New(seed)
	}
}

// WithClock replaces time.Now, e.g. to check expiry dates in tests.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		r.now = now
	}
}

// WithLogger sets the logger, otherwise nothing is logged.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

func NewRunner(store repository.Store, sink report.Sink, opts ...Option) *Runner {
	r := &Runner{
		store:  store,
		sink:   sink,
		logger: slog.New(discardHandler{}),
		faker:  gofakeit.New(0),
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(r)
	}

	r.programs = map[string]program{
		"inventory":   r.inventory,
		"bank":        r.bank,
		"pharmacy":    r.pharmacy,
		"students":    r.students,
		"persistence": r.persistence,
	}

	return r
}

// Runner is the orchestrator of the programs.
// It owns all repositories it creates, so a Runner is not safe for concurrent use.
type Runner struct {
	store    repository.Store
	sink     report.Sink
	logger   *slog.Logger
	faker    *gofakeit.Faker
	now      func() time.Time
	programs map[string]program
}

// Run executes the programs with the given names in order, all programs if names is empty.
// It returns the number of failed steps. Failing steps are expected and are not an error,
// the error is returned only for unknown program names, before anything runs.
func (r *Runner) Run(ctx context.Context, names ...string) (int, error) {
	if len(names) == 0 {
		names = Programs()
	}

	for _, name := range names {
		if _, ok := r.programs[name]; !ok {
			return 0, fmt.Errorf("%w: %s, use one of: %v", ErrUnknownProgram, name, Programs())
		}
	}

	failed := 0

	for _, name := range names {
		s := &session{runner: r, program: name}

		r.logger.InfoContext(ctx, "run program", slog.String("program", name))
		r.programs[name](ctx, s)

		failed += s.failed
	}

	r.sink.Summary()

	return failed, nil
}

// session is the state of one program run.
type session struct {
	runner  *Runner
	program string
	failed  int
}

// step runs op and reports its outcome. It returns the reported error, nil if op succeeded.
func (s *session) step(ctx context.Context, op string, fn func() (string, error)) (err error) {
	s.runner.sink.Step(s.program, op)
	s.runner.logger.DebugContext(ctx, "step", slog.String("program", s.program), slog.String("op", op))

	defer func() {
		if p := recover(); p != nil {
			err = &report.PanicError{Value: p}
			s.fail(ctx, op, err)
		}
	}()

	detail, err := fn()
	if err != nil {
		s.fail(ctx, op, err)

		return err
	}

	s.runner.sink.Success(s.program, op, detail)

	return nil
}

// expect runs op, that is supposed to fail with want.
// The failure is still reported, but an unexpected outcome is logged as an error.
func (s *session) expect(ctx context.Context, op string, want error, fn func() (string, error)) {
	err := s.step(ctx, op, fn)

	switch {
	case err == nil:
		s.runner.logger.ErrorContext(ctx, "step did not fail",
			slog.String("program", s.program), slog.String("op", op), slog.String("want", want.Error()))
	case !errors.Is(err, want):
		s.runner.logger.ErrorContext(ctx, "step failed with an unexpected error",
			slog.String("program", s.program),
			slog.String("op", op),
			slog.String("want", want.Error()),
			slog.String("kind", report.KindOf(err)),
			slog.String("err", err.Error()),
		)
	}
}

func (s *session) fail(ctx context.Context, op string, err error) {
	s.failed++
	s.runner.sink.Failure(s.program, op, err)
	s.runner.logger.WarnContext(ctx, "step failed",
		slog.String("program", s.program),
		slog.String("op", op),
		slog.String("kind", report.KindOf(err)),
		slog.String("err", err.Error()),
	)
}

// listing formats all entities of repo, one per line.
func listing[E any](ctx context.Context, repo repository.Lister[E]) (string, error) {
	all, err := repo.All(ctx)
	if err != nil {
		return "", err
	}

	lines := make([]string, 0, len(all))
	for _, e := range all {
		lines = append(lines, fmt.Sprint(e))
	}

	return fmt.Sprintf("%d entries %v", len(all), lines), nil
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discardHandler) WithGroup(string) slog.Handler           { return d }
