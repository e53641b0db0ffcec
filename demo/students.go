package demo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-arrower/keeper/domain"
	"github.com/go-arrower/keeper/repository"
)

// studentsFile contains bad lines on purpose.
const studentsFile = `# id;name;score
1;Ada Lovelace;97
2;Alan Turing;88
3;Grace Hopper
four;Linus Torvalds;70
5;Ken Thompson;x
6;Barbara Liskov;64
2;Dennis Ritchie;75
`

const studentsName = "students"

func newStudentRepo(opts ...repository.Option) *repository.AmountRepository[domain.Student, int] {
	return repository.NewAmountRepository[domain.Student, int](append([]repository.Option{
		repository.WithName(studentsName),
		repository.WithAmountRule(domain.ScoreRule),
	}, opts...)...)
}

func (r *Runner) students(ctx context.Context, s *session) {
	repo := newStudentRepo()

	parsed, err := domain.NewStudentParser().Parse(strings.NewReader(studentsFile))
	for _, lineErr := range splitErrors(err) {
		s.fail(ctx, "parse student records", lineErr)
	}

	for _, st := range parsed {
		s.step(ctx, fmt.Sprintf("add student %d", st.ID), func() (string, error) {
			return st.Name, repo.Add(ctx, st)
		})
	}

	s.step(ctx, "regrade student 6", func() (string, error) {
		return "score 71", repo.UpdateAmount(ctx, 6, 71)
	})

	s.expect(ctx, "set score of student 1 to 120", repository.ErrInvalidValue, func() (string, error) {
		return "", repo.UpdateAmount(ctx, 1, 120)
	})

	s.step(ctx, "grade students", func() (string, error) {
		all, err := repo.All(ctx)
		if err != nil {
			return "", err
		}

		grades := make([]string, 0, len(all))
		for _, st := range all {
			grades = append(grades, fmt.Sprintf("%s=%s", st.Name, st.Grade()))
		}

		return strings.Join(grades, ", "), nil
	})
}

// splitErrors returns the errors joined in err.
func splitErrors(err error) []error {
	if err == nil {
		return nil
	}

	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		return joined.Unwrap()
	}

	return []error{err}
}
