package demo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-arrower/keeper/app"
	"github.com/go-arrower/keeper/domain"
	"github.com/go-arrower/keeper/records"
	"github.com/go-arrower/keeper/report"
	"github.com/go-arrower/keeper/repository"
)

type (
	// ImportRequest imports the students in File, one per line: id;name;score.
	ImportRequest struct {
		File string `validate:"required"`
	}
	ImportResponse struct {
		Added int
	}
)

// NewImportHandler returns the use case importing students into store.
func NewImportHandler(store repository.Store, sink report.Sink) app.Request[ImportRequest, ImportResponse] {
	return app.RequestFunc[ImportRequest, ImportResponse](func(ctx context.Context, req ImportRequest) (ImportResponse, error) {
		file, err := os.Open(req.File)
		if err != nil {
			return ImportResponse{}, fmt.Errorf("could not open students: %w", err)
		}
		defer file.Close()

		added, err := ImportStudents(ctx, store, file, sink)

		return ImportResponse{Added: added}, err
	})
}

// ImportStudents adds all students of the flat file r to the students stored in store.
// Every line and every student that can not be added is reported to sink,
// all others are saved. It returns the number of added students.
func ImportStudents(ctx context.Context, store repository.Store, r io.Reader, sink report.Sink) (int, error) {
	const program = "import"

	repo, _, err := repository.LoadAmount[domain.Student, int](ctx, store, studentsName,
		repository.WithAmountRule(domain.ScoreRule),
	)
	if err != nil {
		return 0, err
	}

	parsed, err := domain.NewStudentParser().Parse(r)
	for _, e := range splitErrors(err) {
		var lineErr *records.LineError
		if !errors.As(e, &lineErr) {
			return 0, e
		}

		sink.Failure(program, "parse", lineErr)
	}

	added := 0

	for _, st := range parsed {
		op := fmt.Sprintf("add student %d", st.ID)
		sink.Step(program, op)

		if err := repo.Add(ctx, st); err != nil {
			sink.Failure(program, op, err)

			continue
		}

		added++

		sink.Success(program, op, st.Name)
	}

	if err := repository.Save[domain.Student](ctx, repo, store, studentsName); err != nil {
		return added, err
	}

	sink.Summary()

	return added, nil
}

