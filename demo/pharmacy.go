package demo

import (
	"context"
	"fmt"
	"time"

	"github.com/go-arrower/keeper/domain"
	"github.com/go-arrower/keeper/index"
	"github.com/go-arrower/keeper/repository"
)

type pharmacy struct {
	patients      *repository.MemoryRepository[domain.Patient, int]
	prescriptions *repository.AmountRepository[domain.Prescription, int]
}

// prescribe adds p, if its patient exists.
func (ph pharmacy) prescribe(ctx context.Context, p domain.Prescription) error {
	if _, err := ph.patients.GetByID(ctx, p.PatientID); err != nil {
		return fmt.Errorf("prescription %d: patient: %w", p.ID, err)
	}

	return ph.prescriptions.Add(ctx, p)
}

// dispense hands out doses of prescription id, if it has not expired at now.
func (ph pharmacy) dispense(ctx context.Context, id int, doses int64, now time.Time) (int64, error) {
	p, err := ph.prescriptions.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}

	if p.Expired(now) {
		return p.Quantity, fmt.Errorf("%w: prescription %d expired on %s", repository.ErrInvalidValue, id, p.Expires.Format(time.DateOnly))
	}

	return ph.prescriptions.AdjustAmount(ctx, id, -doses)
}

func (r *Runner) pharmacy(ctx context.Context, s *session) {
	now := r.now()
	ph := pharmacy{
		patients:      repository.NewMemoryRepository[domain.Patient, int](repository.WithName("patients")),
		prescriptions: repository.NewAmountRepository[domain.Prescription, int](repository.WithName("prescriptions")),
	}

	for _, p := range []domain.Patient{{ID: 1, Name: "Grace Hopper"}, {ID: 2, Name: r.faker.Name()}} {
		s.step(ctx, fmt.Sprintf("register patient %d", p.ID), func() (string, error) {
			return p.Name, ph.patients.Add(ctx, p)
		})
	}

	month := 30 * 24 * time.Hour
	prescriptions := []domain.Prescription{
		{ID: 1, PatientID: 1, Medicine: "Ibuprofen", Quantity: 20, Expires: now.Add(month)},
		{ID: 2, PatientID: 2, Medicine: "Amoxicillin", Quantity: 14, Expires: now.Add(month)},
		{ID: 3, PatientID: 1, Medicine: "Vitamin D", Quantity: 90, Expires: now.Add(-month)},
	}

	for _, p := range prescriptions {
		s.step(ctx, fmt.Sprintf("prescribe %s to patient %d", p.Medicine, p.PatientID), func() (string, error) {
			return fmt.Sprintf("%d doses", p.Quantity), ph.prescribe(ctx, p)
		})
	}

	s.expect(ctx, "prescribe to patient 7", repository.ErrNotFound, func() (string, error) {
		return "", ph.prescribe(ctx, domain.Prescription{ID: 4, PatientID: 7, Medicine: "Aspirin", Quantity: 1})
	})

	byPatient, err := index.Build(ctx, ph.prescriptions, domain.PrescriptionPatient)
	s.step(ctx, "index prescriptions by patient", func() (string, error) {
		if err != nil {
			return "", err
		}

		return fmt.Sprintf("%d patients, %d prescriptions", byPatient.Len(), byPatient.SourceSize()), nil
	})

	if err != nil {
		return
	}

	s.step(ctx, "prescriptions of patient 1", func() (string, error) {
		return medicines(byPatient.Lookup(1)), nil
	})

	s.step(ctx, "prescriptions of patient 7", func() (string, error) {
		return medicines(byPatient.Lookup(7)), nil
	})

	s.step(ctx, "dispense 2 Ibuprofen", func() (string, error) {
		left, err := ph.dispense(ctx, 1, 2, now)

		return fmt.Sprintf("%d doses left", left), err
	})

	s.expect(ctx, "dispense 30 Amoxicillin", repository.ErrInvalidValue, func() (string, error) {
		left, err := ph.dispense(ctx, 2, 30, now)

		return fmt.Sprintf("%d doses left", left), err
	})

	s.expect(ctx, "dispense expired Vitamin D", repository.ErrInvalidValue, func() (string, error) {
		left, err := ph.dispense(ctx, 3, 1, now)

		return fmt.Sprintf("%d doses left", left), err
	})

	s.step(ctx, "prescribe Cetirizine to patient 2", func() (string, error) {
		return "10 doses", ph.prescribe(ctx, domain.Prescription{ID: 5, PatientID: 2, Medicine: "Cetirizine", Quantity: 10, Expires: now.Add(month)})
	})

	s.step(ctx, "index is stale until rebuilt", func() (string, error) {
		stale := len(byPatient.Lookup(2))

		rebuilt, err := index.Build(ctx, ph.prescriptions, domain.PrescriptionPatient)
		if err != nil {
			return "", err
		}

		return fmt.Sprintf("patient 2 has %d prescriptions, %d after rebuild", stale, len(rebuilt.Lookup(2))), nil
	})
}

func medicines(prescriptions []domain.Prescription) string {
	names := make([]string, 0, len(prescriptions))
	for _, p := range prescriptions {
		names = append(names, p.Medicine)
	}

	return fmt.Sprintf("%v", names)
}
