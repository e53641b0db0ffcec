// Package domain contains the entities of the demonstration programs.
// Every entity has an immutable identity and at most one mutable amount,
// which is changed through a repository.AmountRepository only.
package domain

import (
	"fmt"
	"time"

	"github.com/go-arrower/keeper/records"
	"github.com/go-arrower/keeper/repository"
)

var (
	_ repository.Amounted[Product, int]      = Product{}
	_ repository.Amounted[Account, int]      = Account{}
	_ repository.Entity[int]                 = Patient{}
	_ repository.Amounted[Prescription, int] = Prescription{}
	_ repository.Amounted[Student, int]      = Student{}
)

// Product is an item in the inventory.
type Product struct {
	Name     string `validate:"required"`
	Brand    string
	ID       int   `validate:"min=1"`
	Quantity int64 `validate:"min=0"`
}

func (p Product) Identity() int { return p.ID }
func (p Product) Amount() int64 { return p.Quantity }

func (p Product) WithAmount(quantity int64) Product {
	p.Quantity = quantity

	return p
}

func (p Product) String() string {
	return fmt.Sprintf("#%d %s (%s): %d", p.ID, p.Name, p.Brand, p.Quantity)
}

// Account is a bank account. The Balance is in cents.
type Account struct {
	Owner   string `validate:"required"`
	ID      int    `validate:"min=1"`
	Balance int64  `validate:"min=0"`
}

func (a Account) Identity() int { return a.ID }
func (a Account) Amount() int64 { return a.Balance }

func (a Account) WithAmount(balance int64) Account {
	a.Balance = balance

	return a
}

type Patient struct {
	Name string `validate:"required"`
	ID   int    `validate:"min=1"`
}

func (p Patient) Identity() int { return p.ID }

// Prescription belongs to exactly one Patient. Quantity is the number of remaining doses.
type Prescription struct {
	Expires   time.Time
	Medicine  string `validate:"required"`
	ID        int    `validate:"min=1"`
	PatientID int    `validate:"min=1"`
	Quantity  int64  `validate:"min=0"`
}

func (p Prescription) Identity() int { return p.ID }
func (p Prescription) Amount() int64 { return p.Quantity }

func (p Prescription) WithAmount(quantity int64) Prescription {
	p.Quantity = quantity

	return p
}

// Expired reports if the prescription can no longer be dispensed at now.
func (p Prescription) Expired(now time.Time) bool {
	return !p.Expires.IsZero() && !now.Before(p.Expires)
}

// PrescriptionPatient is the foreign key used to index prescriptions.
func PrescriptionPatient(p Prescription) int {
	return p.PatientID
}

// Student has a score between 0 and 100.
type Student struct {
	Name  string `validate:"required"`
	ID    int    `validate:"min=1"`
	Score int64  `validate:"min=0,max=100"`
}

func (s Student) Identity() int { return s.ID }
func (s Student) Amount() int64 { return s.Score }

func (s Student) WithAmount(score int64) Student {
	s.Score = score

	return s
}

// Grade maps the score to a letter.
func (s Student) Grade() string {
	switch {
	case s.Score >= 90:
		return "A"
	case s.Score >= 80:
		return "B"
	case s.Score >= 70:
		return "C"
	case s.Score >= 60:
		return "D"
	default:
		return "F"
	}
}

// ScoreRule keeps a student's score within 0 and 100.
func ScoreRule(score int64) error {
	if score < 0 || score > 100 {
		return fmt.Errorf("score %d is not within 0 and 100", score) //nolint:err113 // wrapped into ErrInvalidValue by the repository
	}

	return nil
}

// StudentRecordFields is the number of fields in a student line: id;name;score.
const StudentRecordFields = 3

// NewStudentParser reads students from lines in the format id;name;score.
func NewStudentParser() *records.Parser[Student] {
	return records.NewParser(";", StudentRecordFields, func(f records.Fields) (Student, error) {
		id, err := f.Int(0)
		if err != nil {
			return Student{}, err
		}

		score, err := f.Int(2)
		if err != nil {
			return Student{}, err
		}

		return Student{ID: int(id), Name: f.String(1), Score: score}, nil
	})
}
