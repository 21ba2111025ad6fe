package student

import (
	"context"
	"strings"
	"time"

	"github.com/trezcool/mahudhurio/core"
)

// Student is a roster record, keyed internally by ID and externally by StudentID.
type Student struct {
	ID         string    `json:"id"`
	StudentID  string    `json:"student_id"`
	Name       string    `json:"name"`
	Faculty    string    `json:"faculty"`
	Department string    `json:"department"`
	Year       int       `json:"year"`
	Semester   int       `json:"semester"`
	CreatedAt  time.Time `json:"created_at"` // UTC
	UpdatedAt  time.Time `json:"updated_at"` // UTC
}

// NormalizeStudentID trims and uppercases a student number; all uniqueness
// checks and ledger writes go through this form.
func NormalizeStudentID(id string) string {
	return strings.ToUpper(core.CleanString(id))
}

// NewStudent contains information needed to add a Student to the roster.
type NewStudent struct {
	StudentID  string `json:"student_id" validate:"required,min=3,max=20"`
	Name       string `json:"name" validate:"required,min=2,max=100"`
	Faculty    string `json:"faculty" validate:"required,min=2,max=100"`
	Department string `json:"department" validate:"required,min=2,max=100"`
	Year       int    `json:"year" validate:"required,min=1,max=10"`
	Semester   int    `json:"semester" validate:"required,min=1,max=8"`
}

func (ns *NewStudent) Validate(ctx context.Context, svc *Service) error {
	ns.StudentID = NormalizeStudentID(ns.StudentID)
	ns.Name = core.CleanString(ns.Name)
	ns.Faculty = core.CleanString(ns.Faculty)
	ns.Department = core.CleanString(ns.Department)

	if err := svc.validate.Struct(ns); err != nil {
		return err
	}
	return svc.checkUniqueness(ctx, ns.StudentID)
}

// UpdateStudent defines what information may be provided to modify a roster record.
// All fields are required, as on creation; the uniqueness check excludes the
// record being updated.
type UpdateStudent struct {
	StudentID  string `json:"student_id" validate:"required,min=3,max=20"`
	Name       string `json:"name" validate:"required,min=2,max=100"`
	Faculty    string `json:"faculty" validate:"required,min=2,max=100"`
	Department string `json:"department" validate:"required,min=2,max=100"`
	Year       int    `json:"year" validate:"required,min=1,max=10"`
	Semester   int    `json:"semester" validate:"required,min=1,max=8"`
}

func (us *UpdateStudent) Validate(ctx context.Context, orig Student, svc *Service) error {
	us.StudentID = NormalizeStudentID(us.StudentID)
	us.Name = core.CleanString(us.Name)
	us.Faculty = core.CleanString(us.Faculty)
	us.Department = core.CleanString(us.Department)

	if err := svc.validate.Struct(us); err != nil {
		return err
	}
	return svc.checkUniqueness(ctx, us.StudentID, orig)
}
