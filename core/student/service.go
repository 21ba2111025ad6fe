package student

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core"
)

var (
	// errors
	ErrNotFound        = errors.New("student not found")
	ErrStudentIDExists = errors.New("a student with this student ID already exists")
)

type (
	Repository interface {
		CheckStudentIDUniqueness(ctx context.Context, studentID string, excludedStudents ...Student) error
		CreateStudent(ctx context.Context, std Student) (Student, error)
		QueryAllStudents(ctx context.Context) ([]Student, error) // created_at DESC
		GetStudentByID(ctx context.Context, id string) (Student, error)
		GetStudentByStudentID(ctx context.Context, studentID string) (Student, error)
		UpdateStudent(ctx context.Context, std Student) (Student, error)
		DeleteStudent(ctx context.Context, id string) error
		CountStudents(ctx context.Context) (int, error)
	}

	Service struct {
		repo     Repository
		validate *validator.Validate
		conf     *core.Config
	}
)

func NewService(repo Repository, validate *validator.Validate, conf *core.Config) *Service {
	return &Service{
		repo:     repo,
		validate: validate,
		conf:     conf,
	}
}

func (svc *Service) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, svc.conf.Database.Timeout)
}

func (svc *Service) checkUniqueness(ctx context.Context, studentID string, exclStudents ...Student) error {
	ctx, cancel := svc.callCtx(ctx)
	defer cancel()

	if err := svc.repo.CheckStudentIDUniqueness(ctx, studentID, exclStudents...); err != nil {
		if errors.Cause(err) == ErrStudentIDExists {
			return core.NewValidationError(err, core.FieldError{Field: "student_id", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, ns NewStudent) (Student, error) {
	now := time.Now().UTC()
	std := Student{
		StudentID:  ns.StudentID,
		Name:       ns.Name,
		Faculty:    ns.Faculty,
		Department: ns.Department,
		Year:       ns.Year,
		Semester:   ns.Semester,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	ctx, cancel := svc.callCtx(ctx)
	defer cancel()
	return svc.repo.CreateStudent(ctx, std)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Student, error) {
	ctx, cancel := svc.callCtx(ctx)
	defer cancel()
	return svc.repo.QueryAllStudents(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Student, error) {
	ctx, cancel := svc.callCtx(ctx)
	defer cancel()
	return svc.repo.GetStudentByID(ctx, id)
}

func (svc *Service) Update(ctx context.Context, orig Student, us UpdateStudent) (Student, error) {
	std := Student{
		ID:         orig.ID,
		StudentID:  us.StudentID,
		Name:       us.Name,
		Faculty:    us.Faculty,
		Department: us.Department,
		Year:       us.Year,
		Semester:   us.Semester,
		CreatedAt:  orig.CreatedAt,
		UpdatedAt:  time.Now().UTC(),
	}
	ctx, cancel := svc.callCtx(ctx)
	defer cancel()
	return svc.repo.UpdateStudent(ctx, std)
}

// Delete removes a roster record. Attendance records referencing it are
// historical and left untouched.
func (svc *Service) Delete(ctx context.Context, id string) error {
	ctx, cancel := svc.callCtx(ctx)
	defer cancel()
	return svc.repo.DeleteStudent(ctx, id)
}

func (svc *Service) Count(ctx context.Context) (int, error) {
	ctx, cancel := svc.callCtx(ctx)
	defer cancel()
	return svc.repo.CountStudents(ctx)
}

// StudentName resolves a student number to its roster name.
// It satisfies the attendance package's RosterDirectory.
func (svc *Service) StudentName(ctx context.Context, studentID string) (string, error) {
	ctx, cancel := svc.callCtx(ctx)
	defer cancel()
	std, err := svc.repo.GetStudentByStudentID(ctx, NormalizeStudentID(studentID))
	if err != nil {
		return "", err
	}
	return std.Name, nil
}
