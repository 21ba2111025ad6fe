package student_test

import (
	"context"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/student"
	inmemdb "github.com/trezcool/mahudhurio/storage/database/inmem"
	testutil "github.com/trezcool/mahudhurio/tests"
)

func newSvc(t *testing.T, repos ...student.Repository) (*student.Service, student.Repository) {
	t.Helper()

	repo := student.Repository(inmemdb.NewStudentRepository(inmemdb.New()))
	if len(repos) > 0 {
		repo = repos[0]
	}

	validate := validator.New()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	core.InitValidators(validate, translator)

	return student.NewService(repo, validate, testutil.NewConfig()), repo
}

func TestService_Create(t *testing.T) {
	svc, _ := newSvc(t)
	ctx := context.Background()

	ns := student.NewStudent{StudentID: " cs-001 ", Name: "Awe Lol", Faculty: "Science", Department: "CS", Year: 2, Semester: 3}
	if err := ns.Validate(ctx, svc); err != nil {
		t.Fatalf("Validate() failed: %v", err)
	}
	if ns.StudentID != "CS-001" {
		t.Errorf("student ID not normalized: %q", ns.StudentID)
	}

	std, err := svc.Create(ctx, ns)
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if std.ID == "" {
		t.Error("no ID assigned")
	}

	// uniqueness ignores case
	dup := student.NewStudent{StudentID: "Cs-001", Name: "Other", Faculty: "Science", Department: "CS", Year: 1, Semester: 1}
	err = dup.Validate(ctx, svc)
	if _, ok := errors.Cause(err).(*core.ValidationError); !ok {
		t.Fatalf("Validate() error = %v, want ValidationError", err)
	}
}

func TestService_Update(t *testing.T) {
	svc, repo := newSvc(t)
	ctx := context.Background()

	std1 := testutil.CreateStudent(t, repo, "CS-001", "Awe Lol", "Science", "CS", 2, 3)
	testutil.CreateStudent(t, repo, "EE-007", "King Kaka", "Engineering", "EE", 1, 1)

	// another record's student ID is a conflict
	us := student.UpdateStudent{StudentID: "ee-007", Name: "Awe Lol", Faculty: "Science", Department: "CS", Year: 2, Semester: 3}
	err := us.Validate(ctx, std1, svc)
	if _, ok := errors.Cause(err).(*core.ValidationError); !ok {
		t.Fatalf("Validate() error = %v, want ValidationError", err)
	}

	// keeping one's own student ID is not
	us = student.UpdateStudent{StudentID: "cs-001", Name: "Renamed", Faculty: "Science", Department: "CS", Year: 3, Semester: 5}
	if err := us.Validate(ctx, std1, svc); err != nil {
		t.Fatalf("Validate() failed: %v", err)
	}
	updated, err := svc.Update(ctx, std1, us)
	if err != nil {
		t.Fatalf("Update() failed: %v", err)
	}
	if updated.Name != "Renamed" || updated.Year != 3 || updated.Semester != 5 {
		t.Errorf("update not applied: %+v", updated)
	}
	if !updated.CreatedAt.Equal(std1.CreatedAt) {
		t.Error("CreatedAt must not change on update")
	}
	if !updated.UpdatedAt.After(std1.UpdatedAt) {
		t.Error("UpdatedAt was not bumped")
	}
}

func TestService_Delete(t *testing.T) {
	svc, repo := newSvc(t)
	ctx := context.Background()

	std := testutil.CreateStudent(t, repo, "CS-001", "Awe Lol", "Science", "CS", 2, 3)

	if err := svc.Delete(ctx, std.ID); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if err := svc.Delete(ctx, std.ID); errors.Cause(err) != student.ErrNotFound {
		t.Errorf("Delete() error = %v, want ErrNotFound", err)
	}
	if _, err := svc.GetByID(ctx, std.ID); errors.Cause(err) != student.ErrNotFound {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}

func TestService_StudentName(t *testing.T) {
	svc, repo := newSvc(t)
	ctx := context.Background()

	testutil.CreateStudent(t, repo, "CS-001", "Awe Lol", "Science", "CS", 2, 3)

	name, err := svc.StudentName(ctx, "cs-001")
	if err != nil {
		t.Fatalf("StudentName() failed: %v", err)
	}
	if name != "Awe Lol" {
		t.Errorf("name = %q; want %q", name, "Awe Lol")
	}

	if _, err := svc.StudentName(ctx, "lol-404"); errors.Cause(err) != student.ErrNotFound {
		t.Errorf("StudentName() error = %v, want ErrNotFound", err)
	}
}

func TestService_Count(t *testing.T) {
	svc, repo := newSvc(t)
	ctx := context.Background()

	if n, err := svc.Count(ctx); err != nil || n != 0 {
		t.Fatalf("Count() = %d, %v; want 0, nil", n, err)
	}
	testutil.CreateStudent(t, repo, "CS-001", "Awe Lol", "Science", "CS", 2, 3)
	testutil.CreateStudent(t, repo, "EE-007", "King Kaka", "Engineering", "EE", 1, 1)
	if n, err := svc.Count(ctx); err != nil || n != 2 {
		t.Fatalf("Count() = %d, %v; want 2, nil", n, err)
	}
}

// cancelAwareRepo surfaces the caller's context state from the uniqueness check.
type cancelAwareRepo struct {
	student.Repository
}

func (repo cancelAwareRepo) CheckStudentIDUniqueness(ctx context.Context, _ string, _ ...student.Student) error {
	return ctx.Err()
}

func TestNewStudent_Validate_callerCancellation(t *testing.T) {
	svc, _ := newSvc(t, cancelAwareRepo{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ns := student.NewStudent{StudentID: "CS-001", Name: "Awe Lol", Faculty: "Science", Department: "CS", Year: 2, Semester: 3}
	if err := ns.Validate(ctx, svc); errors.Cause(err) != context.Canceled {
		t.Errorf("Validate() error = %v, want context.Canceled", err)
	}
}
