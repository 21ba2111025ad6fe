package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core/student"
)

type studentRow struct {
	ID         string    `db:"id"`
	StudentID  string    `db:"student_id"`
	Name       string    `db:"name"`
	Faculty    string    `db:"faculty"`
	Department string    `db:"department"`
	Year       int       `db:"year"`
	Semester   int       `db:"semester"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func (r studentRow) toStudent() student.Student {
	return student.Student{
		ID:         r.ID,
		StudentID:  r.StudentID,
		Name:       r.Name,
		Faculty:    r.Faculty,
		Department: r.Department,
		Year:       r.Year,
		Semester:   r.Semester,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

type StudentRepository struct {
	db *sqlx.DB
}

var _ student.Repository = (*StudentRepository)(nil)

func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

func (repo *StudentRepository) CheckStudentIDUniqueness(ctx context.Context, studentID string, excludedStudents ...student.Student) error {
	query := `SELECT EXISTS (SELECT 1 FROM students WHERE student_id = $1`
	args := []interface{}{studentID}
	for _, std := range excludedStudents {
		query += fmt.Sprintf(" AND id <> $%d", len(args)+1)
		args = append(args, std.ID)
	}
	query += `)`

	var exists bool
	if err := repo.db.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return wrapErr(err, "checking student ID uniqueness")
	}
	if exists {
		return student.ErrStudentIDExists
	}
	return nil
}

func (repo *StudentRepository) CreateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	if std.ID == "" {
		std.ID = uuid.New().String()
	}
	_, err := repo.db.ExecContext(ctx, `
		INSERT INTO students (id, student_id, name, faculty, department, year, semester, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, std.ID, std.StudentID, std.Name, std.Faculty, std.Department, std.Year, std.Semester, std.CreatedAt, std.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "students_student_id_key") {
			return student.Student{}, student.ErrStudentIDExists
		}
		return student.Student{}, wrapErr(err, "creating student")
	}
	return std, nil
}

func (repo *StudentRepository) QueryAllStudents(ctx context.Context) ([]student.Student, error) {
	var rows []studentRow
	err := repo.db.SelectContext(ctx, &rows, `
		SELECT id, student_id, name, faculty, department, year, semester, created_at, updated_at
		FROM students
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, wrapErr(err, "querying students")
	}
	students := make([]student.Student, 0, len(rows))
	for _, r := range rows {
		students = append(students, r.toStudent())
	}
	return students, nil
}

func (repo *StudentRepository) GetStudentByID(ctx context.Context, id string) (student.Student, error) {
	var row studentRow
	err := repo.db.GetContext(ctx, &row, `
		SELECT id, student_id, name, faculty, department, year, semester, created_at, updated_at
		FROM students WHERE id = $1
	`, id)
	if err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return student.Student{}, student.ErrNotFound
		}
		return student.Student{}, wrapErr(err, "getting student by id")
	}
	return row.toStudent(), nil
}

func (repo *StudentRepository) GetStudentByStudentID(ctx context.Context, studentID string) (student.Student, error) {
	var row studentRow
	err := repo.db.GetContext(ctx, &row, `
		SELECT id, student_id, name, faculty, department, year, semester, created_at, updated_at
		FROM students WHERE student_id = $1
	`, studentID)
	if err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return student.Student{}, student.ErrNotFound
		}
		return student.Student{}, wrapErr(err, "getting student by student ID")
	}
	return row.toStudent(), nil
}

func (repo *StudentRepository) UpdateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	res, err := repo.db.ExecContext(ctx, `
		UPDATE students
		SET student_id = $2, name = $3, faculty = $4, department = $5, year = $6, semester = $7, updated_at = $8
		WHERE id = $1
	`, std.ID, std.StudentID, std.Name, std.Faculty, std.Department, std.Year, std.Semester, std.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "students_student_id_key") {
			return student.Student{}, student.ErrStudentIDExists
		}
		return student.Student{}, wrapErr(err, "updating student")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return student.Student{}, student.ErrNotFound
	}
	return repo.GetStudentByID(ctx, std.ID)
}

func (repo *StudentRepository) DeleteStudent(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return wrapErr(err, "deleting student")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return student.ErrNotFound
	}
	return nil
}

func (repo *StudentRepository) CountStudents(ctx context.Context) (int, error) {
	var count int
	if err := repo.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM students`).Scan(&count); err != nil {
		return 0, wrapErr(err, "counting students")
	}
	return count, nil
}
