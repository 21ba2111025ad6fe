package inmemdb

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/mahudhurio/core/student"
)

type studentRepository struct {
	db *DB
}

func NewStudentRepository(db *DB) student.Repository {
	return &studentRepository{db: db}
}

func (repo *studentRepository) query() []student.Student {
	students := make([]student.Student, 0, len(repo.db.students))
	for _, s := range repo.db.students {
		students = append(students, *s)
	}
	return students
}

func (repo *studentRepository) CheckStudentIDUniqueness(_ context.Context, studentID string, excludedStudents ...student.Student) error {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, std := range repo.query() {
		if std.StudentID == studentID && !isExcludedStudent(std, excludedStudents) {
			return student.ErrStudentIDExists
		}
	}
	return nil
}

func (repo *studentRepository) CreateStudent(_ context.Context, std student.Student) (student.Student, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, s := range repo.db.students {
		if s.StudentID == std.StudentID {
			return student.Student{}, student.ErrStudentIDExists
		}
	}
	if std.ID == "" {
		std.ID = uuid.New().String()
	}
	repo.db.students[std.ID] = &std
	return std, nil
}

func (repo *studentRepository) QueryAllStudents(_ context.Context) ([]student.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	students := repo.query()
	sort.Slice(students, func(i, j int) bool { return students[i].CreatedAt.After(students[j].CreatedAt) })
	return students, nil
}

func (repo *studentRepository) GetStudentByID(_ context.Context, id string) (student.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if std, ok := repo.db.students[id]; ok {
		return *std, nil
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) GetStudentByStudentID(_ context.Context, studentID string) (student.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, std := range repo.query() {
		if std.StudentID == studentID {
			return std, nil
		}
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) UpdateStudent(_ context.Context, std student.Student) (student.Student, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	orig, ok := repo.db.students[std.ID]
	if !ok {
		return student.Student{}, student.ErrNotFound
	}
	for _, s := range repo.db.students {
		if s.ID != std.ID && s.StudentID == std.StudentID {
			return student.Student{}, student.ErrStudentIDExists
		}
	}
	std.CreatedAt = orig.CreatedAt
	std.UpdatedAt = time.Now().UTC()
	repo.db.students[std.ID] = &std
	return std, nil
}

func (repo *studentRepository) DeleteStudent(_ context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.students[id]; !ok {
		return student.ErrNotFound
	}
	delete(repo.db.students, id)
	return nil
}

func (repo *studentRepository) CountStudents(_ context.Context) (int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return len(repo.db.students), nil
}

func isExcludedStudent(std student.Student, excluded []student.Student) bool {
	for _, e := range excluded {
		if e.ID == std.ID {
			return true
		}
	}
	return false
}
