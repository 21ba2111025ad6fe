package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/attendance"
	"github.com/trezcool/mahudhurio/core/student"
	"github.com/trezcool/mahudhurio/core/user"
)

// NewConfig returns a Config suitable for tests. No env files are read.
func NewConfig() *core.Config {
	return &core.Config{
		Debug:     false,
		TestMode:  true,
		Env:       "test",
		AppName:   "Mahudhurio",
		SecretKey: "s3cr3t-t35t-k3y",
		Server: core.ServerConfig{
			JWTExpirationDelta:        10 * time.Minute,
			JWTRefreshExpirationDelta: 4 * time.Hour,
			ShutdownTimeout:           5 * time.Second,
		},
		Database: core.DatabaseConfig{
			Timeout: 5 * time.Second,
		},
	}
}

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, email, pwd, role string,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		FullName:  name,
		Email:     email,
		Role:      role,
		IsActive:  isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateStudent(
	t *testing.T,
	repo student.Repository,
	studentID, name, faculty, department string,
	year, semester int,
) student.Student {
	t.Helper()

	now := time.Now().UTC()
	std := student.Student{
		StudentID:  student.NormalizeStudentID(studentID),
		Name:       name,
		Faculty:    faculty,
		Department: department,
		Year:       year,
		Semester:   semester,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	std, err := repo.CreateStudent(context.Background(), std)
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return std
}

func CreateRecord(
	t *testing.T,
	repo attendance.Repository,
	studentID, name, date, status string,
	timestamp ...time.Time,
) attendance.Record {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(timestamp) > 0 {
		tstamp = timestamp[0].UTC()
	}
	rec := attendance.Record{
		StudentID: student.NormalizeStudentID(studentID),
		Name:      name,
		Date:      date,
		Time:      tstamp.Format("15:04:05"),
		Status:    status,
		Timestamp: tstamp,
		CreatedAt: tstamp,
	}
	rec, err := repo.CreateRecord(context.Background(), rec)
	if err != nil {
		t.Fatalf("CreateRecord() failed: %v", err)
	}
	return rec
}
