package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/trezcool/mahudhurio/core/attendance"
)

type attendanceRepository struct {
	db *DB
}

func NewAttendanceRepository(db *DB) attendance.Repository {
	return &attendanceRepository{db: db}
}

func (repo *attendanceRepository) query() []attendance.Record {
	records := make([]attendance.Record, 0, len(repo.db.records))
	for _, r := range repo.db.records {
		records = append(records, *r)
	}
	return records
}

func (repo *attendanceRepository) CheckDateUniqueness(_ context.Context, studentID, date string) error {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, r := range repo.db.records {
		if r.StudentID == studentID && r.Date == date {
			return attendance.ErrAlreadyMarked
		}
	}
	return nil
}

func (repo *attendanceRepository) CreateRecord(_ context.Context, rec attendance.Record) (attendance.Record, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	// one record per (student, day); the existing record always wins
	for _, r := range repo.db.records {
		if r.StudentID == rec.StudentID && r.Date == rec.Date {
			return attendance.Record{}, attendance.ErrAlreadyMarked
		}
	}
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	repo.db.records[rec.ID] = &rec
	return rec, nil
}

func (repo *attendanceRepository) QueryByDate(_ context.Context, date string) ([]attendance.Record, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	records := make([]attendance.Record, 0)
	for _, rec := range repo.query() {
		if date == "" || rec.Date == date {
			records = append(records, rec)
		}
	}
	sortByTimestampDesc(records)
	return records, nil
}

func (repo *attendanceRepository) QueryByRange(_ context.Context, startDate, endDate string) ([]attendance.Record, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	records := make([]attendance.Record, 0)
	for _, rec := range repo.query() {
		if startDate != "" && rec.Date < startDate {
			continue
		}
		if endDate != "" && rec.Date > endDate {
			continue
		}
		records = append(records, rec)
	}
	sortByTimestampDesc(records)
	return records, nil
}

func sortByTimestampDesc(records []attendance.Record) {
	sort.Slice(records, func(i, j int) bool { return records[i].Timestamp.After(records[j].Timestamp) })
}
