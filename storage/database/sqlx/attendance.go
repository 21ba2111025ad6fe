package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/trezcool/mahudhurio/core/attendance"
)

type recordRow struct {
	ID         string    `db:"id"`
	StudentID  string    `db:"student_id"`
	Name       string    `db:"name"`
	Date       string    `db:"date"`
	Time       string    `db:"time"`
	Status     string    `db:"status"`
	Confidence *float64  `db:"confidence"`
	RecordedAt time.Time `db:"recorded_at"`
	CreatedAt  time.Time `db:"created_at"`
}

func (r recordRow) toRecord() attendance.Record {
	return attendance.Record{
		ID:         r.ID,
		StudentID:  r.StudentID,
		Name:       r.Name,
		Date:       r.Date,
		Time:       r.Time,
		Status:     r.Status,
		Confidence: r.Confidence,
		Timestamp:  r.RecordedAt,
		CreatedAt:  r.CreatedAt,
	}
}

type AttendanceRepository struct {
	db *sqlx.DB
}

var _ attendance.Repository = (*AttendanceRepository)(nil)

func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

func (repo *AttendanceRepository) CheckDateUniqueness(ctx context.Context, studentID, date string) error {
	var exists bool
	err := repo.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM attendance_records WHERE student_id = $1 AND date = $2)
	`, studentID, date).Scan(&exists)
	if err != nil {
		return wrapErr(err, "checking attendance date uniqueness")
	}
	if exists {
		return attendance.ErrAlreadyMarked
	}
	return nil
}

// CreateRecord appends a ledger entry. The (student_id, date) unique index is
// the line of defense under concurrent markers: the second writer loses the
// race and gets ErrAlreadyMarked, never an overwrite.
func (repo *AttendanceRepository) CreateRecord(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	_, err := repo.db.ExecContext(ctx, `
		INSERT INTO attendance_records (id, student_id, name, date, time, status, confidence, recorded_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, rec.ID, rec.StudentID, rec.Name, rec.Date, rec.Time, rec.Status, rec.Confidence, rec.Timestamp, rec.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "attendance_student_date_key") {
			return attendance.Record{}, attendance.ErrAlreadyMarked
		}
		return attendance.Record{}, wrapErr(err, "creating attendance record")
	}
	return rec, nil
}

func (repo *AttendanceRepository) QueryByDate(ctx context.Context, date string) ([]attendance.Record, error) {
	query := `
		SELECT id, student_id, name, date, time, status, confidence, recorded_at, created_at
		FROM attendance_records`
	args := []interface{}{}
	if date != "" {
		query += ` WHERE date = $1`
		args = append(args, date)
	}
	query += ` ORDER BY recorded_at DESC`

	var rows []recordRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, wrapErr(err, "querying attendance by date")
	}
	return toRecords(rows), nil
}

func (repo *AttendanceRepository) QueryByRange(ctx context.Context, startDate, endDate string) ([]attendance.Record, error) {
	query := `
		SELECT id, student_id, name, date, time, status, confidence, recorded_at, created_at
		FROM attendance_records`
	args := []interface{}{}
	if startDate != "" {
		query += ` WHERE date >= $1`
		args = append(args, startDate)
	}
	if endDate != "" {
		if len(args) == 0 {
			query += ` WHERE date <= $1`
		} else {
			query += ` AND date <= $2`
		}
		args = append(args, endDate)
	}
	query += ` ORDER BY recorded_at DESC`

	var rows []recordRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, wrapErr(err, "querying attendance by range")
	}
	return toRecords(rows), nil
}

func toRecords(rows []recordRow) []attendance.Record {
	records := make([]attendance.Record, 0, len(rows))
	for _, r := range rows {
		records = append(records, r.toRecord())
	}
	return records
}
