package attendance

import (
	"context"
	"strings"
	"time"

	"github.com/trezcool/mahudhurio/core"
)

// DateLayout is the calendar-day form every ledger record is keyed on.
const DateLayout = "2006-01-02"

// Statuses
const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
)

// Record is one ledger entry: at most one exists per (StudentID, Date).
// Records are append-only; they are never updated or deleted, even when the
// roster entry they reference is removed.
type Record struct {
	ID         string    `json:"id"`
	StudentID  string    `json:"student_id"`
	Name       string    `json:"name"` // roster name snapshot at mark time
	Date       string    `json:"date"` // YYYY-MM-DD
	Time       string    `json:"time"`
	Status     string    `json:"status"`
	Confidence *float64  `json:"confidence,omitempty"`
	Timestamp  time.Time `json:"timestamp"` // UTC
	CreatedAt  time.Time `json:"created_at"`
}

// MarkAttendance contains information needed to mark a student present (or absent).
type MarkAttendance struct {
	StudentID  string     `json:"student_id" validate:"required,min=3,max=20"`
	Date       string     `json:"date" validate:"required,datetime=2006-01-02"`
	Name       string     `json:"name" validate:"omitempty,max=100"`
	Time       string     `json:"time" validate:"omitempty,max=20"`
	Status     string     `json:"status" validate:"omitempty,oneof=present absent"`
	Confidence *float64   `json:"confidence" validate:"omitempty,gte=0,lte=1"`
	Timestamp  *time.Time `json:"timestamp"`
}

func (ma *MarkAttendance) Validate(ctx context.Context, svc *Service) error {
	ma.StudentID = strings.ToUpper(core.CleanString(ma.StudentID))
	ma.Name = core.CleanString(ma.Name)
	ma.Time = core.CleanString(ma.Time)
	if ma.Status == "" {
		ma.Status = StatusPresent
	}

	if err := svc.validate.Struct(ma); err != nil {
		return err
	}
	return svc.checkUniqueness(ctx, ma.StudentID, ma.Date)
}

// QueryFilter selects ledger records by exact day or by inclusive range.
// Zero values mean unbounded.
type QueryFilter struct {
	Date      string `query:"date"`
	StartDate string `query:"start"`
	EndDate   string `query:"end"`
}
