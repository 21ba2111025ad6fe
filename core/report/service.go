package report

import (
	"context"
	"math"

	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/attendance"
)

type (
	// LedgerReader is the read-only slice of the attendance repository the
	// reporting service depends on. Aggregation never mutates state.
	LedgerReader interface {
		QueryByDate(ctx context.Context, date string) ([]attendance.Record, error)
		QueryByRange(ctx context.Context, startDate, endDate string) ([]attendance.Record, error)
	}

	// RosterCounter is the read-only slice of the roster repository.
	RosterCounter interface {
		CountStudents(ctx context.Context) (int, error)
	}

	// Stats is a derived view; it is computed per call and never persisted.
	Stats struct {
		TotalPresent      int     `json:"total_present"`
		TotalStudents     int     `json:"total_students"`
		AverageAttendance float64 `json:"average_attendance"` // percent, 2 decimal places
	}

	RangeStats struct {
		Stats
		Records []attendance.Record `json:"records"`
	}

	Service struct {
		ledger LedgerReader
		roster RosterCounter
		conf   *core.Config
	}
)

func NewService(ledger LedgerReader, roster RosterCounter, conf *core.Config) *Service {
	return &Service{
		ledger: ledger,
		roster: roster,
		conf:   conf,
	}
}

func (svc *Service) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, svc.conf.Database.Timeout)
}

// Daily aggregates the ledger for one calendar day against the current roster size.
func (svc *Service) Daily(ctx context.Context, date string) (Stats, error) {
	date = core.CleanString(date)
	if date == "" {
		return Stats{}, core.NewValidationError(nil, core.FieldError{Field: "date", Error: "this field is required"})
	}

	ctx, cancel := svc.callCtx(ctx)
	defer cancel()

	records, err := svc.ledger.QueryByDate(ctx, date)
	if err != nil {
		return Stats{}, errors.WithMessage(err, "reading ledger")
	}
	return svc.stats(ctx, records)
}

// Range aggregates the ledger over an inclusive date range; either bound may be
// empty. The matched records are returned alongside the counts.
func (svc *Service) Range(ctx context.Context, startDate, endDate string) (RangeStats, error) {
	ctx, cancel := svc.callCtx(ctx)
	defer cancel()

	records, err := svc.ledger.QueryByRange(ctx, core.CleanString(startDate), core.CleanString(endDate))
	if err != nil {
		return RangeStats{}, errors.WithMessage(err, "reading ledger")
	}
	stats, err := svc.stats(ctx, records)
	if err != nil {
		return RangeStats{}, err
	}
	if records == nil {
		records = []attendance.Record{}
	}
	return RangeStats{Stats: stats, Records: records}, nil
}

func (svc *Service) stats(ctx context.Context, records []attendance.Record) (Stats, error) {
	total, err := svc.roster.CountStudents(ctx)
	if err != nil {
		return Stats{}, errors.WithMessage(err, "counting roster")
	}

	stats := Stats{
		TotalPresent:  len(records),
		TotalStudents: total,
	}
	// empty roster yields 0%, never a division error
	if total > 0 {
		stats.AverageAttendance = round2(float64(stats.TotalPresent) / float64(total) * 100)
	}
	return stats, nil
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
