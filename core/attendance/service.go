package attendance

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core"
)

var (
	// errors
	ErrAlreadyMarked = errors.New("attendance already marked for this date")
	ErrFaceNoMatch   = errors.New("face not recognized")
)

type (
	Repository interface {
		// CheckDateUniqueness fails with ErrAlreadyMarked when a ledger entry
		// for (studentID, date) already exists.
		CheckDateUniqueness(ctx context.Context, studentID, date string) error
		// CreateRecord persists a new ledger entry; it fails with ErrAlreadyMarked
		// when an entry for the same (StudentID, Date) exists.
		CreateRecord(ctx context.Context, rec Record) (Record, error)
		// QueryByDate returns all records when date is empty, ordered by timestamp DESC.
		QueryByDate(ctx context.Context, date string) ([]Record, error)
		// QueryByRange applies inclusive bounds; an empty bound is unbounded.
		QueryByRange(ctx context.Context, startDate, endDate string) ([]Record, error)
	}

	// Recognition is the outcome of matching a captured image against enrolled faces.
	Recognition struct {
		Matched    bool    `json:"matched"`
		StudentID  string  `json:"student_id,omitempty"`
		Confidence float64 `json:"confidence,omitempty"`
	}

	// Recognizer is the external face-recognition collaborator.
	Recognizer interface {
		Recognize(ctx context.Context, image []byte) (Recognition, error)
	}

	// RosterDirectory resolves a student number to its roster name,
	// for the denormalized snapshot kept on each Record.
	RosterDirectory interface {
		StudentName(ctx context.Context, studentID string) (string, error)
	}

	Service struct {
		repo       Repository
		recognizer Recognizer
		roster     RosterDirectory
		validate   *validator.Validate
		conf       *core.Config
	}
)

func NewService(repo Repository, recognizer Recognizer, roster RosterDirectory, validate *validator.Validate, conf *core.Config) *Service {
	return &Service{
		repo:       repo,
		recognizer: recognizer,
		roster:     roster,
		validate:   validate,
		conf:       conf,
	}
}

func (svc *Service) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, svc.conf.Database.Timeout)
}

func (svc *Service) checkUniqueness(ctx context.Context, studentID, date string) error {
	ctx, cancel := svc.callCtx(ctx)
	defer cancel()

	if err := svc.repo.CheckDateUniqueness(ctx, studentID, date); err != nil {
		if errors.Cause(err) == ErrAlreadyMarked {
			return core.NewValidationError(err, core.FieldError{Field: "date", Error: err.Error()})
		}
		return err
	}
	return nil
}

// Mark appends a new ledger entry. Marking the same student twice on the same
// day fails with ErrAlreadyMarked; the stored record is never overwritten.
func (svc *Service) Mark(ctx context.Context, ma MarkAttendance) (Record, error) {
	rec := Record{
		StudentID:  ma.StudentID,
		Name:       ma.Name,
		Date:       ma.Date,
		Time:       ma.Time,
		Status:     ma.Status,
		Confidence: ma.Confidence,
		CreatedAt:  time.Now().UTC(),
	}
	if ma.Timestamp != nil {
		rec.Timestamp = ma.Timestamp.UTC()
	} else {
		rec.Timestamp = rec.CreatedAt
	}

	ctx, cancel := svc.callCtx(ctx)
	defer cancel()
	return svc.repo.CreateRecord(ctx, rec)
}

// CheckIn runs a captured image through the recognizer and marks the matched
// student present for today with the reported confidence.
func (svc *Service) CheckIn(ctx context.Context, image []byte) (Record, error) {
	if len(image) == 0 {
		return Record{}, core.NewValidationError(nil, core.FieldError{Field: "image", Error: "this field is required"})
	}

	match, err := svc.recognizer.Recognize(ctx, image)
	if err != nil {
		return Record{}, errors.WithMessage(core.ErrUnavailable, "recognizing face: "+err.Error())
	}
	if !match.Matched {
		return Record{}, core.NewValidationError(ErrFaceNoMatch, core.FieldError{Field: "image", Error: ErrFaceNoMatch.Error()})
	}

	name, err := svc.roster.StudentName(ctx, match.StudentID)
	if err != nil {
		// an unmatched roster entry is fine; the ledger keeps the raw student number
		name = ""
	}

	now := time.Now().UTC()
	ma := MarkAttendance{
		StudentID:  match.StudentID,
		Name:       name,
		Date:       now.Format(DateLayout),
		Time:       now.Format("15:04:05"),
		Confidence: &match.Confidence,
		Timestamp:  &now,
	}
	if err := ma.Validate(ctx, svc); err != nil {
		return Record{}, err
	}
	return svc.Mark(ctx, ma)
}

// Query returns ledger records for an exact day, or all of them when date is empty.
func (svc *Service) Query(ctx context.Context, date string) ([]Record, error) {
	ctx, cancel := svc.callCtx(ctx)
	defer cancel()
	return svc.repo.QueryByDate(ctx, core.CleanString(date))
}

// QueryRange returns ledger records between two inclusive calendar days;
// either bound may be empty.
func (svc *Service) QueryRange(ctx context.Context, startDate, endDate string) ([]Record, error) {
	ctx, cancel := svc.callCtx(ctx)
	defer cancel()
	return svc.repo.QueryByRange(ctx, core.CleanString(startDate), core.CleanString(endDate))
}
