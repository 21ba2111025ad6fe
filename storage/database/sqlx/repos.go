package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core"
)

const uniqueViolation = "23505"

// isUniqueViolation reports whether err is a unique-index conflict on the named index.
func isUniqueViolation(err error, index string) bool {
	if pqErr, ok := errors.Cause(err).(*pq.Error); ok {
		return string(pqErr.Code) == uniqueViolation && pqErr.Constraint == index
	}
	return false
}

// wrapErr maps driver failures onto the app error taxonomy: a missed deadline
// surfaces as ErrTimeout, driver errors as ErrUnavailable. A cancelled context
// passes through untouched. Callers never see raw storage detail.
func wrapErr(err error, msg string) error {
	switch errors.Cause(err) {
	case nil:
		return nil
	case sql.ErrNoRows:
		return err // callers map this to their domain's not-found error
	case context.DeadlineExceeded:
		return errors.WithMessage(core.ErrTimeout, msg)
	case context.Canceled:
		return err // the caller gave up; not a storage failure
	}
	return errors.WithMessage(core.ErrUnavailable, msg+": "+err.Error())
}
