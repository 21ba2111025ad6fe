package sqlxrepos

import (
	"context"
	"database/sql"
	"testing"

	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core"
)

func Test_wrapErr(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "nil", err: nil, want: nil},
		{name: "no rows passes through", err: sql.ErrNoRows, want: sql.ErrNoRows},
		{name: "missed deadline is a timeout", err: context.DeadlineExceeded, want: core.ErrTimeout},
		{name: "caller cancellation passes through", err: context.Canceled, want: context.Canceled},
		{name: "wrapped cancellation passes through", err: errors.Wrap(context.Canceled, "exec"), want: context.Canceled},
		{name: "driver failure is unavailable", err: errors.New("connection refused"), want: core.ErrUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := wrapErr(tt.err, "op")
			if errors.Cause(got) != tt.want {
				t.Errorf("wrapErr() = %v, want %v", got, tt.want)
			}
		})
	}
}
