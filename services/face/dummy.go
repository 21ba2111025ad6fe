package facesvc

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/trezcool/mahudhurio/core/attendance"
	"github.com/trezcool/mahudhurio/core/student"
)

// Roster is the slice of the roster service the dummy recognizer samples from.
type Roster interface {
	QueryAll(ctx context.Context) ([]student.Student, error)
}

// dummyRecognizer simulates a face-recognition engine: it "matches" a random
// roster entry most of the time with a made-up confidence. The real engine is
// an external HTTP collaborator; this stands in for it in dev and tests.
type dummyRecognizer struct {
	roster Roster

	mu  sync.Mutex
	rnd *rand.Rand
}

var _ attendance.Recognizer = (*dummyRecognizer)(nil)

func NewDummyRecognizer(roster Roster) *dummyRecognizer {
	return &dummyRecognizer{
		roster: roster,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (svc *dummyRecognizer) Recognize(ctx context.Context, _ []byte) (attendance.Recognition, error) {
	students, err := svc.roster.QueryAll(ctx)
	if err != nil {
		return attendance.Recognition{}, err
	}
	if len(students) == 0 {
		return attendance.Recognition{Matched: false}, nil
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()
	if svc.rnd.Float64() < 0.2 { // miss sometimes, like the real thing
		return attendance.Recognition{Matched: false}, nil
	}
	std := students[svc.rnd.Intn(len(students))]
	return attendance.Recognition{
		Matched:    true,
		StudentID:  std.StudentID,
		Confidence: 0.75 + svc.rnd.Float64()*0.24,
	}, nil
}

// StaticRecognizer always returns the same recognition; tests use it.
type StaticRecognizer struct {
	Result attendance.Recognition
	Err    error
}

var _ attendance.Recognizer = (*StaticRecognizer)(nil)

func (svc *StaticRecognizer) Recognize(context.Context, []byte) (attendance.Recognition, error) {
	return svc.Result, svc.Err
}
