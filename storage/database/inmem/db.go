package inmemdb

import (
	"sync"

	"github.com/trezcool/mahudhurio/core/attendance"
	"github.com/trezcool/mahudhurio/core/student"
	"github.com/trezcool/mahudhurio/core/user"
)

// DB is a mutex-guarded in-memory store used by tests and local dev.
// The single lock serializes every check-then-write sequence, which is what
// keeps the uniqueness invariants intact under concurrent callers.
type DB struct {
	mutex    sync.RWMutex
	users    map[string]*user.User
	students map[string]*student.Student
	records  map[string]*attendance.Record
}

func New() *DB {
	db := new(DB)
	db.reset()
	return db
}

func (db *DB) reset() {
	db.users = make(map[string]*user.User)
	db.students = make(map[string]*student.Student)
	db.records = make(map[string]*attendance.Record)
}

// Reset empties all tables.
func (db *DB) Reset() {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	db.reset()
}
