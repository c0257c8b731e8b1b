package inmemdb

import (
	"strings"
	"sync"

	"github.com/trezcool/campus/core/roster"
	"github.com/trezcool/campus/core/user"
)

type (
	// DB is the in-memory roster of one session. It starts from the seed fixtures and is discarded on exit.
	DB struct {
		mutex sync.RWMutex
		pk    int // last allocated id, shared by every table

		students      map[int]*roster.Student
		teachers      map[int]*roster.Teacher
		admins        map[int]*user.User
		announcements []roster.Announcement

		// studentLocks serializes read-modify-write cycles on a single student.
		locksMutex   sync.Mutex
		studentLocks map[int]*sync.Mutex
	}
)

func Open() *DB {
	return &DB{
		students:     make(map[int]*roster.Student),
		teachers:     make(map[int]*roster.Teacher),
		admins:       make(map[int]*user.User),
		studentLocks: make(map[int]*sync.Mutex),
	}
}

// nextID returns id if set (and primes the allocator past it) or allocates a fresh one. Callers hold db.mutex.
func (db *DB) nextID(id int) int {
	if id == 0 {
		db.pk++
		return db.pk
	}
	if id > db.pk {
		db.pk = id
	}
	return id
}

// emailTaken reports whether any Person uses email, ignoring case. Callers hold db.mutex.
func (db *DB) emailTaken(email string) bool {
	if email == "" {
		return false
	}
	for _, s := range db.students {
		if strings.EqualFold(s.Email, email) {
			return true
		}
	}
	for _, t := range db.teachers {
		if strings.EqualFold(t.Email, email) {
			return true
		}
	}
	for _, a := range db.admins {
		if strings.EqualFold(a.Email, email) {
			return true
		}
	}
	return false
}

func (db *DB) idTaken(id int) bool {
	_, s := db.students[id]
	_, t := db.teachers[id]
	_, a := db.admins[id]
	return s || t || a
}

// dropStudentLock forgets the lock of a removed student. Ids are never reused.
func (db *DB) dropStudentLock(id int) {
	db.locksMutex.Lock()
	defer db.locksMutex.Unlock()
	delete(db.studentLocks, id)
}

func (db *DB) studentLock(id int) *sync.Mutex {
	db.locksMutex.Lock()
	defer db.locksMutex.Unlock()

	mu, ok := db.studentLocks[id]
	if !ok {
		mu = new(sync.Mutex)
		db.studentLocks[id] = mu
	}
	return mu
}
