package roster

import (
	"context"

	"github.com/trezcool/campus/core/user"
)

// Repository is the Roster Store: the authoritative student, teacher and admin collections of a session.
// Getters return copies and ErrNotFound for unknown ids; queries return records in ascending id order.
type Repository interface {
	// CreateStudent, CreateTeacher and CreateAdmin keep a non-zero id (fixtures) or allocate a fresh one.
	// Allocated ids are never reused, across all collections.
	// They return ErrEmailExists if any Person already uses the email.
	CreateStudent(ctx context.Context, s Student) (Student, error)
	CreateTeacher(ctx context.Context, t Teacher) (Teacher, error)
	CreateAdmin(ctx context.Context, u user.User) (user.User, error)

	GetStudent(ctx context.Context, id int) (Student, error)
	GetTeacher(ctx context.Context, id int) (Teacher, error)
	GetAdmin(ctx context.Context, id int) (user.User, error)
	QueryStudents(ctx context.Context) ([]Student, error)
	QueryTeachers(ctx context.Context) ([]Teacher, error)
	// QueryAccounts returns the identity of every Person: students, then teachers, then admins.
	QueryAccounts(ctx context.Context) ([]user.User, error)

	// UpdateStudent applies fn to a copy of the student under the student's lock
	// and stores the result only if fn returns nil.
	UpdateStudent(ctx context.Context, id int, fn func(*Student) error) (Student, error)
	// UpdateTeacher is UpdateStudent for teachers.
	UpdateTeacher(ctx context.Context, id int, fn func(*Teacher) error) (Teacher, error)

	// DeleteStudents and DeleteTeachers ignore unknown ids.
	DeleteStudents(ctx context.Context, ids ...int) error
	DeleteTeachers(ctx context.Context, ids ...int) error

	QueryAnnouncements(ctx context.Context) ([]Announcement, error)
}
