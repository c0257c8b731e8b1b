package inmemdb

import (
	"context"
	"sort"

	"github.com/pkg/errors"

	"github.com/trezcool/campus/core/roster"
	"github.com/trezcool/campus/core/user"
)

var _ roster.Repository = (*rosterRepository)(nil)

type rosterRepository struct {
	db *DB
}

func NewRosterRepository(db *DB) roster.Repository {
	return &rosterRepository{db: db}
}

func sortedIDs(n int, each func(func(int))) []int {
	ids := make([]int, 0, n)
	each(func(id int) { ids = append(ids, id) })
	sort.Ints(ids)
	return ids
}

func (repo *rosterRepository) prepareCreate(u *user.User) error {
	if repo.db.emailTaken(u.Email) {
		return roster.ErrEmailExists
	}
	if u.ID != 0 && repo.db.idTaken(u.ID) {
		return errors.Errorf("id %d is already in use", u.ID)
	}
	u.ID = repo.db.nextID(u.ID)
	if u.AvatarURL == "" {
		u.AvatarURL = user.AvatarURL(u.ID)
	}
	if u.Status == "" {
		u.Status = user.StatusActive
	}
	return nil
}

func (repo *rosterRepository) CreateStudent(_ context.Context, s roster.Student) (roster.Student, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if err := repo.prepareCreate(&s.User); err != nil {
		return roster.Student{}, err
	}
	s.Role = user.RoleStudent
	cp := s.Copy()
	repo.db.students[s.ID] = &cp
	return s.Copy(), nil
}

func (repo *rosterRepository) CreateTeacher(_ context.Context, t roster.Teacher) (roster.Teacher, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if err := repo.prepareCreate(&t.User); err != nil {
		return roster.Teacher{}, err
	}
	t.Role = user.RoleTeacher
	cp := t.Copy()
	repo.db.teachers[t.ID] = &cp
	return t.Copy(), nil
}

func (repo *rosterRepository) CreateAdmin(_ context.Context, u user.User) (user.User, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if err := repo.prepareCreate(&u); err != nil {
		return user.User{}, err
	}
	u.Role = user.RoleAdmin
	cp := u
	cp.PasswordHash = append([]byte(nil), u.PasswordHash...)
	repo.db.admins[u.ID] = &cp
	return u, nil
}

func (repo *rosterRepository) GetStudent(_ context.Context, id int) (roster.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if s, ok := repo.db.students[id]; ok {
		return s.Copy(), nil
	}
	return roster.Student{}, roster.ErrNotFound
}

func (repo *rosterRepository) GetTeacher(_ context.Context, id int) (roster.Teacher, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if t, ok := repo.db.teachers[id]; ok {
		return t.Copy(), nil
	}
	return roster.Teacher{}, roster.ErrNotFound
}

func (repo *rosterRepository) GetAdmin(_ context.Context, id int) (user.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if u, ok := repo.db.admins[id]; ok {
		return *u, nil
	}
	return user.User{}, roster.ErrNotFound
}

func (repo *rosterRepository) queryStudents() []roster.Student {
	ids := sortedIDs(len(repo.db.students), func(add func(int)) {
		for id := range repo.db.students {
			add(id)
		}
	})
	students := make([]roster.Student, 0, len(ids))
	for _, id := range ids {
		students = append(students, repo.db.students[id].Copy())
	}
	return students
}

func (repo *rosterRepository) queryTeachers() []roster.Teacher {
	ids := sortedIDs(len(repo.db.teachers), func(add func(int)) {
		for id := range repo.db.teachers {
			add(id)
		}
	})
	teachers := make([]roster.Teacher, 0, len(ids))
	for _, id := range ids {
		teachers = append(teachers, repo.db.teachers[id].Copy())
	}
	return teachers
}

func (repo *rosterRepository) QueryStudents(_ context.Context) ([]roster.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.queryStudents(), nil
}

func (repo *rosterRepository) QueryTeachers(_ context.Context) ([]roster.Teacher, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.queryTeachers(), nil
}

func (repo *rosterRepository) QueryAccounts(_ context.Context) ([]user.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	accounts := make([]user.User, 0, len(repo.db.students)+len(repo.db.teachers)+len(repo.db.admins))
	for _, s := range repo.queryStudents() {
		accounts = append(accounts, s.User)
	}
	for _, t := range repo.queryTeachers() {
		accounts = append(accounts, t.User)
	}
	adminIDs := sortedIDs(len(repo.db.admins), func(add func(int)) {
		for id := range repo.db.admins {
			add(id)
		}
	})
	for _, id := range adminIDs {
		accounts = append(accounts, *repo.db.admins[id])
	}
	return accounts, nil
}

func (repo *rosterRepository) UpdateStudent(ctx context.Context, id int, fn func(*roster.Student) error) (roster.Student, error) {
	mu := repo.db.studentLock(id)
	mu.Lock()
	defer mu.Unlock()

	s, err := repo.GetStudent(ctx, id)
	if err != nil {
		repo.db.dropStudentLock(id)
		return roster.Student{}, err
	}
	if err = fn(&s); err != nil {
		return roster.Student{}, err
	}
	// identity fields are not the closure's to change
	s.ID, s.Role = id, user.RoleStudent

	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	if _, ok := repo.db.students[id]; !ok { // removed meanwhile
		return roster.Student{}, roster.ErrNotFound
	}
	cp := s.Copy()
	repo.db.students[id] = &cp
	return s, nil
}

func (repo *rosterRepository) UpdateTeacher(_ context.Context, id int, fn func(*roster.Teacher) error) (roster.Teacher, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	orig, ok := repo.db.teachers[id]
	if !ok {
		return roster.Teacher{}, roster.ErrNotFound
	}
	t := orig.Copy()
	if err := fn(&t); err != nil {
		return roster.Teacher{}, err
	}
	t.ID, t.Role = id, user.RoleTeacher

	cp := t.Copy()
	repo.db.teachers[id] = &cp
	return t, nil
}

func (repo *rosterRepository) DeleteStudents(_ context.Context, ids ...int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	for _, id := range ids {
		delete(repo.db.students, id)
		repo.db.dropStudentLock(id)
	}
	return nil
}

func (repo *rosterRepository) DeleteTeachers(_ context.Context, ids ...int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	for _, id := range ids {
		delete(repo.db.teachers, id)
	}
	return nil
}

func (repo *rosterRepository) QueryAnnouncements(_ context.Context) ([]roster.Announcement, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return append(make([]roster.Announcement, 0, len(repo.db.announcements)), repo.db.announcements...), nil
}

// SetAnnouncements replaces the static announcements.
func (repo *rosterRepository) SetAnnouncements(anns []roster.Announcement) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	repo.db.announcements = append([]roster.Announcement(nil), anns...)
}
