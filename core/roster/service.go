package roster

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/user"
)

type Service struct {
	repo     Repository
	validate *validator.Validate
	logger   core.Logger
}

func NewService(repo Repository, validate *validator.Validate, logger core.Logger) *Service {
	return &Service{repo: repo, validate: validate, logger: logger}
}

// checkUniqueness turns ErrEmailExists into a field error.
func checkUniqueness(err error) error {
	if errors.Cause(err) == ErrEmailExists {
		return core.NewValidationError(ErrEmailExists, core.FieldError{Field: "email", Error: ErrEmailExists.Error()})
	}
	return err
}

func (svc *Service) AddStudent(ctx context.Context, ns NewStudent) (Student, error) {
	ns.Clean()
	if err := svc.validate.Struct(ns); err != nil {
		return Student{}, err
	}

	s := Student{
		User: user.User{
			Name:   ns.Name,
			Email:  ns.Email,
			Role:   user.RoleStudent,
			Status: user.StatusActive,
		},
		Class:        ns.Class,
		Courses:      []Course{},
		Assignments:  []Assignment{},
		Reports:      []Report{},
		DailyReports: []DailyReport{},
		Attendance:   []AttendanceDay{},
	}
	if err := s.SetPassword(ns.Password); err != nil {
		return Student{}, errors.Wrap(err, "setting password")
	}
	s, err := svc.repo.CreateStudent(ctx, s)
	if err != nil {
		return Student{}, checkUniqueness(err)
	}

	svc.logger.Info("student added", map[string]interface{}{"student": s.ID})
	return s, nil
}

func (svc *Service) AddTeacher(ctx context.Context, nt NewTeacher) (Teacher, error) {
	nt.Clean()
	if err := svc.validate.Struct(nt); err != nil {
		return Teacher{}, err
	}

	t := Teacher{
		User: user.User{
			Name:   nt.Name,
			Email:  nt.Email,
			Role:   user.RoleTeacher,
			Status: user.StatusActive,
		},
		Subject:  core.CleanString(nt.Subject),
		Contact:  core.CleanString(nt.Contact),
		Office:   core.CleanString(nt.Office),
		Schedule: []Course{},
	}
	if err := t.SetPassword(nt.Password); err != nil {
		return Teacher{}, errors.Wrap(err, "setting password")
	}
	t, err := svc.repo.CreateTeacher(ctx, t)
	if err != nil {
		return Teacher{}, checkUniqueness(err)
	}

	svc.logger.Info("teacher added", map[string]interface{}{"teacher": t.ID})
	return t, nil
}

// RemoveStudent discards the student entirely. Unknown ids are ignored.
func (svc *Service) RemoveStudent(ctx context.Context, id int) error {
	return svc.repo.DeleteStudents(ctx, id)
}

// RemoveTeacher discards the teacher entirely. Unknown ids are ignored.
func (svc *Service) RemoveTeacher(ctx context.Context, id int) error {
	return svc.repo.DeleteTeachers(ctx, id)
}

// UpdateTeacherProfile changes the subject, contact and office of a teacher. Nothing else can change this way.
func (svc *Service) UpdateTeacherProfile(ctx context.Context, id int, up UpdateTeacherProfile) (Teacher, error) {
	return svc.repo.UpdateTeacher(ctx, id, func(t *Teacher) error {
		if up.Subject != nil {
			t.Subject = core.CleanString(*up.Subject)
		}
		if up.Contact != nil {
			t.Contact = core.CleanString(*up.Contact)
		}
		if up.Office != nil {
			t.Office = core.CleanString(*up.Office)
		}
		return nil
	})
}

func (svc *Service) GetStudentByID(ctx context.Context, id int) (Student, error) {
	return svc.repo.GetStudent(ctx, id)
}

func (svc *Service) GetTeacherByID(ctx context.Context, id int) (Teacher, error) {
	return svc.repo.GetTeacher(ctx, id)
}

// GetAccount returns the identity of the Person with the given id and role.
func (svc *Service) GetAccount(ctx context.Context, id int, role user.Role) (user.User, error) {
	switch role {
	case user.RoleAdmin:
		return svc.repo.GetAdmin(ctx, id)
	case user.RoleTeacher:
		t, err := svc.repo.GetTeacher(ctx, id)
		return t.User, err
	case user.RoleStudent:
		s, err := svc.repo.GetStudent(ctx, id)
		return s.User, err
	default:
		return user.User{}, ErrNotFound
	}
}

func (svc *Service) ListStudents(ctx context.Context) ([]Student, error) {
	return svc.repo.QueryStudents(ctx)
}

func (svc *Service) ListTeachers(ctx context.Context) ([]Teacher, error) {
	return svc.repo.QueryTeachers(ctx)
}

func (svc *Service) ListAnnouncements(ctx context.Context) ([]Announcement, error) {
	return svc.repo.QueryAnnouncements(ctx)
}

// TeacherStudents returns the students the teacher teaches, in roster order.
func (svc *Service) TeacherStudents(ctx context.Context, teacherID int) ([]Student, error) {
	t, err := svc.repo.GetTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	students, err := svc.repo.QueryStudents(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	return ResolveEnrollment(t.Schedule, students), nil
}

// Authenticate finds the Person whose email (the admin id for admins) matches identifier, case-insensitively,
// and checks their password. It is a demo sign-in, not a security boundary.
func (svc *Service) Authenticate(ctx context.Context, identifier, password string) (user.User, error) {
	identifier = core.CleanString(identifier, true /* lower */)
	if identifier == "" || password == "" {
		return user.User{}, ErrAuthFailed
	}

	accounts, err := svc.repo.QueryAccounts(ctx)
	if err != nil {
		return user.User{}, errors.Wrap(err, "querying accounts")
	}
	for _, acc := range accounts {
		if core.CleanString(acc.Email, true) != identifier {
			continue
		}
		if err := acc.CheckPassword(password); err != nil {
			return user.User{}, ErrAuthFailed
		}
		if !acc.IsActive() {
			return user.User{}, ErrAccountSuspended
		}
		return acc, nil
	}
	return user.User{}, ErrAuthFailed
}
