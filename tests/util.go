package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/roster"
	"github.com/trezcool/campus/core/user"
	logsvc "github.com/trezcool/campus/services/logger"
	inmemdb "github.com/trezcool/campus/storage/database/inmem"
	"github.com/trezcool/campus/storage/fixtures"
)

func init() {
	user.HashCost = bcrypt.MinCost
}

// NewValidator returns a validator with every custom tag of the app registered.
func NewValidator() *validator.Validate {
	translator := core.NewTranslator()
	validate := core.NewValidator(translator)
	roster.InitValidators(validate, translator)
	return validate
}

// EmptyRoster returns a fresh in-memory roster without any Person.
func EmptyRoster() roster.Repository {
	return inmemdb.NewRosterRepository(inmemdb.Open())
}

// SeededRoster returns a fresh in-memory roster loaded with the embedded seed fixtures.
func SeededRoster(t *testing.T) roster.Repository {
	fx, err := fixtures.Load("")
	if err != nil {
		t.Fatalf("fixtures.Load() failed: %v", err)
	}
	repo := EmptyRoster()
	if err = fx.Seed(context.Background(), repo); err != nil {
		t.Fatalf("fixtures.Seed() failed: %v", err)
	}
	return repo
}

func NewService(repo roster.Repository) *roster.Service {
	return roster.NewService(repo, NewValidator(), logsvc.NewNopLogger())
}

func CreateStudent(t *testing.T, repo roster.Repository, name, email, pwd string, courses ...roster.Course) roster.Student {
	s := roster.Student{
		User:         user.User{Name: name, Email: email, Status: user.StatusActive},
		Courses:      append([]roster.Course{}, courses...),
		Assignments:  []roster.Assignment{},
		Reports:      []roster.Report{},
		DailyReports: []roster.DailyReport{},
		Attendance:   []roster.AttendanceDay{},
	}
	if pwd != "" {
		if err := s.SetPassword(pwd); err != nil {
			t.Fatalf("createStudent() failed: %v", err)
		}
	}
	s, err := repo.CreateStudent(context.Background(), s)
	if err != nil {
		t.Fatalf("createStudent() failed: %v", err)
	}
	return s
}

func CreateTeacher(t *testing.T, repo roster.Repository, name, email, pwd string, schedule ...roster.Course) roster.Teacher {
	tchr := roster.Teacher{
		User:     user.User{Name: name, Email: email, Status: user.StatusActive},
		Schedule: append([]roster.Course{}, schedule...),
	}
	if pwd != "" {
		if err := tchr.SetPassword(pwd); err != nil {
			t.Fatalf("createTeacher() failed: %v", err)
		}
	}
	tchr, err := repo.CreateTeacher(context.Background(), tchr)
	if err != nil {
		t.Fatalf("createTeacher() failed: %v", err)
	}
	return tchr
}

func CreateAdmin(t *testing.T, repo roster.Repository, name, email, pwd string) user.User {
	usr := user.User{Name: name, Email: email, Status: user.StatusActive}
	if err := usr.SetPassword(pwd); err != nil {
		t.Fatalf("createAdmin() failed: %v", err)
	}
	usr, err := repo.CreateAdmin(context.Background(), usr)
	if err != nil {
		t.Fatalf("createAdmin() failed: %v", err)
	}
	return usr
}

// PinToday makes core.Today return date until the test ends.
func PinToday(t *testing.T, date core.Date) {
	orig := core.NowFunc
	core.NowFunc = func() time.Time { return date.Add(10 * time.Hour) }
	t.Cleanup(func() { core.NowFunc = orig })
}
