// Package fixtures holds the seed roster every session starts from.
package fixtures

import (
	"context"
	_ "embed"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/trezcool/campus/core/roster"
	"github.com/trezcool/campus/core/user"
)

//go:embed seed.yaml
var seedYAML []byte

type (
	person struct {
		ID        int         `yaml:"id"`
		Name      string      `yaml:"name"`
		Email     string      `yaml:"email"`
		Password  string      `yaml:"password"`
		AvatarURL string      `yaml:"avatarUrl"`
		Status    user.Status `yaml:"status"`
	}

	student struct {
		person       `yaml:",inline"`
		Class        int                    `yaml:"class"`
		Courses      []roster.Course        `yaml:"courses"`
		Assignments  []roster.Assignment    `yaml:"assignments"`
		Reports      []roster.Report        `yaml:"reports"`
		DailyReports []roster.DailyReport   `yaml:"dailyReports"`
		Attendance   []roster.AttendanceDay `yaml:"attendance"`
	}

	teacher struct {
		person   `yaml:",inline"`
		Subject  string          `yaml:"subject"`
		Contact  string          `yaml:"contact"`
		Office   string          `yaml:"office"`
		Schedule []roster.Course `yaml:"schedule"`
	}

	// Fixtures is a decoded seed file. The top-level courses, assignments and reports lists only hold
	// the YAML anchors the people refer to.
	Fixtures struct {
		Courses       []roster.Course       `yaml:"courses"`
		Announcements []roster.Announcement `yaml:"announcements"`
		Students      []student             `yaml:"students"`
		Teachers      []teacher             `yaml:"teachers"`
		Admins        []person              `yaml:"admins"`
	}
)

// Load decodes the seed file at path, or the embedded seed when path is empty.
func Load(path string) (*Fixtures, error) {
	data := seedYAML
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, errors.Wrap(err, "reading fixtures")
		}
	}

	fx := new(Fixtures)
	if err := yaml.Unmarshal(data, fx); err != nil {
		return nil, errors.Wrap(err, "decoding fixtures")
	}
	if err := fx.validate(); err != nil {
		return nil, errors.Wrap(err, "invalid fixtures")
	}
	return fx, nil
}

func (fx *Fixtures) validate() error {
	ids := make(map[int]bool)
	checkPerson := func(p person) error {
		if p.ID <= 0 {
			return errors.Errorf("%q: id must be positive", p.Name)
		}
		if ids[p.ID] {
			return errors.Errorf("duplicate id %d", p.ID)
		}
		ids[p.ID] = true
		if p.Status != "" && !p.Status.Valid() {
			return errors.Errorf("%d: invalid status %q", p.ID, p.Status)
		}
		return nil
	}

	for _, s := range fx.Students {
		if err := checkPerson(s.person); err != nil {
			return err
		}
		enrolled := make(map[string]bool, len(s.Courses))
		for _, c := range s.Courses {
			enrolled[c.ID] = true
		}
		for i, day := range s.Attendance {
			// most recent first, one day per date
			if i > 0 && !day.Date.Before(s.Attendance[i-1].Date.Time) {
				return errors.Errorf("%d: attendance days must be unique and most recent first, got %s after %s",
					s.ID, day.Date, s.Attendance[i-1].Date)
			}
			marked := make(map[string]bool, len(day.Records))
			for _, rec := range day.Records {
				if marked[rec.CourseID] {
					return errors.Errorf("%d: attendance on %s has course %q twice", s.ID, day.Date, rec.CourseID)
				}
				marked[rec.CourseID] = true
				if !enrolled[rec.CourseID] {
					return errors.Errorf("%d: attendance on %s for unknown course %q", s.ID, day.Date, rec.CourseID)
				}
				if !rec.Status.Valid() {
					return errors.Errorf("%d: invalid attendance status %q", s.ID, rec.Status)
				}
			}
		}
		for _, dr := range s.DailyReports {
			if !dr.Mood.Valid() {
				return errors.Errorf("%d: invalid mood %q", s.ID, dr.Mood)
			}
		}
	}
	for _, t := range fx.Teachers {
		if err := checkPerson(t.person); err != nil {
			return err
		}
	}
	for _, a := range fx.Admins {
		if err := checkPerson(a); err != nil {
			return err
		}
	}
	return nil
}

func (p person) user(role user.Role) (user.User, error) {
	u := user.User{
		ID:        p.ID,
		Name:      p.Name,
		Email:     p.Email,
		Role:      role,
		AvatarURL: p.AvatarURL,
		Status:    p.Status,
	}
	if u.Status == "" {
		u.Status = user.StatusActive
	}
	if err := u.SetPassword(p.Password); err != nil {
		return user.User{}, errors.Wrapf(err, "hashing password of %d", p.ID)
	}
	return u, nil
}

// Seed creates every fixture Person and sets the announcements. The announcements setter is optional
// because announcements are not part of the roster contract.
func (fx *Fixtures) Seed(ctx context.Context, repo roster.Repository) error {
	for _, fs := range fx.Students {
		u, err := fs.user(user.RoleStudent)
		if err != nil {
			return err
		}
		s := roster.Student{
			User:         u,
			Class:        fs.Class,
			Courses:      orEmpty(fs.Courses),
			Assignments:  append([]roster.Assignment{}, fs.Assignments...),
			Reports:      append([]roster.Report{}, fs.Reports...),
			DailyReports: append([]roster.DailyReport{}, fs.DailyReports...),
			Attendance:   append([]roster.AttendanceDay{}, fs.Attendance...),
		}
		if _, err = repo.CreateStudent(ctx, s); err != nil {
			return errors.Wrapf(err, "seeding student %d", fs.ID)
		}
	}

	for _, ft := range fx.Teachers {
		u, err := ft.user(user.RoleTeacher)
		if err != nil {
			return err
		}
		t := roster.Teacher{
			User:     u,
			Subject:  ft.Subject,
			Contact:  ft.Contact,
			Office:   ft.Office,
			Schedule: orEmpty(ft.Schedule),
		}
		if _, err = repo.CreateTeacher(ctx, t); err != nil {
			return errors.Wrapf(err, "seeding teacher %d", ft.ID)
		}
	}

	for _, fa := range fx.Admins {
		u, err := fa.user(user.RoleAdmin)
		if err != nil {
			return err
		}
		if _, err = repo.CreateAdmin(ctx, u); err != nil {
			return errors.Wrapf(err, "seeding admin %d", fa.ID)
		}
	}

	if setter, ok := repo.(announcementSetter); ok {
		setter.SetAnnouncements(fx.Announcements)
	}
	return nil
}

type announcementSetter interface {
	SetAnnouncements([]roster.Announcement)
}

func orEmpty(courses []roster.Course) []roster.Course {
	return append([]roster.Course{}, courses...)
}
