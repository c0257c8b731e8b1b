package roster

import (
	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/user"
)

type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "present"
	StatusAbsent  AttendanceStatus = "absent"
	StatusLate    AttendanceStatus = "late"
)

func (s AttendanceStatus) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate:
		return true
	}
	return false
}

type Mood string

const (
	MoodHappy   Mood = "happy"
	MoodNeutral Mood = "neutral"
	MoodSad     Mood = "sad"
)

func (m Mood) Valid() bool {
	switch m {
	case MoodHappy, MoodNeutral, MoodSad:
		return true
	}
	return false
}

// Course is a scheduled class. Teacher holds the teacher's name for display, it is not a key.
type Course struct {
	ID      string `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Time    string `json:"time" yaml:"time"`
	Room    string `json:"room" yaml:"room"`
	Teacher string `json:"teacher" yaml:"teacher"`
}

type Assignment struct {
	ID      string    `json:"id" yaml:"id"`
	Course  string    `json:"course" yaml:"course"`
	Title   string    `json:"title" yaml:"title"`
	DueDate core.Date `json:"due_date" yaml:"dueDate"`
	Grade   string    `json:"grade" yaml:"grade"`
}

// Report is a performance report file published for a course.
type Report struct {
	ID      string    `json:"id" yaml:"id"`
	Course  string    `json:"course" yaml:"course"`
	Title   string    `json:"title" yaml:"title"`
	Teacher string    `json:"teacher" yaml:"teacher"`
	Date    core.Date `json:"date" yaml:"date"`
	FileURL string    `json:"file_url" yaml:"fileUrl"`
}

// DailyReport is a behavioral note a teacher attaches to a student.
type DailyReport struct {
	ID      string    `json:"id" yaml:"id"`
	Teacher string    `json:"teacher" yaml:"teacher"`
	Date    core.Date `json:"date" yaml:"date"`
	Report  string    `json:"report" yaml:"report"`
	Mood    Mood      `json:"mood" yaml:"mood"`
}

// AttendanceRecord is keyed by CourseID; CourseName is kept for display.
type AttendanceRecord struct {
	CourseID   string           `json:"course_id" yaml:"courseId"`
	CourseName string           `json:"course_name" yaml:"courseName"`
	Status     AttendanceStatus `json:"status" yaml:"status"`
}

// AttendanceDay holds one date's statuses of one student, at most one record per course.
type AttendanceDay struct {
	Date    core.Date          `json:"date" yaml:"date"`
	Records []AttendanceRecord `json:"records" yaml:"records"`
}

// Record returns the index of the record for courseID, or -1.
func (day AttendanceDay) Record(courseID string) int {
	for i, r := range day.Records {
		if r.CourseID == courseID {
			return i
		}
	}
	return -1
}

type Student struct {
	user.User
	Class        int             `json:"class"`
	Courses      []Course        `json:"courses"`
	Assignments  []Assignment    `json:"assignments"`
	Reports      []Report        `json:"reports"`
	DailyReports []DailyReport   `json:"daily_reports"` // newest first
	Attendance   []AttendanceDay `json:"attendance"`    // most recent first
}

// Day returns the index of the attendance day for date, or -1.
func (s *Student) Day(date core.Date) int {
	for i, day := range s.Attendance {
		if day.Date.Equal(date) {
			return i
		}
	}
	return -1
}

// Copy returns a deep copy of the student, so that mutations never reach the stored record.
func (s Student) Copy() Student {
	cp := s
	cp.PasswordHash = append([]byte(nil), s.PasswordHash...)
	cp.Courses = append(make([]Course, 0, len(s.Courses)), s.Courses...)
	cp.Assignments = append(make([]Assignment, 0, len(s.Assignments)), s.Assignments...)
	cp.Reports = append(make([]Report, 0, len(s.Reports)), s.Reports...)
	cp.DailyReports = append(make([]DailyReport, 0, len(s.DailyReports)), s.DailyReports...)
	cp.Attendance = make([]AttendanceDay, 0, len(s.Attendance))
	for _, day := range s.Attendance {
		cp.Attendance = append(cp.Attendance, AttendanceDay{
			Date:    day.Date,
			Records: append(make([]AttendanceRecord, 0, len(day.Records)), day.Records...),
		})
	}
	return cp
}

type Teacher struct {
	user.User
	Subject  string   `json:"subject"`
	Contact  string   `json:"contact"`
	Office   string   `json:"office"`
	Schedule []Course `json:"schedule"`
}

func (t Teacher) Copy() Teacher {
	cp := t
	cp.PasswordHash = append([]byte(nil), t.PasswordHash...)
	cp.Schedule = append(make([]Course, 0, len(t.Schedule)), t.Schedule...)
	return cp
}

// Announcement is a static school-wide notice.
type Announcement struct {
	ID      int       `json:"id" yaml:"id"`
	Title   string    `json:"title" yaml:"title"`
	Content string    `json:"content" yaml:"content"`
	Author  string    `json:"author" yaml:"author"`
	Date    core.Date `json:"date" yaml:"date"`
}

// NewStudent contains information needed to create a new Student.
type NewStudent struct {
	user.NewUser
	Class int `json:"class" validate:"gte=0"`
}

// NewTeacher contains information needed to create a new Teacher.
type NewTeacher struct {
	user.NewUser
	Subject string `json:"subject"`
	Contact string `json:"contact"`
	Office  string `json:"office"`
}

// UpdateTeacherProfile defines the profile fields a Teacher may change. Nil fields are left as is.
type UpdateTeacherProfile struct {
	Subject *string `json:"subject"`
	Contact *string `json:"contact"`
	Office  *string `json:"office"`
}

func (up UpdateTeacherProfile) IsEmpty() bool {
	return up.Subject == nil && up.Contact == nil && up.Office == nil
}

// AttendanceMark is a teacher's attendance entry for one student in one course.
type AttendanceMark struct {
	TeacherID int              `json:"-"`
	StudentID int              `json:"-"`
	Date      core.Date        `json:"date"` // zero: today
	CourseID  string           `json:"course_id" validate:"required"`
	Status    AttendanceStatus `json:"status" validate:"required,attendance_status"`
}

// NewDailyReport contains information needed to log a DailyReport.
type NewDailyReport struct {
	Teacher string `json:"-" validate:"notblank"`
	Report  string `json:"report"`
	Mood    Mood   `json:"mood" validate:"omitempty,mood"`
}
