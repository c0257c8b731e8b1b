package roster

import (
	"context"

	"github.com/trezcool/campus/core"
)

func findCourse(courses []Course, id string) (Course, bool) {
	for _, c := range courses {
		if c.ID == id {
			return c, true
		}
	}
	return Course{}, false
}

// markAttendance upserts the status of one course on one date in the student's attendance.
// shared holds the courses the student shares with the acting teacher; any other course is rejected.
//
// If the date has no AttendanceDay yet, one is created with every shared course present, except courseID
// which gets status, and inserted so that days stay most recent first (at the head for today).
// Otherwise only the record of courseID changes (and is appended if the day has none for it).
func markAttendance(s *Student, shared []Course, date core.Date, courseID string, status AttendanceStatus) error {
	course, ok := findCourse(shared, courseID)
	if !ok {
		return ErrInvalidCourse
	}

	if i := s.Day(date); i >= 0 {
		day := &s.Attendance[i]
		if j := day.Record(courseID); j >= 0 {
			day.Records[j].Status = status
		} else {
			day.Records = append(day.Records, AttendanceRecord{CourseID: course.ID, CourseName: course.Name, Status: status})
		}
		return nil
	}

	records := make([]AttendanceRecord, 0, len(shared))
	for _, c := range shared {
		st := StatusPresent
		if c.ID == courseID {
			st = status
		}
		records = append(records, AttendanceRecord{CourseID: c.ID, CourseName: c.Name, Status: st})
	}
	// keep the days most recent first
	at := len(s.Attendance)
	for i, day := range s.Attendance {
		if day.Date.Before(date.Time) {
			at = i
			break
		}
	}
	s.Attendance = append(s.Attendance, AttendanceDay{})
	copy(s.Attendance[at+1:], s.Attendance[at:])
	s.Attendance[at] = AttendanceDay{Date: date, Records: records}
	return nil
}

// RecordAttendance sets the attendance status of a student for one course on one date, on behalf of a teacher.
// The course must be one the student shares with the teacher's schedule, or ErrInvalidCourse is returned.
// A zero date means today. Recording the same mark twice leaves the attendance as after the first call.
func (svc *Service) RecordAttendance(ctx context.Context, mark AttendanceMark) (Student, error) {
	if err := svc.validate.Struct(mark); err != nil {
		return Student{}, err
	}
	if mark.Date.IsZero() {
		mark.Date = core.Today()
	}

	teacher, err := svc.repo.GetTeacher(ctx, mark.TeacherID)
	if err != nil {
		return Student{}, err
	}
	s, err := svc.repo.UpdateStudent(ctx, mark.StudentID, func(s *Student) error {
		return markAttendance(s, SharedCourses(teacher.Schedule, *s), mark.Date, mark.CourseID, mark.Status)
	})
	if err != nil {
		return Student{}, err
	}

	svc.logger.Info("attendance recorded", map[string]interface{}{
		"teacher": teacher.ID,
		"student": s.ID,
		"date":    mark.Date.String(),
		"course":  mark.CourseID,
		"status":  string(mark.Status),
	})
	return s, nil
}

// AttendanceSheet returns the teacher's view of a student's attendance on date (today if zero):
// one record per course they share, present unless recorded otherwise.
func (svc *Service) AttendanceSheet(ctx context.Context, teacherID, studentID int, date core.Date) ([]AttendanceRecord, error) {
	if date.IsZero() {
		date = core.Today()
	}
	teacher, err := svc.repo.GetTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	s, err := svc.repo.GetStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	var day AttendanceDay
	if i := s.Day(date); i >= 0 {
		day = s.Attendance[i]
	}
	shared := SharedCourses(teacher.Schedule, s)
	sheet := make([]AttendanceRecord, 0, len(shared))
	for _, c := range shared {
		rec := AttendanceRecord{CourseID: c.ID, CourseName: c.Name, Status: StatusPresent}
		if j := day.Record(c.ID); j >= 0 {
			rec.Status = day.Records[j].Status
		}
		sheet = append(sheet, rec)
	}
	return sheet, nil
}

// AttendanceOn returns the student's AttendanceDay for date, or their most recent one if date is zero.
func (svc *Service) AttendanceOn(ctx context.Context, studentID int, date core.Date) (AttendanceDay, error) {
	s, err := svc.repo.GetStudent(ctx, studentID)
	if err != nil {
		return AttendanceDay{}, err
	}
	if len(s.Attendance) == 0 {
		return AttendanceDay{}, ErrNotFound
	}
	if date.IsZero() {
		return s.Attendance[0], nil
	}
	if i := s.Day(date); i >= 0 {
		return s.Attendance[i], nil
	}
	return AttendanceDay{}, ErrNotFound
}
