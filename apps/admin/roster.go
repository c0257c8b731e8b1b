package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/roster"
)

func courseList(courses []roster.Course) string {
	ids := make([]string, 0, len(courses))
	for _, c := range courses {
		ids = append(ids, c.ID)
	}
	return strings.Join(ids, ",")
}

func (cli *commandLine) printStudents(students []roster.Student) {
	for _, s := range students {
		fmt.Fprintf(cli.out, "%d\t%s\t%s\tclass %d\t%s\t[%s]\n", s.ID, s.Name, s.Email, s.Class, s.Status, courseList(s.Courses))
	}
}

func (cli *commandLine) listStudents() error {
	students, err := cli.svc.ListStudents(context.Background())
	if err != nil {
		return err
	}
	cli.printStudents(students)
	return nil
}

func (cli *commandLine) listTeachers() error {
	teachers, err := cli.svc.ListTeachers(context.Background())
	if err != nil {
		return err
	}
	for _, t := range teachers {
		fmt.Fprintf(cli.out, "%d\t%s\t%s\t%s\t[%s]\n", t.ID, t.Name, t.Email, t.Subject, courseList(t.Schedule))
	}
	return nil
}

func (cli *commandLine) listAnnouncements() error {
	anns, err := cli.svc.ListAnnouncements(context.Background())
	if err != nil {
		return err
	}
	for _, a := range anns {
		fmt.Fprintf(cli.out, "%s\t%s (%s)\n\t%s\n", a.Date, a.Title, a.Author, a.Content)
	}
	return nil
}

func (cli *commandLine) enrollment(teacherID int) error {
	students, err := cli.svc.TeacherStudents(context.Background(), teacherID)
	if err != nil {
		return err
	}
	cli.printStudents(students)
	return nil
}

func (cli *commandLine) recordAttendance(mark roster.AttendanceMark) error {
	ctx := context.Background()
	if mark.Date.IsZero() {
		mark.Date = core.Today()
	}
	if _, err := cli.svc.RecordAttendance(ctx, mark); err != nil {
		return err
	}
	day, err := cli.svc.AttendanceOn(ctx, mark.StudentID, mark.Date)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "%s\n", day.Date)
	for _, rec := range day.Records {
		fmt.Fprintf(cli.out, "\t%s\t%s\t%s\n", rec.CourseID, rec.CourseName, rec.Status)
	}
	return nil
}

func (cli *commandLine) addReport(teacherID, studentID int, text string, mood roster.Mood) error {
	ctx := context.Background()
	t, err := cli.svc.GetTeacherByID(ctx, teacherID)
	if err != nil {
		return err
	}
	s, err := cli.svc.AddDailyReport(ctx, studentID, roster.NewDailyReport{Teacher: t.Name, Report: text, Mood: mood})
	if err != nil {
		return err
	}
	dr := s.DailyReports[0]
	fmt.Fprintf(cli.out, "%s\t%s\t%s\t%s\n", dr.ID, dr.Date, dr.Mood, dr.Report)
	return nil
}

func (cli *commandLine) login(email, pwd string) error {
	usr, err := cli.svc.Authenticate(context.Background(), email, pwd)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "signed in as %s (%s, id %d)\n", usr.Name, usr.Role, usr.ID)
	return nil
}
