package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	"golang.org/x/term"

	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/roster"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	svc *roster.Service
	out io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  students                                                   - list all students")
	fmt.Fprintln(cli.out, "  teachers                                                   - list all teachers")
	fmt.Fprintln(cli.out, "  announcements                                              - list the announcements")
	fmt.Fprintln(cli.out, "  enrollment -teacher ID                                     - list the students a teacher teaches")
	fmt.Fprintln(cli.out, "  attendance -teacher ID -student ID -course ID -status S [-date YYYY-MM-DD]")
	fmt.Fprintln(cli.out, "                                                             - record a student's attendance")
	fmt.Fprintln(cli.out, "  report -teacher ID -student ID -text TEXT [-mood M]        - log a daily report")
	fmt.Fprintln(cli.out, "  login -email EMAIL                                         - check credentials (password prompted)")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	enrollmentCmd := flag.NewFlagSet("enrollment", flag.ContinueOnError)
	enrollmentTeacher := enrollmentCmd.Int("teacher", 0, "The teacher's ID.")

	attendanceCmd := flag.NewFlagSet("attendance", flag.ContinueOnError)
	attendanceTeacher := attendanceCmd.Int("teacher", 0, "The teacher's ID.")
	attendanceStudent := attendanceCmd.Int("student", 0, "The student's ID.")
	attendanceCourse := attendanceCmd.String("course", "", "The course ID, e.g. C101.")
	attendanceStatus := attendanceCmd.String("status", "", "present, absent or late.")
	attendanceDate := attendanceCmd.String("date", "", "The date (YYYY-MM-DD). Defaults to today.")

	reportCmd := flag.NewFlagSet("report", flag.ContinueOnError)
	reportTeacher := reportCmd.Int("teacher", 0, "The teacher's ID.")
	reportStudent := reportCmd.Int("student", 0, "The student's ID.")
	reportText := reportCmd.String("text", "", "The report text.")
	reportMood := reportCmd.String("mood", "", "happy, neutral or sad. Defaults to neutral.")

	loginCmd := flag.NewFlagSet("login", flag.ContinueOnError)
	loginEmail := loginCmd.String("email", "", "The account's email (the admin ID for admins). The password will be prompted next.")

	for _, fs := range []*flag.FlagSet{enrollmentCmd, attendanceCmd, reportCmd, loginCmd} {
		fs.SetOutput(cli.out)
	}

	switch args[1] {
	case "students":
		return cli.listStudents()
	case "teachers":
		return cli.listTeachers()
	case "announcements":
		return cli.listAnnouncements()

	case "enrollment":
		if err := enrollmentCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *enrollmentTeacher == 0 {
			enrollmentCmd.Usage()
			return errHelp
		}
		return cli.enrollment(*enrollmentTeacher)

	case "attendance":
		if err := attendanceCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *attendanceTeacher == 0 || *attendanceStudent == 0 || *attendanceCourse == "" || *attendanceStatus == "" {
			attendanceCmd.Usage()
			return errHelp
		}
		var date core.Date
		if err := date.UnmarshalParam(*attendanceDate); err != nil {
			return err
		}
		return cli.recordAttendance(roster.AttendanceMark{
			TeacherID: *attendanceTeacher,
			StudentID: *attendanceStudent,
			Date:      date,
			CourseID:  *attendanceCourse,
			Status:    roster.AttendanceStatus(*attendanceStatus),
		})

	case "report":
		if err := reportCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *reportTeacher == 0 || *reportStudent == 0 {
			reportCmd.Usage()
			return errHelp
		}
		return cli.addReport(*reportTeacher, *reportStudent, *reportText, roster.Mood(*reportMood))

	case "login":
		if err := loginCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *loginEmail == "" {
			loginCmd.Usage()
			return errHelp
		}
		fmt.Fprint(cli.out, "Enter password:")
		pwd, err := readPasswordFunc(int(syscall.Stdin))
		fmt.Fprintln(cli.out)
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			loginCmd.Usage()
			return errHelp
		}
		return cli.login(*loginEmail, string(pwd))

	default:
		cli.printUsage()
		return errHelp
	}
}
