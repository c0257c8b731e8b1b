package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/roster"
	"github.com/trezcool/campus/core/user"
)

var errObjNotFoundInCtx = errors.New("object not found in echo.Context")

type rosterApi struct {
	conf     *core.Config
	svc      *roster.Service
	validate *validator.Validate
	metrics  *Metrics
}

func registerRosterAPI(g *echo.Group, jwt echo.MiddlewareFunc, api rosterApi) {
	adminOnly := roleMiddleware(api.svc, user.RoleAdmin)
	teacherOnly := roleMiddleware(api.svc, user.RoleTeacher)

	// un-authed endpoints
	g.POST("/login", api.login)

	// authed endpoints
	ag := g.Group("", jwt)
	ag.GET("/me", api.me)
	ag.GET("/announcements", api.queryAnnouncements)

	sg := ag.Group("/students")
	sg.GET("", api.queryStudents)
	sg.POST("", api.createStudent, adminOnly)

	sdg := sg.Group("/:id", studentScopeMiddleware(api.svc))
	sdg.GET("", api.retrieveStudent)
	sdg.DELETE("", api.destroyStudent, adminOnly)
	sdg.GET("/attendance", api.retrieveAttendance)
	sdg.PUT("/attendance", api.recordAttendance, teacherOnly)
	sdg.POST("/daily-reports", api.createDailyReport, teacherOnly)

	tg := ag.Group("/teachers")
	tg.GET("", api.queryTeachers, adminOnly)
	tg.POST("", api.createTeacher, adminOnly)

	tdg := tg.Group("/:id", teacherScopeMiddleware(api.svc))
	tdg.GET("", api.retrieveTeacher)
	tdg.PATCH("", api.updateTeacher)
	tdg.DELETE("", api.destroyTeacher, adminOnly)
	tdg.GET("/students", api.queryTeacherStudents)
}

func contextStudent(ctx echo.Context) (roster.Student, error) {
	s, ok := ctx.Get(objectContextKey).(roster.Student)
	if !ok {
		return roster.Student{}, errors.Wrap(errObjNotFoundInCtx, "retrieving student from context")
	}
	return s, nil
}

func contextTeacher(ctx echo.Context) (roster.Teacher, error) {
	t, ok := ctx.Get(objectContextKey).(roster.Teacher)
	if !ok {
		return roster.Teacher{}, errors.Wrap(errObjNotFoundInCtx, "retrieving teacher from context")
	}
	return t, nil
}

// Handlers

func (api *rosterApi) queryAnnouncements(ctx echo.Context) error {
	anns, err := api.svc.ListAnnouncements(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing announcements")
	}
	return ctx.JSON(http.StatusOK, anns)
}

// queryStudents lists the students visible to the signed-in Person.
func (api *rosterApi) queryStudents(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.svc)
	if err != nil {
		return err
	}

	rctx := ctx.Request().Context()
	var students []roster.Student
	switch usr.Role {
	case user.RoleAdmin:
		students, err = api.svc.ListStudents(rctx)
	case user.RoleTeacher:
		students, err = api.svc.TeacherStudents(rctx, usr.ID)
	case user.RoleStudent:
		var s roster.Student
		s, err = api.svc.GetStudentByID(rctx, usr.ID)
		students = []roster.Student{s}
	default:
		return errHttpForbidden
	}
	if err != nil {
		return errors.Wrap(err, "listing students")
	}
	return ctx.JSON(http.StatusOK, students)
}

// createdStudent and createdTeacher carry a generated password back to the admin, once.
type (
	createdStudent struct {
		roster.Student
		GeneratedPassword string `json:"generated_password,omitempty"`
	}

	createdTeacher struct {
		roster.Teacher
		GeneratedPassword string `json:"generated_password,omitempty"`
	}
)

func (api *rosterApi) createStudent(ctx echo.Context) error {
	var data roster.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	generated := data.FillPassword()
	s, err := api.svc.AddStudent(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "adding student")
	}
	return ctx.JSON(http.StatusCreated, createdStudent{Student: s, GeneratedPassword: generated})
}

func (api *rosterApi) retrieveStudent(ctx echo.Context) error {
	s, err := contextStudent(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *rosterApi) destroyStudent(ctx echo.Context) error {
	s, err := contextStudent(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.RemoveStudent(ctx.Request().Context(), s.ID); err != nil {
		return errors.Wrap(err, "removing student")
	}
	return ctx.NoContent(http.StatusNoContent)
}

type AttendanceQuery struct {
	Date core.Date `query:"date"`
}

// retrieveAttendance returns the attendance sheet of the courses a teacher shares with the student,
// or the student's AttendanceDay for anyone else.
func (api *rosterApi) retrieveAttendance(ctx echo.Context) error {
	s, err := contextStudent(ctx)
	if err != nil {
		return err
	}
	var query AttendanceQuery
	if err = ctx.Bind(&query); err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "date", Error: "date must be formatted as " + core.DateLayout})
	}

	usr, err := getContextUser(ctx, api.svc)
	if err != nil {
		return err
	}
	rctx := ctx.Request().Context()
	if usr.IsTeacher() {
		sheet, err := api.svc.AttendanceSheet(rctx, usr.ID, s.ID, query.Date)
		if err != nil {
			return errors.Wrap(err, "getting attendance sheet")
		}
		return ctx.JSON(http.StatusOK, sheet)
	}

	day, err := api.svc.AttendanceOn(rctx, s.ID, query.Date)
	if err != nil {
		return errors.Wrap(err, "getting attendance")
	}
	return ctx.JSON(http.StatusOK, day)
}

func (api *rosterApi) recordAttendance(ctx echo.Context) error {
	s, err := contextStudent(ctx)
	if err != nil {
		return err
	}
	usr, err := getContextUser(ctx, api.svc)
	if err != nil {
		return err
	}

	var data roster.AttendanceMark
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AttendanceMark")
	}
	data.TeacherID, data.StudentID = usr.ID, s.ID

	s, err = api.svc.RecordAttendance(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "recording attendance")
	}
	api.metrics.attendanceMarked(data.Status)
	return ctx.JSON(http.StatusOK, s)
}

func (api *rosterApi) createDailyReport(ctx echo.Context) error {
	s, err := contextStudent(ctx)
	if err != nil {
		return err
	}
	usr, err := getContextUser(ctx, api.svc)
	if err != nil {
		return err
	}

	var data roster.NewDailyReport
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewDailyReport")
	}
	data.Teacher = usr.Name

	s, err = api.svc.AddDailyReport(ctx.Request().Context(), s.ID, data)
	if err != nil {
		return errors.Wrap(err, "adding daily report")
	}
	api.metrics.reportLogged()
	return ctx.JSON(http.StatusCreated, s)
}

func (api *rosterApi) queryTeachers(ctx echo.Context) error {
	teachers, err := api.svc.ListTeachers(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing teachers")
	}
	return ctx.JSON(http.StatusOK, teachers)
}

func (api *rosterApi) createTeacher(ctx echo.Context) error {
	var data roster.NewTeacher
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTeacher")
	}
	generated := data.FillPassword()
	t, err := api.svc.AddTeacher(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "adding teacher")
	}
	return ctx.JSON(http.StatusCreated, createdTeacher{Teacher: t, GeneratedPassword: generated})
}

func (api *rosterApi) retrieveTeacher(ctx echo.Context) error {
	t, err := contextTeacher(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *rosterApi) updateTeacher(ctx echo.Context) error {
	t, err := contextTeacher(ctx)
	if err != nil {
		return err
	}

	var data roster.UpdateTeacherProfile
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateTeacherProfile")
	}
	if data.IsEmpty() {
		return ctx.JSON(http.StatusOK, t)
	}

	t, err = api.svc.UpdateTeacherProfile(ctx.Request().Context(), t.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating teacher")
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *rosterApi) destroyTeacher(ctx echo.Context) error {
	t, err := contextTeacher(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.RemoveTeacher(ctx.Request().Context(), t.ID); err != nil {
		return errors.Wrap(err, "removing teacher")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *rosterApi) queryTeacherStudents(ctx echo.Context) error {
	t, err := contextTeacher(ctx)
	if err != nil {
		return err
	}
	students, err := api.svc.TeacherStudents(ctx.Request().Context(), t.ID)
	if err != nil {
		return errors.Wrap(err, "resolving enrollment")
	}
	return ctx.JSON(http.StatusOK, students)
}
