package echoapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/roster"
	"github.com/trezcool/campus/core/user"
)

type tokens struct {
	admin, reed, chen, alice, bob string
}

func newTokens(t *testing.T, app testApp) tokens {
	return tokens{
		admin: getToken(t, app.account(t, admin, user.RoleAdmin)),
		reed:  getToken(t, app.account(t, reed, user.RoleTeacher)),
		chen:  getToken(t, app.account(t, chen, user.RoleTeacher)),
		alice: getToken(t, app.account(t, alice, user.RoleStudent)),
		bob:   getToken(t, app.account(t, bob, user.RoleStudent)),
	}
}

func Test_rosterApi_queryStudents(t *testing.T) {
	app := setup(t)
	tk := newTokens(t, app)

	all := []roster.Student{app.student(t, alice), app.student(t, bob), app.student(t, charlie)}
	tests := []httpTest{
		{name: "Auth required", path: "/v1/students", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "admin sees everyone", path: "/v1/students", token: tk.admin, wantCode: http.StatusOK, wantData: marchallObj(t, all)},
		{
			name: "teacher sees their students", path: "/v1/students", token: tk.reed, wantCode: http.StatusOK,
			wantData: marchallObj(t, []roster.Student{all[0], all[2]}),
		},
		{
			name: "student sees themselves", path: "/v1/students", token: tk.bob, wantCode: http.StatusOK,
			wantData: marchallObj(t, []roster.Student{all[1]}),
		},
	}
	runHTTPTests(t, app, tests)
}

func Test_rosterApi_retrieveStudent(t *testing.T) {
	app := setup(t)
	tk := newTokens(t, app)

	notFound := marchallObj(t, httpErr{Error: "not found"})
	tests := []httpTest{
		{name: "admin", path: "/v1/students/2", token: tk.admin, wantCode: http.StatusOK, wantData: marchallObj(t, app.student(t, bob))},
		{name: "teacher teaching", path: "/v1/students/2", token: tk.chen, wantCode: http.StatusOK, wantData: marchallObj(t, app.student(t, bob))},
		{name: "teacher not teaching", path: "/v1/students/2", token: tk.reed, wantCode: http.StatusNotFound, wantData: notFound},
		{name: "the student", path: "/v1/students/1", token: tk.alice, wantCode: http.StatusOK, wantData: marchallObj(t, app.student(t, alice))},
		{name: "another student", path: "/v1/students/2", token: tk.alice, wantCode: http.StatusNotFound, wantData: notFound},
		{name: "unknown", path: "/v1/students/999", token: tk.admin, wantCode: http.StatusNotFound, wantData: notFound},
		{name: "malformed id", path: "/v1/students/abc", token: tk.admin, wantCode: http.StatusNotFound, wantData: notFound},
	}
	runHTTPTests(t, app, tests)
}

func Test_rosterApi_createAndDestroyStudent(t *testing.T) {
	app := setup(t)
	tk := newTokens(t, app)

	body := marchallObj(t, map[string]interface{}{"name": "Dana Scully", "email": "dana.s@school.edu", "password": "pwd", "class": 11})
	forbidden := marchallObj(t, httpErr{Error: "permission denied"})

	runHTTPTests(t, app, []httpTest{
		{name: "admin required", method: http.MethodPost, path: "/v1/students", body: body, token: tk.reed, wantCode: http.StatusForbidden, wantData: forbidden},
		{
			name: "email taken", method: http.MethodPost, path: "/v1/students", token: tk.admin, wantCode: http.StatusBadRequest,
			body:     marchallObj(t, map[string]interface{}{"name": "Alice 2", "email": "alice.j@school.edu", "password": "pwd"}),
			wantData: marchallObj(t, map[string]string{"email": roster.ErrEmailExists.Error()}),
		},
		{
			name: "invalid", method: http.MethodPost, path: "/v1/students", token: tk.admin, wantCode: http.StatusBadRequest,
			body:     marchallObj(t, map[string]interface{}{"name": " ", "email": "dana.s@school.edu", "password": "pwd"}),
			wantData: marchallObj(t, map[string]string{"name": "this field cannot be blank"}),
		},
	})

	req, rec := newAuthRequest(http.MethodPost, "/v1/students", tk.admin, body)
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	students, err := app.svc.ListStudents(context.Background())
	require.NoError(t, err)
	require.Len(t, students, 4)
	created := students[3]
	assert.Equal(t, "Dana Scully", created.Name)
	checkCodeAndData(t, httpTest{wantCode: http.StatusCreated, wantData: marchallObj(t, created)}, rec)

	runHTTPTests(t, app, []httpTest{
		{name: "destroy: admin required", method: http.MethodDelete, path: "/v1/students/1", token: tk.alice, wantCode: http.StatusForbidden, wantData: forbidden},
		{name: "destroy", method: http.MethodDelete, path: "/v1/students/1", token: tk.admin, wantCode: http.StatusNoContent},
		{name: "destroyed", path: "/v1/students/1", token: tk.admin, wantCode: http.StatusNotFound},
		{name: "destroyed student signed out", path: "/v1/me", token: tk.alice, wantCode: http.StatusUnauthorized},
		{
			name: "teacher's students updated", path: "/v1/teachers/101/students", token: tk.reed, wantCode: http.StatusOK,
			wantData: marchallObj(t, []roster.Student{app.student(t, charlie)}),
		},
	})
}

func Test_rosterApi_createWithGeneratedPassword(t *testing.T) {
	app := setup(t)
	tk := newTokens(t, app)

	tests := []struct {
		name string
		path string
		body map[string]interface{}
	}{
		{name: "student", path: "/v1/students", body: map[string]interface{}{"name": "Dana Scully", "email": "dana.s@school.edu", "generate_password": true}},
		{name: "teacher", path: "/v1/teachers", body: map[string]interface{}{"name": "Fox Mulder", "email": "fox.m@school.edu", "password": "ignored", "generate_password": true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, tt.path, tk.admin, marchallObj(t, tt.body))
			app.ServeHTTP(rec, req)
			require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

			var created struct {
				ID                int    `json:"id"`
				GeneratedPassword string `json:"generated_password"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
			require.Len(t, created.GeneratedPassword, 32)

			usr, err := app.svc.Authenticate(context.Background(), tt.body["email"].(string), created.GeneratedPassword)
			require.NoError(t, err)
			assert.Equal(t, created.ID, usr.ID)

			_, err = app.svc.Authenticate(context.Background(), tt.body["email"].(string), "ignored")
			assert.Equal(t, roster.ErrAuthFailed, err)
		})
	}

	req, rec := newAuthRequest(http.MethodPost, "/v1/students", tk.admin,
		marchallObj(t, map[string]interface{}{"name": "Walter Skinner", "email": "walter.s@school.edu"}))
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotContains(t, rec.Body.String(), "generated_password")
}

func Test_rosterApi_recordAttendance(t *testing.T) {
	app := setup(t)
	tk := newTokens(t, app)

	mark := func(date, course string, status roster.AttendanceStatus) []byte {
		return marchallObj(t, map[string]interface{}{"date": date, "course_id": course, "status": status})
	}

	runHTTPTests(t, app, []httpTest{
		{
			name: "teacher required", method: http.MethodPut, path: "/v1/students/1/attendance", token: tk.alice,
			body: mark("2024-11-01", "C101", roster.StatusLate), wantCode: http.StatusForbidden,
		},
		{
			name: "student not taught", method: http.MethodPut, path: "/v1/students/2/attendance", token: tk.reed,
			body: mark("2024-11-01", "C103", roster.StatusLate), wantCode: http.StatusNotFound,
		},
		{
			name: "course not shared", method: http.MethodPut, path: "/v1/students/1/attendance", token: tk.reed,
			body: mark("2024-11-01", "C103", roster.StatusLate), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: roster.ErrInvalidCourse.Error()}),
		},
		{
			name: "invalid status", method: http.MethodPut, path: "/v1/students/1/attendance", token: tk.reed,
			body: mark("2024-11-01", "C101", "sleeping"), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"status": "status must be one of present, absent or late"}),
		},
		{
			name: "malformed date", method: http.MethodPut, path: "/v1/students/1/attendance", token: tk.reed,
			body: mark("01/11/2024", "C101", roster.StatusLate), wantCode: http.StatusBadRequest,
		},
	})
	assert.Len(t, app.student(t, alice).Attendance, 2, "rejected marks change nothing")

	req, rec := newAuthRequest(http.MethodPut, "/v1/students/1/attendance", tk.reed, mark("2024-11-01", "C101", roster.StatusLate))
	app.ServeHTTP(rec, req)
	s := app.student(t, alice)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, s)}, rec)
	require.Len(t, s.Attendance, 3)
	assert.Equal(t, []roster.AttendanceRecord{
		{CourseID: "C101", CourseName: "Introduction to Physics", Status: roster.StatusLate},
		{CourseID: "C102", CourseName: "Calculus I", Status: roster.StatusPresent},
	}, s.Attendance[0].Records)
}

func Test_rosterApi_retrieveAttendance(t *testing.T) {
	app := setup(t)
	tk := newTokens(t, app)

	aliceStudent := app.student(t, alice)
	runHTTPTests(t, app, []httpTest{
		{
			name: "teacher sheet", path: "/v1/students/3/attendance?date=2024-10-25", token: tk.chen, wantCode: http.StatusOK,
			wantData: marchallObj(t, []roster.AttendanceRecord{{CourseID: "C103", CourseName: "World History", Status: roster.StatusAbsent}}),
		},
		{
			name: "student day", path: "/v1/students/1/attendance?date=2024-10-24", token: tk.alice, wantCode: http.StatusOK,
			wantData: marchallObj(t, aliceStudent.Attendance[1]),
		},
		{
			name: "student latest day", path: "/v1/students/1/attendance", token: tk.alice, wantCode: http.StatusOK,
			wantData: marchallObj(t, aliceStudent.Attendance[0]),
		},
		{name: "no such day", path: "/v1/students/1/attendance?date=2020-01-01", token: tk.alice, wantCode: http.StatusNotFound},
		{
			name: "malformed date", path: "/v1/students/1/attendance?date=yesterday", token: tk.alice, wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"date": "date must be formatted as " + core.DateLayout}),
		},
	})
}

func Test_rosterApi_createDailyReport(t *testing.T) {
	app := setup(t)
	tk := newTokens(t, app)

	runHTTPTests(t, app, []httpTest{
		{
			name: "empty report", method: http.MethodPost, path: "/v1/students/2/daily-reports", token: tk.chen,
			body: marchallObj(t, map[string]string{"report": "  "}), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: roster.ErrEmptyReport.Error()}),
		},
		{
			name: "student not taught", method: http.MethodPost, path: "/v1/students/2/daily-reports", token: tk.reed,
			body: marchallObj(t, map[string]string{"report": "hi"}), wantCode: http.StatusNotFound,
		},
		{
			name: "teacher required", method: http.MethodPost, path: "/v1/students/2/daily-reports", token: tk.bob,
			body: marchallObj(t, map[string]string{"report": "I was great"}), wantCode: http.StatusForbidden,
		},
	})
	assert.Len(t, app.student(t, bob).DailyReports, 1)

	req, rec := newAuthRequest(http.MethodPost, "/v1/students/2/daily-reports", tk.chen, marchallObj(t, map[string]string{"report": "Much better focus today.", "mood": "happy"}))
	app.ServeHTTP(rec, req)
	s := app.student(t, bob)
	checkCodeAndData(t, httpTest{wantCode: http.StatusCreated, wantData: marchallObj(t, s)}, rec)
	require.Len(t, s.DailyReports, 2)
	assert.Equal(t, "Mr. David Chen", s.DailyReports[0].Teacher)
	assert.Equal(t, roster.MoodHappy, s.DailyReports[0].Mood)
}

func Test_rosterApi_teachers(t *testing.T) {
	app := setup(t)
	tk := newTokens(t, app)

	forbidden := marchallObj(t, httpErr{Error: "permission denied"})
	runHTTPTests(t, app, []httpTest{
		{
			name: "list", path: "/v1/teachers", token: tk.admin, wantCode: http.StatusOK,
			wantData: marchallObj(t, []roster.Teacher{app.teacher(t, reed), app.teacher(t, chen)}),
		},
		{name: "list: admin required", path: "/v1/teachers", token: tk.reed, wantCode: http.StatusForbidden, wantData: forbidden},
		{name: "retrieve self", path: "/v1/teachers/102", token: tk.chen, wantCode: http.StatusOK, wantData: marchallObj(t, app.teacher(t, chen))},
		{name: "retrieve other", path: "/v1/teachers/101", token: tk.chen, wantCode: http.StatusForbidden, wantData: forbidden},
		{name: "retrieve unknown", path: "/v1/teachers/999", token: tk.admin, wantCode: http.StatusNotFound},
		{
			name: "students", path: "/v1/teachers/102/students", token: tk.chen, wantCode: http.StatusOK,
			wantData: marchallObj(t, []roster.Student{app.student(t, bob), app.student(t, charlie)}),
		},
		{
			name: "update other", method: http.MethodPatch, path: "/v1/teachers/101", token: tk.chen,
			body: marchallObj(t, map[string]string{"office": "Arts-200"}), wantCode: http.StatusForbidden, wantData: forbidden,
		},
		{
			name: "create: admin required", method: http.MethodPost, path: "/v1/teachers", token: tk.chen,
			body: marchallObj(t, map[string]string{"name": "New", "email": "new@school.edu", "password": "pwd"}), wantCode: http.StatusForbidden,
		},
	})

	req, rec := newAuthRequest(http.MethodPatch, "/v1/teachers/102", tk.chen, marchallObj(t, map[string]string{"office": "Arts-200"}))
	app.ServeHTTP(rec, req)
	chenTeacher := app.teacher(t, chen)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, chenTeacher)}, rec)
	assert.Equal(t, "Arts-200", chenTeacher.Office)
	assert.Equal(t, "History & Literature", chenTeacher.Subject)

	req, rec = newAuthRequest(http.MethodPost, "/v1/teachers", tk.admin, marchallObj(t, map[string]string{
		"name": "Ms. Ada Byron", "email": "ada.b@school.edu", "password": "pwd", "subject": "Computing",
	}))
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	runHTTPTests(t, app, []httpTest{
		{name: "destroy", method: http.MethodDelete, path: "/v1/teachers/101", token: tk.admin, wantCode: http.StatusNoContent},
		{name: "destroyed", path: "/v1/teachers/101", token: tk.admin, wantCode: http.StatusNotFound},
	})
}

func Test_rosterApi_queryAnnouncements(t *testing.T) {
	app := setup(t)
	tk := newTokens(t, app)

	anns, err := app.svc.ListAnnouncements(context.Background())
	require.NoError(t, err)
	require.Len(t, anns, 2)

	runHTTPTests(t, app, []httpTest{
		{name: "Auth required", path: "/v1/announcements", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "any role", path: "/v1/announcements", token: tk.bob, wantCode: http.StatusOK, wantData: marchallObj(t, anns)},
	})
}

func Test_metrics(t *testing.T) {
	app := setup(t)
	tk := newTokens(t, app)

	req, rec := newAuthRequest(http.MethodGet, "/v1/students", tk.admin)
	app.ServeHTTP(rec, req)
	req, rec = newRequest(http.MethodPost, "/v1/login", marchallObj(t, LoginRequest{Email: "admin123", Password: "nope"}))
	app.ServeHTTP(rec, req)

	req, rec = newRequest(http.MethodGet, "/metrics")
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	out := string(body)
	assert.Contains(t, out, `campus_http_requests_total{code="200",method="GET",route="/v1/students"} 1`)
	assert.Contains(t, out, `campus_http_requests_total{code="400",method="POST",route="/v1/login"} 1`)
	assert.Contains(t, out, `campus_logins_total{result="failed"} 1`)
}
