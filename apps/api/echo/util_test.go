package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/roster"
	"github.com/trezcool/campus/core/user"
	logsvc "github.com/trezcool/campus/services/logger"
	"github.com/trezcool/campus/tests"
)

var (
	testConf = &core.Config{
		AppName:   "Campus",
		Env:       "TEST",
		TestMode:  true,
		SecretKey: "test-secret",
		Server: core.ServerConfig{
			JWTExpirationDelta: time.Hour,
			DisableReqLogs:     true,
		},
	}

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
)

// seed ids
const (
	alice   = 1
	bob     = 2
	charlie = 3
	reed    = 101
	chen    = 102
	admin   = 1001
)

type testApp struct {
	Server
	svc  *roster.Service
	repo roster.Repository
}

func setup(t *testing.T) testApp {
	repo := testutil.SeededRoster(t)
	translator := core.NewTranslator()
	validate := core.NewValidator(translator)
	roster.InitValidators(validate, translator)
	svc := roster.NewService(repo, validate, logsvc.NewNopLogger())

	srv := NewServer(ServerDeps{
		Conf:       testConf,
		Logger:     logsvc.NewNopLogger(),
		RosterSvc:  svc,
		Validate:   validate,
		Translator: translator,
	})
	return testApp{Server: srv, svc: svc, repo: repo}
}

func (app testApp) student(t *testing.T, id int) roster.Student {
	s, err := app.svc.GetStudentByID(context.Background(), id)
	if err != nil {
		t.Fatalf("student(%d): %v", id, err)
	}
	return s
}

func (app testApp) teacher(t *testing.T, id int) roster.Teacher {
	tchr, err := app.svc.GetTeacherByID(context.Background(), id)
	if err != nil {
		t.Fatalf("teacher(%d): %v", id, err)
	}
	return tchr
}

func (app testApp) account(t *testing.T, id int, role user.Role) user.User {
	usr, err := app.svc.GetAccount(context.Background(), id, role)
	if err != nil {
		t.Fatalf("account(%d): %v", id, err)
	}
	return usr
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, usr user.User) string {
	token, err := GenerateToken(GetUserClaims(usr, testConf), testConf)
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func runHTTPTests(t *testing.T, app testApp, tests []httpTest) {
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method := tt.method
			if method == "" {
				method = http.MethodGet
			}
			req, rec := newAuthRequest(method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
