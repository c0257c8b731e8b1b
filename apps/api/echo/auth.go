package echoapi

import (
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/roster"
	"github.com/trezcool/campus/core/user"
)

var (
	tokenContextKey = "userToken"
	contextUserKey  = "user"
)

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	UserID int       `json:"uid"`
	Name   string    `json:"name,omitempty"`
	Email  string    `json:"email,omitempty"`
	Role   user.Role `json:"role"` // -> STUDENT | TEACHER | ADMIN PORTAL
}

func newJWTConfig(conf *core.Config) middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    []byte(conf.SecretKey),
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    tokenContextKey,
		Claims:        new(Claims),
	}
}

func GetUserClaims(usr user.User, conf *core.Config) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    conf.AppName,
			Audience:  "Campus",
			ExpiresAt: now.Add(conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		UserID: usr.ID,
		Name:   usr.Name,
		Email:  usr.Email,
		Role:   usr.Role,
	}
}

// GenerateToken generates a signed JWT token string representing the user Claims.
func GenerateToken(claims *Claims, conf *core.Config) (string, error) {
	method := jwt.GetSigningMethod(middleware.AlgorithmHS256)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString([]byte(conf.SecretKey))
	if err != nil {
		return "", errors.New("signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(tokenContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok && claims.Role.Valid() {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

// getContextUser returns the signed-in Person. Accounts removed or suspended since the token was issued are rejected.
func getContextUser(ctx echo.Context, svc *roster.Service) (user.User, error) {
	if usr, ok := ctx.Get(contextUserKey).(user.User); ok {
		return usr, nil
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return user.User{}, errors.Wrap(err, "getting context claims")
	}
	usr, err := svc.GetAccount(ctx.Request().Context(), claims.UserID, claims.Role)
	if err != nil {
		if errors.Cause(err) == roster.ErrNotFound {
			return user.User{}, errUnauthorized
		}
		return user.User{}, errors.Wrap(err, "finding account")
	}
	if !usr.IsActive() {
		return user.User{}, errAccountSuspended
	}
	ctx.Set(contextUserKey, usr)
	return usr, nil
}

type (
	LoginRequest struct {
		Email    string `json:"email" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string    `json:"token"`
		User  user.User `json:"user"`
	}
)

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Email = core.CleanString(lr.Email, true /* lower */)
	return validate.Struct(lr)
}

func (api *rosterApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	usr, err := api.svc.Authenticate(ctx.Request().Context(), data.Email, data.Password)
	if err != nil {
		api.metrics.login(errors.Cause(err))
		return err
	}
	api.metrics.login(nil)

	token, err := GenerateToken(GetUserClaims(usr, api.conf), api.conf)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token, User: usr})
}

func (api *rosterApi) me(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.svc)
	if err != nil {
		return err
	}
	switch usr.Role {
	case user.RoleStudent:
		s, err := api.svc.GetStudentByID(ctx.Request().Context(), usr.ID)
		if err != nil {
			return errors.Wrap(err, "getting student")
		}
		return ctx.JSON(http.StatusOK, s)
	case user.RoleTeacher:
		t, err := api.svc.GetTeacherByID(ctx.Request().Context(), usr.ID)
		if err != nil {
			return errors.Wrap(err, "getting teacher")
		}
		return ctx.JSON(http.StatusOK, t)
	default:
		return ctx.JSON(http.StatusOK, usr)
	}
}
