package echoapi

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/campus/core/roster"
	"github.com/trezcool/campus/core/user"
)

var objectContextKey = "object"

// roleMiddleware only lets through active Persons holding one of roles.
func roleMiddleware(svc *roster.Service, roles ...user.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			usr, err := getContextUser(ctx, svc)
			if err != nil {
				return err
			}
			for _, role := range roles {
				if usr.Role == role {
					return next(ctx)
				}
			}
			return errHttpForbidden
		}
	}
}

func paramID(ctx echo.Context) (int, error) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return 0, errHttpNotFound
	}
	return id, nil
}

// studentScopeMiddleware loads the student of the `:id` path param into the context, if the signed-in Person may see
// them: admins see every student, teachers the students they teach, students themselves.
// Any other student is reported as not found.
func studentScopeMiddleware(svc *roster.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			usr, err := getContextUser(ctx, svc)
			if err != nil {
				return err
			}
			id, err := paramID(ctx)
			if err != nil {
				return err
			}

			rctx := ctx.Request().Context()
			s, err := svc.GetStudentByID(rctx, id)
			if err != nil {
				if errors.Cause(err) == roster.ErrNotFound {
					return errHttpNotFound
				}
				return errors.Wrap(err, "getting student")
			}

			switch usr.Role {
			case user.RoleAdmin:
			case user.RoleStudent:
				if usr.ID != s.ID {
					return errHttpNotFound
				}
			case user.RoleTeacher:
				t, err := svc.GetTeacherByID(rctx, usr.ID)
				if err != nil {
					return errors.Wrap(err, "getting teacher")
				}
				if !roster.TaughtBy(s, t) {
					return errHttpNotFound
				}
			default:
				return errHttpForbidden
			}

			ctx.Set(objectContextKey, s)
			return next(ctx)
		}
	}
}

// teacherScopeMiddleware lets admins reach any teacher and teachers only themselves.
func teacherScopeMiddleware(svc *roster.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			usr, err := getContextUser(ctx, svc)
			if err != nil {
				return err
			}
			id, err := paramID(ctx)
			if err != nil {
				return err
			}
			if !(usr.IsAdmin() || (usr.IsTeacher() && usr.ID == id)) {
				return errHttpForbidden
			}

			t, err := svc.GetTeacherByID(ctx.Request().Context(), id)
			if err != nil {
				if errors.Cause(err) == roster.ErrNotFound {
					return errHttpNotFound
				}
				return errors.Wrap(err, "getting teacher")
			}
			ctx.Set(objectContextKey, t)
			return next(ctx)
		}
	}
}
