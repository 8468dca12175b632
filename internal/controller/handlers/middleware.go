package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/codingships/honestSpanish-sub001/internal/model"
	"github.com/codingships/honestSpanish-sub001/internal/service"
)

const (
	headerUserID   = "X-User-ID"
	headerUserRole = "X-User-Role"

	actorContextKey = "actor"
)

// identityMiddleware reads the acting user from the identity collaborator's
// headers. The core trusts these values; authentication happens upstream.
func identityMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		userID, err := strconv.ParseInt(ctx.Request().Header.Get(headerUserID), 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid "+headerUserID)
		}

		role := model.Role(ctx.Request().Header.Get(headerUserRole))
		switch role {
		case model.RoleStudent, model.RoleTeacher, model.RoleAdmin:
		default:
			return echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid "+headerUserRole)
		}

		ctx.Set(actorContextKey, service.Actor{ID: userID, Role: role})
		return next(ctx)
	}
}

func getActor(ctx echo.Context) service.Actor {
	actor, _ := ctx.Get(actorContextKey).(service.Actor)
	return actor
}
