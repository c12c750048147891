package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core/badge"
)

type badgeApi struct {
	svc badge.Service
}

func registerBadgeAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc badge.Service) {
	api := badgeApi{svc: svc}

	bg := g.Group("/badges", jwt)
	bg.GET("", api.query)
}

func (api *badgeApi) query(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	badges, err := api.svc.QueryByUser(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "querying badges")
	}
	if badges == nil {
		badges = []badge.Badge{}
	}
	return ctx.JSON(http.StatusOK, badges)
}
