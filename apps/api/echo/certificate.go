package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core/certificate"
	"github.com/darasahq/darasa/core/user"
)

type certificateApi struct {
	svc     certificate.Service
	userSvc user.Service
}

func registerCertificateAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc certificate.Service, userSvc user.Service) {
	api := certificateApi{
		svc:     svc,
		userSvc: userSvc,
	}

	cg := g.Group("/certificate", jwt)
	cg.GET("", api.retrieve)
	cg.POST("", api.issue)
}

type CertificateResponse struct {
	Certificate certificate.Certificate `json:"certificate"`
	NewlyEarned bool                    `json:"newly_earned"`
}

func (api *certificateApi) retrieve(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	cert, err := api.svc.Get(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "getting certificate")
	}
	return ctx.JSON(http.StatusOK, cert)
}

func (api *certificateApi) issue(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	cert, newlyEarned, err := api.svc.Issue(ctx.Request().Context(), usr)
	if err != nil {
		return err
	}

	code := http.StatusOK
	if newlyEarned {
		code = http.StatusCreated
	}
	return ctx.JSON(code, CertificateResponse{Certificate: cert, NewlyEarned: newlyEarned})
}
