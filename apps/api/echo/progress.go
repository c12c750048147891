package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core/progress"
)

type progressApi struct {
	svc      progress.Service
	validate *validator.Validate
}

func registerProgressAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc progress.Service, validate *validator.Validate) {
	api := progressApi{
		svc:      svc,
		validate: validate,
	}

	pg := g.Group("/progress", jwt)
	pg.GET("", api.query)
	pg.GET("/:day", api.retrieve)
	pg.PUT("/:day/sections", api.updateSection)
	pg.PUT("/:day/slides", api.updateSlide)
	pg.POST("/:day/quizzes", api.submitQuiz)
	pg.POST("/:day/complete", api.completeDay)
}

// dayParam parses the :day path segment; any non-integer is reported the
// same way as an out-of-range day.
func dayParam(ctx echo.Context) (int, error) {
	day, err := strconv.Atoi(ctx.Param("day"))
	if err != nil {
		return 0, progress.ErrInvalidDay
	}
	return day, nil
}

// Handlers

func (api *progressApi) query(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	records, err := api.svc.QueryByUser(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "querying progress")
	}
	if records == nil {
		records = []progress.DayProgress{}
	}
	return ctx.JSON(http.StatusOK, records)
}

func (api *progressApi) retrieve(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	day, err := dayParam(ctx)
	if err != nil {
		return err
	}

	p, err := api.svc.Get(ctx.Request().Context(), claims.Subject, day)
	if err != nil {
		return errors.Wrap(err, "getting day progress")
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *progressApi) updateSection(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	day, err := dayParam(ctx)
	if err != nil {
		return err
	}

	var data progress.SectionEvent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SectionEvent")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	p, err := api.svc.UpdateSection(ctx.Request().Context(), claims.Subject, day, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *progressApi) updateSlide(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	day, err := dayParam(ctx)
	if err != nil {
		return err
	}

	var data progress.SlideEvent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SlideEvent")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	p, err := api.svc.UpdateSlide(ctx.Request().Context(), claims.Subject, day, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *progressApi) submitQuiz(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	day, err := dayParam(ctx)
	if err != nil {
		return err
	}

	var data progress.QuizSubmission
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to QuizSubmission")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	res, err := api.svc.SubmitQuiz(ctx.Request().Context(), claims.Subject, day, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *progressApi) completeDay(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	day, err := dayParam(ctx)
	if err != nil {
		return err
	}

	p, err := api.svc.CompleteDay(ctx.Request().Context(), claims.Subject, day)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, p)
}
