package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/darasahq/darasa/core/course"
)

// the course definition is static content; no auth required
func registerCourseAPI(g *echo.Group) {
	cg := g.Group("/course")
	cg.GET("/days", queryDays)
}

type CourseResponse struct {
	CourseID  string       `json:"course_id"`
	Title     string       `json:"title"`
	TotalDays int          `json:"total_days"`
	Days      []course.Day `json:"days"`
}

func queryDays(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, CourseResponse{
		CourseID:  course.ID,
		Title:     course.Title,
		TotalDays: course.TotalDays,
		Days:      course.Days,
	})
}
