package certificate

import (
	"fmt"
	"time"
)

type Certificate struct {
	ID           string    `json:"id"`
	UserID       string    `json:"-"`
	CourseID     string    `json:"course_id"`
	StudentName  string    `json:"student_name"`
	CourseTitle  string    `json:"course_title"`
	IssuedOn     string    `json:"issued_on"` // human-readable issue date
	OverallScore int       `json:"overall_score"`
	TotalDays    int       `json:"total_days"`
	CreatedAt    time.Time `json:"created_at"` // UTC
}

// IncompleteCourseError reports which days still block certificate issuance.
type IncompleteCourseError struct {
	MissingDays []int `json:"missing_days"`
	Satisfied   int   `json:"satisfied_days"`
	Total       int   `json:"total_days"`
}

func (e *IncompleteCourseError) Error() string {
	return fmt.Sprintf("course is not complete: %d of %d days done, missing days %v",
		e.Satisfied, e.Total, e.MissingDays)
}
