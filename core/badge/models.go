package badge

import (
	"fmt"
	"time"

	"github.com/volatiletech/null/v8"
)

// Badge kinds
const (
	KindDayComplete = "day_complete" // parameterized by day
	KindQuizMaster  = "quiz_master"  // account-wide, awarded once
)

type Badge struct {
	ID          string    `json:"id"`
	UserID      string    `json:"-"`
	Kind        string    `json:"kind"`
	Day         null.Int  `json:"day,omitempty"` // set for day_complete only
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Color       string    `json:"color"`
	AwardedAt   time.Time `json:"awarded_at"` // UTC
}

// Meta is the fixed descriptive metadata attached to an awarded badge.
type Meta struct {
	Title       string
	Description string
	Icon        string
	Color       string
}

func dayCompleteMeta(day int) Meta {
	return Meta{
		Title:       fmt.Sprintf("Day %d Complete", day),
		Description: fmt.Sprintf("Finished every section of day %d", day),
		Icon:        "calendar-check",
		Color:       "#38A169",
	}
}

var quizMasterMeta = Meta{
	Title:       "Quiz Master",
	Description: "Scored 70% or higher on a course quiz",
	Icon:        "award",
	Color:       "#D69E2E",
}

// MetaFor returns the fixed metadata for a badge kind; day is only
// consulted for day_complete.
func MetaFor(kind string, day null.Int) (Meta, bool) {
	switch kind {
	case KindDayComplete:
		if !day.Valid {
			return Meta{}, false
		}
		return dayCompleteMeta(day.Int), true
	case KindQuizMaster:
		return quizMasterMeta, true
	}
	return Meta{}, false
}
