package progress

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/course"
)

var (
	// errors
	ErrNotFound         = errors.New("progress not found")
	ErrInvalidDay       = errors.Errorf("day must be an integer between 1 and %d", course.TotalDays)
	ErrNoProgressRecord = errors.New("no progress recorded for this day yet")
)

// InvalidSectionError reports a section id that is not defined for a day,
// along with the day's valid set.
type InvalidSectionError struct {
	Day       int      `json:"day"`
	SectionID string   `json:"section_id"`
	ValidIDs  []string `json:"valid_sections"`
}

func (e *InvalidSectionError) Error() string {
	return fmt.Sprintf("section %q is not defined for day %d (valid: %s)",
		e.SectionID, e.Day, strings.Join(e.ValidIDs, ", "))
}

// IncompleteDayError reports which required sections are still missing
// when a day-completion attempt is rejected.
type IncompleteDayError struct {
	Day       int      `json:"day"`
	Missing   []string `json:"missing_sections"`
	Completed int      `json:"completed_count"`
	Total     int      `json:"total_count"`
}

func (e *IncompleteDayError) Error() string {
	return fmt.Sprintf("day %d is not complete: %d of %d required sections done, missing %s",
		e.Day, e.Completed, e.Total, strings.Join(e.Missing, ", "))
}

// DayProgress is the per-(user, day) progress record. Section and slide
// sets are unordered and deduplicated; quiz scores are keyed by quiz id.
type DayProgress struct {
	UserID            string         `json:"-"`
	Day               int            `json:"day"`
	CompletedSections []string       `json:"completed_sections"`
	CompletedSlides   []string       `json:"completed_slides"`
	QuizScores        map[string]int `json:"quiz_scores"`
	Completed         bool           `json:"completed"`
	CompletedAt       null.Time      `json:"completed_at"`
	CreatedAt         time.Time      `json:"created_at"` // UTC
	UpdatedAt         time.Time      `json:"updated_at"` // UTC
}

// New returns an empty record for a (user, day) pair, created lazily on
// the first progress event.
func New(userID string, day int) DayProgress {
	now := time.Now().UTC()
	return DayProgress{
		UserID:            userID,
		Day:               day,
		CompletedSections: []string{},
		CompletedSlides:   []string{},
		QuizScores:        map[string]int{},
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

func (p DayProgress) HasSection(id string) bool { return contains(p.CompletedSections, id) }
func (p DayProgress) HasSlide(id string) bool   { return contains(p.CompletedSlides, id) }

// AddSection adds id to the completed set; adding twice has no further effect.
func (p *DayProgress) AddSection(id string) {
	if !p.HasSection(id) {
		p.CompletedSections = append(p.CompletedSections, id)
	}
}

// RemoveSection removes id if present; removing twice has no further effect.
func (p *DayProgress) RemoveSection(id string) {
	p.CompletedSections = remove(p.CompletedSections, id)
}

func (p *DayProgress) AddSlide(id string) {
	if !p.HasSlide(id) {
		p.CompletedSlides = append(p.CompletedSlides, id)
	}
}

func (p *DayProgress) RemoveSlide(id string) {
	p.CompletedSlides = remove(p.CompletedSlides, id)
}

// MissingSections returns the day's required section ids absent from the
// completed set, in course order.
func (p DayProgress) MissingSections() []string {
	var missing []string
	for _, id := range course.SectionIDs(p.Day) {
		if !p.HasSection(id) {
			missing = append(missing, id)
		}
	}
	return missing
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func remove(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// SectionEvent is a single section completion/uncompletion event.
type SectionEvent struct {
	SectionID string `json:"section_id" validate:"required"`
	Completed *bool  `json:"completed" validate:"required"`
}

func (ev *SectionEvent) Validate(validate *validator.Validate) error {
	ev.SectionID = core.CleanString(ev.SectionID, true /* lower */)
	return validate.Struct(ev)
}

// SlideEvent marks a free-form UI slide as seen/unseen. Slide ids are
// pagination markers, not graded units, and are never validated against
// the course definition.
type SlideEvent struct {
	SlideID   string `json:"slide_id" validate:"required"`
	Completed *bool  `json:"completed" validate:"required"`
}

func (ev *SlideEvent) Validate(validate *validator.Validate) error {
	ev.SlideID = core.CleanString(ev.SlideID, true /* lower */)
	return validate.Struct(ev)
}

// QuizSubmission records a quiz score (0-100).
type QuizSubmission struct {
	QuizID string `json:"quiz_id" validate:"required"`
	Score  *int   `json:"score" validate:"required,min=0,max=100"`
}

func (qs *QuizSubmission) Validate(validate *validator.Validate) error {
	qs.QuizID = core.CleanString(qs.QuizID, true /* lower */)
	return validate.Struct(qs)
}
