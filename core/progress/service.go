package progress

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/badge"
	"github.com/darasahq/darasa/core/course"
)

// QuizMasterScore is the minimum quiz score that earns the quiz_master badge.
const QuizMasterScore = 70

type (
	Repository interface {
		GetDayProgress(ctx context.Context, userID string, day int) (DayProgress, error)
		// QueryUserProgress returns a user's records ordered by day.
		QueryUserProgress(ctx context.Context, userID string) ([]DayProgress, error)
		// CreateDayProgress persists p; returns ErrProgressExists when a
		// concurrent request already created the (user, day) record.
		CreateDayProgress(ctx context.Context, p DayProgress) (DayProgress, error)
		UpdateDayProgress(ctx context.Context, p DayProgress) (DayProgress, error)
	}

	// QuizResult is the outcome of a quiz submission.
	QuizResult struct {
		Progress DayProgress `json:"progress"`
		// CountedSection is false when the quiz id is not a defined
		// section for the day: the score is saved but does not count
		// toward day completion.
		CountedSection bool         `json:"counted_as_section"`
		Warning        string       `json:"warning,omitempty"`
		AwardedBadge   *badge.Badge `json:"awarded_badge,omitempty"`
	}

	Service interface {
		QueryByUser(ctx context.Context, userID string) ([]DayProgress, error)
		// Get returns the (user, day) record, or an empty unsaved
		// representation when none exists yet.
		Get(ctx context.Context, userID string, day int) (DayProgress, error)
		UpdateSection(ctx context.Context, userID string, day int, ev SectionEvent) (DayProgress, error)
		UpdateSlide(ctx context.Context, userID string, day int, ev SlideEvent) (DayProgress, error)
		SubmitQuiz(ctx context.Context, userID string, day int, sub QuizSubmission) (QuizResult, error)
		CompleteDay(ctx context.Context, userID string, day int) (DayProgress, error)
	}

	service struct {
		repo     Repository
		badgeSvc badge.Service
		logger   core.Logger
	}
)

// ErrProgressExists is returned by repositories when lazy creation races
// with a concurrent request for the same (user, day).
var ErrProgressExists = errors.New("progress record already exists")

var _ Service = (*service)(nil)

func NewService(repo Repository, badgeSvc badge.Service, logger core.Logger) Service {
	return &service{
		repo:     repo,
		badgeSvc: badgeSvc,
		logger:   logger,
	}
}

func (svc *service) QueryByUser(ctx context.Context, userID string) ([]DayProgress, error) {
	return svc.repo.QueryUserProgress(ctx, userID)
}

func (svc *service) Get(ctx context.Context, userID string, day int) (DayProgress, error) {
	if !course.ValidDay(day) {
		return DayProgress{}, ErrInvalidDay
	}
	p, err := svc.repo.GetDayProgress(ctx, userID, day)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return New(userID, day), nil
		}
		return DayProgress{}, errors.Wrap(err, "getting day progress")
	}
	return p, nil
}

// getOrCreate loads the (user, day) record, lazily creating an empty one on
// the first progress event. A lost create race falls back to the winner's row.
func (svc *service) getOrCreate(ctx context.Context, userID string, day int) (DayProgress, error) {
	p, err := svc.repo.GetDayProgress(ctx, userID, day)
	if err == nil {
		return p, nil
	}
	if errors.Cause(err) != ErrNotFound {
		return DayProgress{}, errors.Wrap(err, "getting day progress")
	}

	p, err = svc.repo.CreateDayProgress(ctx, New(userID, day))
	if err != nil {
		if errors.Cause(err) == ErrProgressExists {
			p, err = svc.repo.GetDayProgress(ctx, userID, day)
			return p, errors.Wrap(err, "re-getting day progress")
		}
		return DayProgress{}, errors.Wrap(err, "creating day progress")
	}
	return p, nil
}

func (svc *service) UpdateSection(ctx context.Context, userID string, day int, ev SectionEvent) (DayProgress, error) {
	if !course.ValidDay(day) {
		return DayProgress{}, ErrInvalidDay
	}
	if !course.HasSection(day, ev.SectionID) {
		return DayProgress{}, &InvalidSectionError{
			Day:       day,
			SectionID: ev.SectionID,
			ValidIDs:  course.SectionIDs(day),
		}
	}

	p, err := svc.getOrCreate(ctx, userID, day)
	if err != nil {
		return DayProgress{}, err
	}

	if *ev.Completed {
		p.AddSection(ev.SectionID)
	} else {
		p.RemoveSection(ev.SectionID)
	}
	p.UpdatedAt = time.Now().UTC()

	return svc.repo.UpdateDayProgress(ctx, p)
}

func (svc *service) UpdateSlide(ctx context.Context, userID string, day int, ev SlideEvent) (DayProgress, error) {
	if !course.ValidDay(day) {
		return DayProgress{}, ErrInvalidDay
	}

	// slide ids are free-form UI pagination markers; no validity check
	p, err := svc.getOrCreate(ctx, userID, day)
	if err != nil {
		return DayProgress{}, err
	}

	if *ev.Completed {
		p.AddSlide(ev.SlideID)
	} else {
		p.RemoveSlide(ev.SlideID)
	}
	p.UpdatedAt = time.Now().UTC()

	return svc.repo.UpdateDayProgress(ctx, p)
}

func (svc *service) SubmitQuiz(ctx context.Context, userID string, day int, sub QuizSubmission) (QuizResult, error) {
	if !course.ValidDay(day) {
		return QuizResult{}, ErrInvalidDay
	}

	p, err := svc.getOrCreate(ctx, userID, day)
	if err != nil {
		return QuizResult{}, err
	}

	score := *sub.Score
	p.QuizScores[sub.QuizID] = score // overwrites any prior score; no averaging, no history

	res := QuizResult{}
	if course.HasSection(day, sub.QuizID) {
		// quiz completion counts as section completion
		p.AddSection(sub.QuizID)
		res.CountedSection = true
	} else {
		res.Warning = fmt.Sprintf(
			"quiz %q is not a defined section for day %d; score saved but does not count toward completion",
			sub.QuizID, day)
	}
	p.UpdatedAt = time.Now().UTC()

	p, err = svc.repo.UpdateDayProgress(ctx, p)
	if err != nil {
		return QuizResult{}, err
	}
	res.Progress = p

	// badge issuance is best-effort; score recording is authoritative
	if score >= QuizMasterScore {
		b, created, err := svc.badgeSvc.AwardQuizMaster(ctx, userID)
		if err != nil {
			svc.logger.Error(fmt.Sprintf("awarding quiz_master badge: %v", err), err)
		} else if created {
			res.AwardedBadge = &b
		}
	}
	return res, nil
}

func (svc *service) CompleteDay(ctx context.Context, userID string, day int) (DayProgress, error) {
	if !course.ValidDay(day) {
		return DayProgress{}, ErrInvalidDay
	}

	p, err := svc.repo.GetDayProgress(ctx, userID, day)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return DayProgress{}, ErrNoProgressRecord
		}
		return DayProgress{}, errors.Wrap(err, "getting day progress")
	}

	required := course.SectionIDs(day)
	if missing := p.MissingSections(); len(missing) > 0 {
		return DayProgress{}, &IncompleteDayError{
			Day:       day,
			Missing:   missing,
			Completed: len(required) - len(missing),
			Total:     len(required),
		}
	}

	if !p.Completed {
		p.Completed = true
		p.CompletedAt = null.TimeFrom(time.Now().UTC())
		p.UpdatedAt = time.Now().UTC()
		if p, err = svc.repo.UpdateDayProgress(ctx, p); err != nil {
			return DayProgress{}, err
		}
	}

	// badge issuance is best-effort; completion is authoritative
	if _, _, err := svc.badgeSvc.AwardDayComplete(ctx, userID, day); err != nil {
		svc.logger.Error(fmt.Sprintf("awarding day_complete badge for day %d: %v", day, err), err)
	}
	return p, nil
}
