package badge

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"
)

var (
	// errors
	ErrBadgeExists = errors.New("badge already awarded")
	ErrUnknownKind = errors.New("unknown badge kind")
)

type (
	Repository interface {
		// CreateBadge persists b; returns ErrBadgeExists when the
		// (user, kind, day) composite is already held.
		CreateBadge(ctx context.Context, b Badge) (Badge, error)
		// QueryUserBadges returns a user's badges ordered by award time.
		QueryUserBadges(ctx context.Context, userID string) ([]Badge, error)
		BadgeExists(ctx context.Context, userID, kind string, day null.Int) (bool, error)
	}

	Service interface {
		QueryByUser(ctx context.Context, userID string) ([]Badge, error)
		// Award creates the badge if the user does not hold it yet and
		// reports whether it was newly created.
		Award(ctx context.Context, userID, kind string, day null.Int) (Badge, bool, error)
		AwardDayComplete(ctx context.Context, userID string, day int) (Badge, bool, error)
		AwardQuizMaster(ctx context.Context, userID string) (Badge, bool, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) QueryByUser(ctx context.Context, userID string) ([]Badge, error) {
	return svc.repo.QueryUserBadges(ctx, userID)
}

func (svc *service) Award(ctx context.Context, userID, kind string, day null.Int) (Badge, bool, error) {
	meta, ok := MetaFor(kind, day)
	if !ok {
		return Badge{}, false, ErrUnknownKind
	}

	// quiz_master is account-wide: its existence check ignores day everywhere
	if kind == KindQuizMaster {
		day = null.Int{}
	}

	exists, err := svc.repo.BadgeExists(ctx, userID, kind, day)
	if err != nil {
		return Badge{}, false, errors.Wrap(err, "checking badge existence")
	}
	if exists {
		return Badge{}, false, nil
	}

	b := Badge{
		UserID:      userID,
		Kind:        kind,
		Day:         day,
		Title:       meta.Title,
		Description: meta.Description,
		Icon:        meta.Icon,
		Color:       meta.Color,
		AwardedAt:   time.Now().UTC(),
	}
	b, err = svc.repo.CreateBadge(ctx, b)
	if err != nil {
		// a concurrent award beat us to the insert; the badge is held either way
		if errors.Cause(err) == ErrBadgeExists {
			return Badge{}, false, nil
		}
		return Badge{}, false, errors.Wrap(err, "creating badge")
	}
	return b, true, nil
}

func (svc *service) AwardDayComplete(ctx context.Context, userID string, day int) (Badge, bool, error) {
	return svc.Award(ctx, userID, KindDayComplete, null.IntFrom(day))
}

func (svc *service) AwardQuizMaster(ctx context.Context, userID string) (Badge, bool, error) {
	return svc.Award(ctx, userID, KindQuizMaster, null.Int{})
}
