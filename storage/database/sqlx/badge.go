package sqlxrepos

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/darasahq/darasa/core/badge"
)

type badgeRow struct {
	ID          string      `db:"id"`
	UserID      string      `db:"user_id"`
	Kind        string      `db:"kind"`
	Day         null.Int    `db:"day"`
	Title       null.String `db:"title"`
	Description null.String `db:"description"`
	Icon        null.String `db:"icon"`
	Color       null.String `db:"color"`
	AwardedAt   null.Time   `db:"awarded_at"`
}

type badgeRepository struct {
	db *sqlx.DB
}

var _ badge.Repository = (*badgeRepository)(nil) // interface compliance check

func NewBadgeRepository(db *sqlx.DB) *badgeRepository {
	return &badgeRepository{db: db}
}

func (repo badgeRepository) unpack(row badgeRow) badge.Badge {
	return badge.Badge{
		ID:          row.ID,
		UserID:      row.UserID,
		Kind:        row.Kind,
		Day:         row.Day,
		Title:       row.Title.String,
		Description: row.Description.String,
		Icon:        row.Icon.String,
		Color:       row.Color.String,
		AwardedAt:   row.AwardedAt.Time,
	}
}

func (repo badgeRepository) CreateBadge(ctx context.Context, b badge.Badge) (badge.Badge, error) {
	b.ID = uuid.New().String()
	row := badgeRow{
		ID:          b.ID,
		UserID:      b.UserID,
		Kind:        b.Kind,
		Day:         b.Day,
		Title:       null.NewString(b.Title, b.Title != ""),
		Description: null.NewString(b.Description, b.Description != ""),
		Icon:        null.NewString(b.Icon, b.Icon != ""),
		Color:       null.NewString(b.Color, b.Color != ""),
		AwardedAt:   null.NewTime(b.AwardedAt.UTC(), !b.AwardedAt.IsZero()),
	}
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO badge (id, user_id, kind, day, title, description, icon, color, awarded_at)
		VALUES (:id, :user_id, :kind, :day, :title, :description, :icon, :color, :awarded_at)`,
		row)
	if err != nil {
		if isUniqueViolation(err) {
			return badge.Badge{}, badge.ErrBadgeExists
		}
		return badge.Badge{}, errors.Wrap(err, "inserting badge")
	}
	return b, nil
}

func (repo badgeRepository) QueryUserBadges(ctx context.Context, userID string) ([]badge.Badge, error) {
	var rows []badgeRow
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT * FROM badge WHERE user_id = $1 ORDER BY awarded_at`, userID)
	if err != nil {
		return nil, errors.Wrap(err, "querying user badges")
	}

	badges := make([]badge.Badge, 0, len(rows))
	for _, row := range rows {
		badges = append(badges, repo.unpack(row))
	}
	return badges, nil
}

func (repo badgeRepository) BadgeExists(ctx context.Context, userID, kind string, day null.Int) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM badge WHERE user_id = $1 AND kind = $2`
	args := []interface{}{userID, kind}
	if day.Valid {
		query += ` AND day = $3`
		args = append(args, day.Int)
	} else {
		query += ` AND day IS NULL`
	}
	query += `)`

	var exists bool
	if err := repo.db.GetContext(ctx, &exists, query, args...); err != nil {
		return false, errors.Wrap(err, "checking badge existence")
	}
	return exists, nil
}
