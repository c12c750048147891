package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/darasahq/darasa/core/progress"
)

type dayProgressRow struct {
	UserID            string         `db:"user_id"`
	Day               int            `db:"day"`
	CompletedSections pq.StringArray `db:"completed_sections"`
	CompletedSlides   pq.StringArray `db:"completed_slides"`
	QuizScores        types.JSONText `db:"quiz_scores"`
	Completed         bool           `db:"completed"`
	CompletedAt       null.Time      `db:"completed_at"`
	CreatedAt         null.Time      `db:"created_at"`
	UpdatedAt         null.Time      `db:"updated_at"`
}

type progressRepository struct {
	db *sqlx.DB
}

var _ progress.Repository = (*progressRepository)(nil) // interface compliance check

func NewProgressRepository(db *sqlx.DB) *progressRepository {
	return &progressRepository{db: db}
}

func (repo progressRepository) pack(p progress.DayProgress) (dayProgressRow, error) {
	scores, err := json.Marshal(p.QuizScores)
	if err != nil {
		return dayProgressRow{}, errors.Wrap(err, "marshalling quiz scores")
	}
	return dayProgressRow{
		UserID:            p.UserID,
		Day:               p.Day,
		CompletedSections: pq.StringArray(p.CompletedSections),
		CompletedSlides:   pq.StringArray(p.CompletedSlides),
		QuizScores:        scores,
		Completed:         p.Completed,
		CompletedAt:       p.CompletedAt,
		CreatedAt:         null.NewTime(p.CreatedAt.UTC(), !p.CreatedAt.IsZero()),
		UpdatedAt:         null.NewTime(p.UpdatedAt.UTC(), !p.UpdatedAt.IsZero()),
	}, nil
}

func (repo progressRepository) unpack(row dayProgressRow) (progress.DayProgress, error) {
	scores := map[string]int{}
	if len(row.QuizScores) > 0 {
		if err := json.Unmarshal(row.QuizScores, &scores); err != nil {
			return progress.DayProgress{}, errors.Wrap(err, "unmarshalling quiz scores")
		}
	}
	return progress.DayProgress{
		UserID:            row.UserID,
		Day:               row.Day,
		CompletedSections: []string(row.CompletedSections),
		CompletedSlides:   []string(row.CompletedSlides),
		QuizScores:        scores,
		Completed:         row.Completed,
		CompletedAt:       row.CompletedAt,
		CreatedAt:         row.CreatedAt.Time,
		UpdatedAt:         row.UpdatedAt.Time,
	}, nil
}

func (repo progressRepository) GetDayProgress(ctx context.Context, userID string, day int) (progress.DayProgress, error) {
	var row dayProgressRow
	err := repo.db.GetContext(ctx, &row,
		`SELECT * FROM day_progress WHERE user_id = $1 AND day = $2`, userID, day)
	if err != nil {
		if err == sql.ErrNoRows {
			return progress.DayProgress{}, progress.ErrNotFound
		}
		return progress.DayProgress{}, errors.Wrap(err, "finding day progress")
	}
	return repo.unpack(row)
}

func (repo progressRepository) QueryUserProgress(ctx context.Context, userID string) ([]progress.DayProgress, error) {
	var rows []dayProgressRow
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT * FROM day_progress WHERE user_id = $1 ORDER BY day`, userID)
	if err != nil {
		return nil, errors.Wrap(err, "querying user progress")
	}

	records := make([]progress.DayProgress, 0, len(rows))
	for _, row := range rows {
		p, err := repo.unpack(row)
		if err != nil {
			return nil, err
		}
		records = append(records, p)
	}
	return records, nil
}

func (repo progressRepository) CreateDayProgress(ctx context.Context, p progress.DayProgress) (progress.DayProgress, error) {
	row, err := repo.pack(p)
	if err != nil {
		return progress.DayProgress{}, err
	}
	_, err = repo.db.NamedExecContext(ctx, `
		INSERT INTO day_progress (user_id, day, completed_sections, completed_slides, quiz_scores, completed, completed_at, created_at, updated_at)
		VALUES (:user_id, :day, :completed_sections, :completed_slides, :quiz_scores, :completed, :completed_at, :created_at, :updated_at)`,
		row)
	if err != nil {
		if isUniqueViolation(err) {
			return progress.DayProgress{}, progress.ErrProgressExists
		}
		return progress.DayProgress{}, errors.Wrap(err, "inserting day progress")
	}
	return p, nil
}

func (repo progressRepository) UpdateDayProgress(ctx context.Context, p progress.DayProgress) (progress.DayProgress, error) {
	row, err := repo.pack(p)
	if err != nil {
		return progress.DayProgress{}, err
	}
	res, err := repo.db.NamedExecContext(ctx, `
		UPDATE day_progress
		SET completed_sections = :completed_sections, completed_slides = :completed_slides,
		    quiz_scores = :quiz_scores, completed = :completed, completed_at = :completed_at,
		    updated_at = :updated_at
		WHERE user_id = :user_id AND day = :day`,
		row)
	if err != nil {
		return progress.DayProgress{}, errors.Wrap(err, "updating day progress")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return progress.DayProgress{}, progress.ErrNotFound
	}
	return p, nil
}
