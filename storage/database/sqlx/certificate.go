package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/darasahq/darasa/core/certificate"
)

type certificateRow struct {
	ID           string    `db:"id"`
	UserID       string    `db:"user_id"`
	CourseID     string    `db:"course_id"`
	StudentName  string    `db:"student_name"`
	CourseTitle  string    `db:"course_title"`
	IssuedOn     string    `db:"issued_on"`
	OverallScore int       `db:"overall_score"`
	TotalDays    int       `db:"total_days"`
	CreatedAt    null.Time `db:"created_at"`
}

type certificateRepository struct {
	db *sqlx.DB
}

var _ certificate.Repository = (*certificateRepository)(nil) // interface compliance check

func NewCertificateRepository(db *sqlx.DB) *certificateRepository {
	return &certificateRepository{db: db}
}

func (repo certificateRepository) unpack(row certificateRow) certificate.Certificate {
	return certificate.Certificate{
		ID:           row.ID,
		UserID:       row.UserID,
		CourseID:     row.CourseID,
		StudentName:  row.StudentName,
		CourseTitle:  row.CourseTitle,
		IssuedOn:     row.IssuedOn,
		OverallScore: row.OverallScore,
		TotalDays:    row.TotalDays,
		CreatedAt:    row.CreatedAt.Time,
	}
}

func (repo certificateRepository) GetCertificate(ctx context.Context, userID, courseID string) (certificate.Certificate, error) {
	var row certificateRow
	err := repo.db.GetContext(ctx, &row,
		`SELECT * FROM certificate WHERE user_id = $1 AND course_id = $2`, userID, courseID)
	if err != nil {
		if err == sql.ErrNoRows {
			return certificate.Certificate{}, certificate.ErrNotFound
		}
		return certificate.Certificate{}, errors.Wrap(err, "finding certificate")
	}
	return repo.unpack(row), nil
}

func (repo certificateRepository) CreateCertificate(ctx context.Context, c certificate.Certificate) (certificate.Certificate, error) {
	c.ID = uuid.New().String()
	row := certificateRow{
		ID:           c.ID,
		UserID:       c.UserID,
		CourseID:     c.CourseID,
		StudentName:  c.StudentName,
		CourseTitle:  c.CourseTitle,
		IssuedOn:     c.IssuedOn,
		OverallScore: c.OverallScore,
		TotalDays:    c.TotalDays,
		CreatedAt:    null.NewTime(c.CreatedAt.UTC(), !c.CreatedAt.IsZero()),
	}
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO certificate (id, user_id, course_id, student_name, course_title, issued_on, overall_score, total_days, created_at)
		VALUES (:id, :user_id, :course_id, :student_name, :course_title, :issued_on, :overall_score, :total_days, :created_at)`,
		row)
	if err != nil {
		if isUniqueViolation(err) {
			return certificate.Certificate{}, certificate.ErrCertificateExists
		}
		return certificate.Certificate{}, errors.Wrap(err, "inserting certificate")
	}
	return c, nil
}
