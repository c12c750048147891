package inmemdb

import (
	"context"

	"github.com/google/uuid"

	"github.com/darasahq/darasa/core/certificate"
)

type certificateRepository struct {
	db *certificateTable
}

var _ certificate.Repository = (*certificateRepository)(nil)

func NewCertificateRepository(db *DB) *certificateRepository {
	return &certificateRepository{db: db.certificate}
}

func certKey(userID, courseID string) string {
	return userID + "|" + courseID
}

func (repo *certificateRepository) GetCertificate(_ context.Context, userID, courseID string) (certificate.Certificate, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if c, ok := repo.db.rows[certKey(userID, courseID)]; ok {
		return *c, nil
	}
	return certificate.Certificate{}, certificate.ErrNotFound
}

func (repo *certificateRepository) CreateCertificate(_ context.Context, c certificate.Certificate) (certificate.Certificate, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	key := certKey(c.UserID, c.CourseID)
	if _, ok := repo.db.rows[key]; ok {
		return certificate.Certificate{}, certificate.ErrCertificateExists
	}

	c.ID = uuid.New().String()
	repo.db.rows[key] = &c
	return c, nil
}
