package inmemdb

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"

	"github.com/darasahq/darasa/core/badge"
)

type badgeRepository struct {
	db *badgeTable
}

var _ badge.Repository = (*badgeRepository)(nil)

func NewBadgeRepository(db *DB) *badgeRepository {
	return &badgeRepository{db: db.badge}
}

// badgeKey mirrors the composite uniqueness on (user, kind, day),
// with a null day collapsing to 0.
func badgeKey(userID, kind string, day null.Int) string {
	return fmt.Sprintf("%s|%s|%d", userID, kind, day.Int)
}

func (repo *badgeRepository) CreateBadge(_ context.Context, b badge.Badge) (badge.Badge, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	key := badgeKey(b.UserID, b.Kind, b.Day)
	if _, ok := repo.db.keys[key]; ok {
		return badge.Badge{}, badge.ErrBadgeExists
	}

	b.ID = uuid.New().String()
	repo.db.keys[key] = struct{}{}
	repo.db.rows[b.UserID] = append(repo.db.rows[b.UserID], &b)
	return b, nil
}

func (repo *badgeRepository) QueryUserBadges(_ context.Context, userID string) ([]badge.Badge, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	badges := make([]badge.Badge, 0, len(repo.db.rows[userID]))
	for _, b := range repo.db.rows[userID] {
		badges = append(badges, *b)
	}
	return badges, nil
}

func (repo *badgeRepository) BadgeExists(_ context.Context, userID, kind string, day null.Int) (bool, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	_, ok := repo.db.keys[badgeKey(userID, kind, day)]
	return ok, nil
}
