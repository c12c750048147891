package inmemdb

import (
	"context"
	"sort"

	"github.com/darasahq/darasa/core/progress"
)

type progressRepository struct {
	db *progressTable
}

var _ progress.Repository = (*progressRepository)(nil)

func NewProgressRepository(db *DB) *progressRepository {
	return &progressRepository{db: db.progress}
}

// copyProgress detaches slice and map internals so callers can mutate
// their copy without reaching into the table.
func copyProgress(p *progress.DayProgress) progress.DayProgress {
	cp := *p
	cp.CompletedSections = append([]string(nil), p.CompletedSections...)
	cp.CompletedSlides = append([]string(nil), p.CompletedSlides...)
	cp.QuizScores = make(map[string]int, len(p.QuizScores))
	for k, v := range p.QuizScores {
		cp.QuizScores[k] = v
	}
	return cp
}

func (repo *progressRepository) GetDayProgress(_ context.Context, userID string, day int) (progress.DayProgress, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if p, ok := repo.db.rows[userID][day]; ok {
		return copyProgress(p), nil
	}
	return progress.DayProgress{}, progress.ErrNotFound
}

func (repo *progressRepository) QueryUserProgress(_ context.Context, userID string) ([]progress.DayProgress, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	records := make([]progress.DayProgress, 0, len(repo.db.rows[userID]))
	for _, p := range repo.db.rows[userID] {
		records = append(records, copyProgress(p))
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Day < records[j].Day })
	return records, nil
}

func (repo *progressRepository) CreateDayProgress(_ context.Context, p progress.DayProgress) (progress.DayProgress, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.rows[p.UserID][p.Day]; ok {
		return progress.DayProgress{}, progress.ErrProgressExists
	}
	if repo.db.rows[p.UserID] == nil {
		repo.db.rows[p.UserID] = make(map[int]*progress.DayProgress)
	}
	cp := copyProgress(&p)
	repo.db.rows[p.UserID][p.Day] = &cp
	return p, nil
}

func (repo *progressRepository) UpdateDayProgress(_ context.Context, p progress.DayProgress) (progress.DayProgress, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.rows[p.UserID][p.Day]; !ok {
		return progress.DayProgress{}, progress.ErrNotFound
	}
	cp := copyProgress(&p)
	repo.db.rows[p.UserID][p.Day] = &cp
	return p, nil
}
