package badge_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/darasahq/darasa/core/badge"
	inmemdb "github.com/darasahq/darasa/storage/database/inmem"
)

func setup(t *testing.T) badge.Service {
	db, err := inmemdb.Open()
	require.NoError(t, err)
	return badge.NewService(inmemdb.NewBadgeRepository(db))
}

func TestService_Award(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	b, created, err := svc.AwardDayComplete(ctx, "u1", 3)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, badge.KindDayComplete, b.Kind)
	assert.Equal(t, null.IntFrom(3), b.Day)
	assert.Equal(t, "Day 3 Complete", b.Title)
	assert.NotEmpty(t, b.Icon)
	assert.NotEmpty(t, b.Color)

	// same (kind, day) again: held, not re-created
	_, created, err = svc.AwardDayComplete(ctx, "u1", 3)
	require.NoError(t, err)
	assert.False(t, created)

	// a different day is a different badge
	_, created, err = svc.AwardDayComplete(ctx, "u1", 4)
	require.NoError(t, err)
	assert.True(t, created)

	_, _, err = svc.Award(ctx, "u1", "super_star", null.Int{})
	assert.Equal(t, badge.ErrUnknownKind, err)
}

func TestService_AwardQuizMaster_once(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	b, created, err := svc.AwardQuizMaster(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, created)
	assert.False(t, b.Day.Valid)

	_, created, err = svc.AwardQuizMaster(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, created)

	// a day smuggled into Award is ignored for quiz_master
	_, created, err = svc.Award(ctx, "u1", badge.KindQuizMaster, null.IntFrom(2))
	require.NoError(t, err)
	assert.False(t, created)

	badges, err := svc.QueryByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, badges, 1)
}

func TestService_Award_concurrent(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	createdCount := make(chan bool, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, created, err := svc.AwardQuizMaster(ctx, "u1")
			assert.NoError(t, err)
			createdCount <- created
		}()
	}
	wg.Wait()
	close(createdCount)

	var total int
	for created := range createdCount {
		if created {
			total++
		}
	}
	assert.Equal(t, 1, total)

	badges, err := svc.QueryByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, badges, 1)
}
