package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trainingorg/quizdesk/internal/common"
	"trainingorg/quizdesk/internal/constants"
	gormModels "trainingorg/quizdesk/internal/models/gorm"
)

func TestStatsService_CachesUntilRefresh(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	cache := common.NewCacheService(time.Minute, time.Minute)
	svc := NewStatsService(db, cache, nil)

	seedMember(t, db, "M1", "One", nil)
	seedLevel(t, db, 1, "A1")
	require.NoError(t, db.Create(&gormModels.Evaluation{MemberID: 1, Status: constants.EvaluationPending}).Error)

	stats, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Members)
	assert.Equal(t, int64(1), stats.QuizLevels)
	assert.Equal(t, int64(1), stats.PendingEvaluations)

	seedMember(t, db, "M2", "Two", nil)
	cached, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), cached.Members)

	require.NoError(t, svc.Refresh(ctx))
	fresh, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), fresh.Members)
}

func TestQuizLevelService_CacheInvalidatedOnWrite(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	svc := NewQuizLevelService(db, common.NewCacheService(time.Minute, time.Minute), nil)

	levels, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, levels)

	created, err := svc.Create(ctx, dtosLevel("A1"))
	require.NoError(t, err)

	levels, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, levels, 1)

	_, err = svc.Create(ctx, dtosLevel("A1"))
	assert.ErrorIs(t, err, ErrConflict)

	member := seedMember(t, db, "M1", "One", nil)
	require.NoError(t, db.Model(member).Update("level_id", created.ID).Error)

	require.NoError(t, svc.Delete(ctx, created.ID))
	levels, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, levels)

	var m gormModels.Member
	require.NoError(t, db.First(&m, member.ID).Error)
	assert.Nil(t, m.LevelID)
}
