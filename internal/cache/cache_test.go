package cache

import (
	"context"
	"testing"

	"code_practice_backend/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestCountKey(t *testing.T) {
	assert.Equal(t, "practice:mistakes:42:counts", countKey(42))
}

func TestMistakeCountCacheWithoutRedis(t *testing.T) {
	c := NewMistakeCountCache(nil, 0)
	ctx := context.Background()

	c.Set(ctx, 1, map[model.MasteryStatus]int64{model.MasteryPending: 2})
	_, ok := c.Get(ctx, 1)
	assert.False(t, ok)
	c.Invalidate(ctx, 1, 2)

	var nilCache *MistakeCountCache
	_, ok = nilCache.Get(ctx, 1)
	assert.False(t, ok)
}

func TestMasteryPublisherWithoutRedis(t *testing.T) {
	p := NewMasteryPublisher(nil, NewMistakeCountCache(nil, 0))
	assert.NotPanics(t, func() {
		p.NotifyMastery(context.Background(), []model.MasteryEvent{
			{StudentID: 1, QuestionID: 2, Change: model.LedgerCreated, Status: model.MasteryPending},
		})
	})
}
