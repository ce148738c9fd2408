package cache

import (
	"code_practice_backend/internal/model"
	"code_practice_backend/pkg/logger"
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const DefaultCountTTL = 10 * time.Minute

// MistakeCountCache keeps each student's wrong-answer counts per status in a
// redis hash. A nil client turns every call into a miss or no-op, so the
// service runs unchanged without redis.
type MistakeCountCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewMistakeCountCache(client *redis.Client, ttl time.Duration) *MistakeCountCache {
	if ttl <= 0 {
		ttl = DefaultCountTTL
	}
	return &MistakeCountCache{client: client, ttl: ttl}
}

func countKey(studentID uint) string {
	return fmt.Sprintf("practice:mistakes:%d:counts", studentID)
}

func (c *MistakeCountCache) Get(ctx context.Context, studentID uint) (map[model.MasteryStatus]int64, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}

	fields, err := c.client.HGetAll(ctx, countKey(studentID)).Result()
	if err != nil {
		if err != redis.Nil {
			logger.Log.Warn("读取错题统计缓存失败", zap.Uint("student_id", studentID), zap.Error(err))
		}
		return nil, false
	}
	if len(fields) == 0 {
		return nil, false
	}

	counts := make(map[model.MasteryStatus]int64, len(model.MasteryStatuses))
	for _, s := range model.MasteryStatuses {
		raw, ok := fields[string(s)]
		if !ok {
			return nil, false
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, false
		}
		counts[s] = n
	}
	return counts, true
}

func (c *MistakeCountCache) Set(ctx context.Context, studentID uint, counts map[model.MasteryStatus]int64) {
	if c == nil || c.client == nil {
		return
	}

	values := make(map[string]interface{}, len(model.MasteryStatuses))
	for _, s := range model.MasteryStatuses {
		values[string(s)] = counts[s]
	}

	key := countKey(studentID)
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, values)
		pipe.Expire(ctx, key, c.ttl)
		return nil
	})
	if err != nil {
		logger.Log.Warn("写入错题统计缓存失败", zap.Uint("student_id", studentID), zap.Error(err))
	}
}

func (c *MistakeCountCache) Invalidate(ctx context.Context, studentIDs ...uint) {
	if c == nil || c.client == nil || len(studentIDs) == 0 {
		return
	}

	keys := make([]string, 0, len(studentIDs))
	for _, id := range studentIDs {
		keys = append(keys, countKey(id))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		logger.Log.Warn("清除错题统计缓存失败", zap.Error(err))
	}
}
