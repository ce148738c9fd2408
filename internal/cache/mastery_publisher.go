package cache

import (
	"code_practice_backend/internal/model"
	"code_practice_backend/pkg/logger"
	"context"
	"encoding/json"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const MasteryChannel = "practice:mastery"

// MasteryPublisher fans committed ledger changes out on a redis channel and
// drops the affected students' cached counts.
type MasteryPublisher struct {
	client *redis.Client
	counts *MistakeCountCache
}

func NewMasteryPublisher(client *redis.Client, counts *MistakeCountCache) *MasteryPublisher {
	return &MasteryPublisher{client: client, counts: counts}
}

func (p *MasteryPublisher) NotifyMastery(ctx context.Context, events []model.MasteryEvent) {
	if len(events) == 0 {
		return
	}

	seen := make(map[uint]bool)
	var students []uint
	for _, ev := range events {
		if !seen[ev.StudentID] {
			seen[ev.StudentID] = true
			students = append(students, ev.StudentID)
		}
	}
	p.counts.Invalidate(ctx, students...)

	if p.client == nil {
		return
	}
	for _, ev := range events {
		payload, err := json.Marshal(ev)
		if err != nil {
			continue
		}
		if err := p.client.Publish(ctx, MasteryChannel, payload).Err(); err != nil {
			logger.Log.Warn("发布掌握度事件失败",
				zap.Uint("student_id", ev.StudentID),
				zap.Uint("question_id", ev.QuestionID),
				zap.Error(err))
			return
		}
	}
}

// SubscribeMastery decodes events from the mastery channel until ctx is done.
func SubscribeMastery(ctx context.Context, client *redis.Client, handle func(model.MasteryEvent)) error {
	sub := client.Subscribe(ctx, MasteryChannel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return err
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var ev model.MasteryEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				logger.Log.Warn("无法解析掌握度事件", zap.Error(err))
				continue
			}
			handle(ev)
		}
	}
}
