// Package worker потребляет фоновые задачи из очередей asynq.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"

	"share_market/internal/infrastructure/notifier"
	"share_market/pkg/application/modules"
	"share_market/pkg/logx"
)

const dedupeTTL = 10 * time.Minute

// NotifyWorker доставляет отложенные уведомления в операторский чат.
// Дедупликация через SETNX: повторная доставка одной и той же задачи в
// пределах TTL молча пропускается.
type NotifyWorker struct {
	alerts *notifier.TelegramBot
	redis  *redis.Client
}

func NewNotifyWorker(alerts *notifier.TelegramBot, redisClient *redis.Client) *NotifyWorker {
	return &NotifyWorker{
		alerts: alerts,
		redis:  redisClient,
	}
}

func (w *NotifyWorker) Handlers() []modules.AsynqHandler {
	return []modules.AsynqHandler{
		{Pattern: notifier.TaskBidRaised, Handle: w.handleInterestRaised("bid")},
		{Pattern: notifier.TaskBookingRaised, Handle: w.handleInterestRaised("booking")},
		{Pattern: notifier.TaskBestDealApproved, Handle: w.handleBestDealApproved},
	}
}

func (w *NotifyWorker) handleInterestRaised(kind string) func(context.Context, *asynq.Task) error {
	return func(ctx context.Context, task *asynq.Task) error {
		var payload notifier.InterestRaisedPayload
		if err := jsoniter.Unmarshal(task.Payload(), &payload); err != nil {
			return fmt.Errorf("unmarshal %s payload: %w", task.Type(), err)
		}

		dedupeKey := fmt.Sprintf("notify:%s:%d:%s:%s", kind, payload.TenantID, payload.FirstName, payload.LastName)
		fresh, err := w.markDelivered(ctx, dedupeKey)
		if err != nil {
			logger(ctx).Error("notify dedupe check", logx.Error(err))
		}
		if !fresh {
			return nil
		}

		if err := w.alerts.SendInterestAlert(ctx, kind, payload.FirstName, payload.LastName); err != nil {
			// Доставка best effort: роняем задачу в лог, не в retry
			logger(ctx).Error("send interest alert",
				logx.Error(err),
				slog.Int64(logx.FieldTenantID, payload.TenantID),
			)
		}

		return nil
	}
}

func (w *NotifyWorker) handleBestDealApproved(ctx context.Context, task *asynq.Task) error {
	var payload notifier.BestDealApprovedPayload
	if err := jsoniter.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal %s payload: %w", task.Type(), err)
	}

	dedupeKey := fmt.Sprintf("notify:best_deal:%d:%s", payload.TenantID, payload.ShareName)
	fresh, err := w.markDelivered(ctx, dedupeKey)
	if err != nil {
		logger(ctx).Error("notify dedupe check", logx.Error(err))
	}
	if !fresh {
		return nil
	}

	if err := w.alerts.SendBestDealAlert(ctx, payload.ShareName); err != nil {
		logger(ctx).Error("send best deal alert",
			logx.Error(err),
			slog.Int64(logx.FieldTenantID, payload.TenantID),
			slog.String(logx.FieldShareName, payload.ShareName),
		)
	}

	return nil
}

// markDelivered возвращает true, если ключ поставлен впервые.
func (w *NotifyWorker) markDelivered(ctx context.Context, key string) (bool, error) {
	ok, err := w.redis.SetNX(ctx, key, 1, dedupeTTL).Result()
	if err != nil {
		// Редис недоступен — доставляем без дедупликации
		return true, err
	}

	return ok, nil
}
