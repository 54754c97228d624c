// Package notifier превращает события маркетплейса в фоновые задачи
// уведомлений. Доставка fire-and-forget: ошибка постановки в очередь
// возвращается вызывающему, тот логирует и идёт дальше.
package notifier

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	jsoniter "github.com/json-iterator/go"
)

const (
	TaskBidRaised        = "notify:bid"
	TaskBookingRaised    = "notify:booking"
	TaskBestDealApproved = "notify:best_deal"

	QueueNotifications = "notifications"
)

// InterestRaisedPayload — общая нагрузка для bid/booking уведомлений.
type InterestRaisedPayload struct {
	TenantID  int64  `json:"tenantId"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type BestDealApprovedPayload struct {
	UserID    int64  `json:"userId"`
	TenantID  int64  `json:"tenantId"`
	ShareName string `json:"shareName"`
}

// AsynqNotifier откладывает доставку уведомлений в очередь asynq.
type AsynqNotifier struct {
	client *asynq.Client
}

func NewAsynqNotifier(client *asynq.Client) *AsynqNotifier {
	return &AsynqNotifier{client: client}
}

func (n *AsynqNotifier) BidRaised(ctx context.Context, tenantID int64, firstName, lastName string) error {
	return n.enqueue(ctx, TaskBidRaised, InterestRaisedPayload{
		TenantID:  tenantID,
		FirstName: firstName,
		LastName:  lastName,
	})
}

func (n *AsynqNotifier) BookingRaised(ctx context.Context, tenantID int64, firstName, lastName string) error {
	return n.enqueue(ctx, TaskBookingRaised, InterestRaisedPayload{
		TenantID:  tenantID,
		FirstName: firstName,
		LastName:  lastName,
	})
}

func (n *AsynqNotifier) BestDealApproved(ctx context.Context, userID, tenantID int64, shareName string) error {
	return n.enqueue(ctx, TaskBestDealApproved, BestDealApprovedPayload{
		UserID:    userID,
		TenantID:  tenantID,
		ShareName: shareName,
	})
}

func (n *AsynqNotifier) enqueue(ctx context.Context, taskType string, payload any) error {
	data, err := jsoniter.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	task := asynq.NewTask(taskType, data, asynq.Queue(QueueNotifications), asynq.MaxRetry(3))

	if _, err := n.client.EnqueueContext(ctx, task); err != nil {
		return fmt.Errorf("enqueue %s: %w", taskType, err)
	}

	return nil
}
