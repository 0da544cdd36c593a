package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/service"
)

// StartNotificationWorker subscribes the notification service to ticket events and starts webhook
// delivery in the background. Delivery stops when ctx is done.
func StartNotificationWorker(ctx context.Context, notifications *service.NotificationService, logger *zap.Logger) {
	if notifications == nil {
		return
	}
	notifications.RegisterHandlers()
	go notifications.RunWebhookDelivery(ctx)
	if logger != nil {
		logger.Info("notification worker started")
	}
}
