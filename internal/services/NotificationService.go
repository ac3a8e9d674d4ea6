package services

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"livenotify/internal/models"
	"livenotify/internal/providers"
	"livenotify/internal/storage/interfaces"
)

// DelivererInterface sends one notification to one chat.
type DelivererInterface interface {
	Deliver(ctx context.Context, chatID string, n models.Notification) error
}

type DispatchReport struct {
	Attempted int
	Delivered int
	Failed    int
}

type NotificationServiceInterface interface {
	Dispatch(ctx context.Context, event models.LiveEvent) DispatchReport
}

type NotificationService struct {
	store     interfaces.StoreInterface
	deliverer DelivererInterface
	logger    providers.Logger
	metrics   providers.MetricsProviderInterface
}

func NewNotificationService(store interfaces.StoreInterface, deliverer DelivererInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) NotificationServiceInterface {
	return &NotificationService{
		store:     store,
		deliverer: deliverer,
		logger:    logger,
		metrics:   metrics,
	}
}

// Dispatch fans the event out to every current subscriber. A failed delivery
// is logged and does not stop the others; nothing is retried.
func (ns *NotificationService) Dispatch(ctx context.Context, event models.LiveEvent) DispatchReport {
	var report DispatchReport

	subscribers := ns.store.ListSubscribers(event.Platform, event.ChannelID)
	if len(subscribers) == 0 {
		return report
	}

	ctx, span := providers.StartSpan(ctx, "notify.dispatch",
		attribute.String("platform", string(event.Platform)),
		attribute.String("channel.id", event.ChannelID),
		attribute.Int("subscribers", len(subscribers)),
	)
	defer span.End()

	n := models.NewNotification(event)
	for _, chatID := range subscribers {
		report.Attempted++
		if err := ns.deliverer.Deliver(ctx, chatID, n); err != nil {
			report.Failed++
			ns.metrics.IncDeliveries(string(event.Platform), false)
			ns.logger.Errorf(providers.TypeNotify, "Failed to notify chat %s about %s:%s: %s",
				chatID, event.Platform, event.ChannelID, err)
			providers.RecordError(span, err)
			continue
		}
		report.Delivered++
		ns.metrics.IncDeliveries(string(event.Platform), true)
	}

	ns.logger.Infof(providers.TypeNotify, "Notified %d/%d chats that %s:%s is live",
		report.Delivered, report.Attempted, event.Platform, event.ChannelID)
	return report
}
