package usecase

import (
	"context"
	"time"

	"catalog-review/pkg/events"

	"go.uber.org/zap"
)

// publishEvent never fails the caller; delivery problems are logged.
func publishEvent(ctx context.Context, publisher events.Publisher, log *zap.Logger, event events.Event) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	if err := publisher.Publish(ctx, event); err != nil {
		log.Warn("Failed to publish event",
			zap.Error(err),
			zap.String("type", string(event.Type)),
			zap.String("resource_id", event.ResourceID.String()),
		)
	}
}
