package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ranbenri-hacklberry/self-service-kiosk-sub003/internal/domain"
)

// OfflineQueue parks failed remote writes on the durable broker so a
// network outage costs nothing but latency. Replay order is publish
// order, so the newest action for a given (operation, table, target) key
// is the one that sticks.
type OfflineQueue struct {
	broker Broker
	logger *zap.SugaredLogger
}

func NewOfflineQueue(broker Broker, logger *zap.SugaredLogger) *OfflineQueue {
	return &OfflineQueue{
		broker: broker,
		logger: logger,
	}
}

func (q *OfflineQueue) Enqueue(ctx context.Context, action domain.OfflineAction) error {
	if action.QueuedAt.IsZero() {
		action.QueuedAt = time.Now()
	}

	body, err := json.Marshal(action)
	if err != nil {
		return fmt.Errorf("failed to marshal offline action: %w", err)
	}

	if err := q.broker.Publish(ctx, QueueOfflineActions, body); err != nil {
		return fmt.Errorf("failed to enqueue offline action: %w", err)
	}

	q.logger.Infow("remote write parked on offline queue",
		"key", action.Key(), "business_id", action.BusinessID)

	return nil
}
