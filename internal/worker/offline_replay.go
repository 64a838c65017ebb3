package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ranbenri-hacklberry/self-service-kiosk-sub003/internal/domain"
	"github.com/ranbenri-hacklberry/self-service-kiosk-sub003/internal/queue"
	"github.com/ranbenri-hacklberry/self-service-kiosk-sub003/internal/service"
	"go.uber.org/zap"
)

// OfflineReplayWorker drains the durable offline-action queue against the
// remote store. Actions arrive in enqueue order, so replaying a burst of
// edits to the same row converges on the last state the user saved.
type OfflineReplayWorker struct {
	replayService *service.ReplayService
	broker        queue.Broker
	logger        *zap.SugaredLogger
	ctx           context.Context
	cancel        context.CancelFunc
}

func NewOfflineReplayWorker(
	replayService *service.ReplayService,
	broker queue.Broker,
	logger *zap.SugaredLogger,
) *OfflineReplayWorker {
	ctx, cancel := context.WithCancel(context.Background())

	return &OfflineReplayWorker{
		replayService: replayService,
		broker:        broker,
		logger:        logger,
		ctx:           ctx,
		cancel:        cancel,
	}
}

func (w *OfflineReplayWorker) Start() error {
	w.logger.Info("starting offline replay worker")

	return w.broker.Subscribe(w.ctx, queue.QueueOfflineActions, w.handleMessage)
}

func (w *OfflineReplayWorker) Stop() {
	w.logger.Info("stopping offline replay worker")
	w.cancel()
}

func (w *OfflineReplayWorker) handleMessage(ctx context.Context, message []byte) error {
	var action domain.OfflineAction
	if err := json.Unmarshal(message, &action); err != nil {
		w.logger.Errorw("failed to unmarshal offline action", "error", err)
		return fmt.Errorf("failed to unmarshal offline action: %w", err)
	}

	if action.QueuedAt.IsZero() {
		action.QueuedAt = time.Now()
	}

	w.logger.Infow("replaying offline action", "key", action.Key(), "business_id", action.BusinessID)

	if err := w.replayService.Apply(ctx, action); err != nil {
		w.logger.Errorw("failed to replay offline action", "key", action.Key(), "error", err)
		return err
	}

	return nil
}
