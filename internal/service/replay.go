package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ranbenri-hacklberry/self-service-kiosk-sub003/internal/domain"
	"github.com/ranbenri-hacklberry/self-service-kiosk-sub003/internal/repo"
	msync "github.com/ranbenri-hacklberry/self-service-kiosk-sub003/internal/sync"
)

// ReplayService drains the offline action queue: each parked write is
// applied to the remote store. Handler errors surface to the broker,
// which owns retry, backoff, and the dead-letter queue.
type ReplayService struct {
	remote repo.RemoteStore
	syncer *msync.Synchronizer
	audit  repo.SyncAuditRepository
	logger *zap.SugaredLogger
}

func NewReplayService(
	remote repo.RemoteStore,
	syncer *msync.Synchronizer,
	audit repo.SyncAuditRepository,
	logger *zap.SugaredLogger,
) *ReplayService {
	return &ReplayService{
		remote: remote,
		syncer: syncer,
		audit:  audit,
		logger: logger,
	}
}

func (s *ReplayService) Apply(ctx context.Context, action domain.OfflineAction) error {
	err := s.apply(ctx, action)

	event := domain.EventActionReplayed
	detail := ""
	if err != nil {
		event = domain.EventActionFailed
		detail = err.Error()
	}
	if s.audit != nil {
		_ = s.audit.Create(ctx, &domain.SyncAudit{
			BusinessID: action.BusinessID,
			EventType:  event,
			ActionKey:  action.Key(),
			Detail:     detail,
		})
	}

	return err
}

func (s *ReplayService) apply(ctx context.Context, action domain.OfflineAction) error {
	switch action.Table {
	case domain.TableMenuItems:
		return s.applyItemAction(ctx, action)
	case domain.TableOptionGroups:
		return s.applyModifierAction(ctx, action)
	default:
		return fmt.Errorf("unknown table %q in offline action", action.Table)
	}
}

func (s *ReplayService) applyItemAction(ctx context.Context, action domain.OfflineAction) error {
	switch action.Operation {
	case domain.ActionCreate, domain.ActionUpdate:
		var item domain.OnboardingItem
		if err := json.Unmarshal(action.Payload, &item); err != nil {
			return fmt.Errorf("failed to unmarshal item payload: %w", err)
		}
		if err := s.remote.UpsertItem(ctx, action.BusinessID, &item); err != nil {
			return fmt.Errorf("failed to replay item upsert: %w", err)
		}
		s.logger.Infow("replayed item write", "business_id", action.BusinessID, "item_id", item.ID)
		return nil

	case domain.ActionDelete:
		err := s.remote.SoftDeleteItem(ctx, action.BusinessID, action.TargetID)
		if errors.Is(err, repo.ErrNotFound) {
			// The row was never created remotely; nothing to delete.
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to replay item delete: %w", err)
		}
		s.logger.Infow("replayed item delete", "business_id", action.BusinessID, "item_id", action.TargetID)
		return nil

	default:
		return fmt.Errorf("unknown operation %q in offline action", action.Operation)
	}
}

func (s *ReplayService) applyModifierAction(ctx context.Context, action domain.OfflineAction) error {
	var groups []domain.ModifierGroup
	if err := json.Unmarshal(action.Payload, &groups); err != nil {
		return fmt.Errorf("failed to unmarshal modifier payload: %w", err)
	}

	if err := s.syncer.SyncItem(ctx, action.BusinessID, action.TargetID, groups); err != nil {
		return fmt.Errorf("failed to replay modifier sync: %w", err)
	}

	s.logger.Infow("replayed modifier sync", "business_id", action.BusinessID, "item_id", action.TargetID)
	return nil
}
