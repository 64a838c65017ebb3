package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ranbenri-hacklberry/self-service-kiosk-sub003/internal/domain"
	"github.com/ranbenri-hacklberry/self-service-kiosk-sub003/internal/dsl"
	"github.com/ranbenri-hacklberry/self-service-kiosk-sub003/internal/queue"
	"github.com/ranbenri-hacklberry/self-service-kiosk-sub003/internal/repo"
	msync "github.com/ranbenri-hacklberry/self-service-kiosk-sub003/internal/sync"
	"github.com/ranbenri-hacklberry/self-service-kiosk-sub003/internal/validate"
)

const (
	defaultLocalTimeout  = 2 * time.Second
	defaultRemoteTimeout = 10 * time.Second
)

// Session is the reconciliation store for one business's onboarding
// session. It owns the merged item state, persists edits optimistically to
// the local cache, and pushes them to the remote store under a timeout,
// parking failed writes on the offline queue. One Session per business; no
// shared global state.
type Session struct {
	businessID string
	drafts     repo.DraftRepository
	remote     repo.RemoteStore // nil means offline-only mode
	syncer     *msync.Synchronizer
	offline    *queue.OfflineQueue
	audit      repo.SyncAuditRepository
	logger     *zap.SugaredLogger

	localTimeout  time.Duration
	remoteTimeout time.Duration

	mu    sync.Mutex
	items map[string]*domain.OnboardingItem
	locks map[string]*sync.Mutex
}

type SessionConfig struct {
	BusinessID    string
	LocalTimeout  time.Duration
	RemoteTimeout time.Duration
}

func NewSession(
	cfg SessionConfig,
	drafts repo.DraftRepository,
	remote repo.RemoteStore,
	syncer *msync.Synchronizer,
	offline *queue.OfflineQueue,
	audit repo.SyncAuditRepository,
	logger *zap.SugaredLogger,
) *Session {
	if cfg.LocalTimeout <= 0 {
		cfg.LocalTimeout = defaultLocalTimeout
	}
	if cfg.RemoteTimeout <= 0 {
		cfg.RemoteTimeout = defaultRemoteTimeout
	}

	return &Session{
		businessID:    cfg.BusinessID,
		drafts:        drafts,
		remote:        remote,
		syncer:        syncer,
		offline:       offline,
		audit:         audit,
		logger:        logger,
		localTimeout:  cfg.LocalTimeout,
		remoteTimeout: cfg.RemoteTimeout,
		items:         make(map[string]*domain.OnboardingItem),
		locks:         make(map[string]*sync.Mutex),
	}
}

// Load merges the remote snapshot with the local cached draft and makes
// the result the session state. A remote fetch failure degrades to
// local-only data instead of failing the session: the cache remains the
// durable source of truth until connectivity returns.
func (s *Session) Load(ctx context.Context) ([]domain.OnboardingItem, error) {
	var remoteItems []domain.OnboardingItem
	if s.remote != nil {
		rctx, cancel := context.WithTimeout(ctx, s.remoteTimeout)
		fetched, err := s.remote.FetchItems(rctx, s.businessID)
		cancel()
		if err != nil {
			s.logger.Warnw("remote snapshot unavailable, loading local only",
				"business_id", s.businessID, "error", err)
		} else {
			remoteItems = fetched
		}
	}

	lctx, cancel := context.WithTimeout(ctx, s.localTimeout)
	localItems, err := s.drafts.ListByBusiness(lctx, s.businessID)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("failed to load local drafts: %w", err)
	}

	merged := mergeSnapshots(localItems, remoteItems)

	s.mu.Lock()
	s.items = make(map[string]*domain.OnboardingItem, len(merged))
	for i := range merged {
		item := merged[i]
		s.items[item.ID] = &item
	}
	s.mu.Unlock()

	return merged, nil
}

// Items returns the live (non-deleted) session state.
func (s *Session) Items() []domain.OnboardingItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.OnboardingItem, 0, len(s.items))
	for _, item := range s.items {
		if !item.Deleted {
			out = append(out, *item)
		}
	}
	return out
}

func (s *Session) GetItem(ctx context.Context, itemID string) (*domain.OnboardingItem, error) {
	s.mu.Lock()
	item, ok := s.items[itemID]
	if ok {
		cp := item.Clone()
		s.mu.Unlock()
		return &cp, nil
	}
	s.mu.Unlock()

	lctx, cancel := context.WithTimeout(ctx, s.localTimeout)
	defer cancel()
	return s.drafts.GetByID(lctx, s.businessID, itemID)
}

// UpdateItem merges the patch into session state, persists it to the local
// cache, then attempts the remote write. A remote failure or timeout is
// not an error: the write is parked on the offline queue and the returned
// flag tells the caller to surface a non-blocking notice. The per-item
// lock keeps one write in flight per item id so rapid double-edits cannot
// interleave.
func (s *Session) UpdateItem(ctx context.Context, itemID string, patch domain.ItemPatch) (*domain.OnboardingItem, bool, error) {
	lock := s.itemLock(itemID)
	lock.Lock()
	defer lock.Unlock()

	item, err := s.takeItem(ctx, itemID)
	if err != nil {
		return nil, false, err
	}

	patch.Apply(item)
	item.Synced = false

	if err := s.persistLocal(ctx, item); err != nil {
		return nil, false, err
	}
	s.commit(item)

	if s.remote == nil {
		return item, false, nil
	}

	queued := s.pushRemote(ctx, item, patch)
	if !queued {
		item.Synced = true
		_ = s.persistLocal(ctx, item)
		s.commit(item)
	}

	return item, queued, nil
}

// ReplaceModifiers decodes the modifier text, validates it, and applies it
// as an update. Parse warnings and validation issues come back alongside
// the item; neither blocks persistence.
func (s *Session) ReplaceModifiers(ctx context.Context, itemID, modifierText string) (*domain.OnboardingItem, []dsl.Warning, []validate.Issue, bool, error) {
	groups, warnings := dsl.Decode(modifierText)
	issues := validate.Check(groups)

	item, queued, err := s.UpdateItem(ctx, itemID, domain.ItemPatch{Modifiers: &groups})
	if err != nil {
		return nil, warnings, issues, false, err
	}

	return item, warnings, issues, queued, nil
}

// DeleteItem soft-deletes: the row keeps existing so references held by
// records outside this service stay valid.
func (s *Session) DeleteItem(ctx context.Context, itemID string) (bool, error) {
	lock := s.itemLock(itemID)
	lock.Lock()
	defer lock.Unlock()

	item, err := s.takeItem(ctx, itemID)
	if err != nil {
		return false, err
	}

	item.Deleted = true
	item.Synced = false

	if err := s.persistLocal(ctx, item); err != nil {
		return false, err
	}
	s.commit(item)

	if s.remote == nil {
		return false, nil
	}

	rctx, cancel := context.WithTimeout(ctx, s.remoteTimeout)
	err = s.remote.SoftDeleteItem(rctx, s.businessID, item.ID)
	cancel()
	if err != nil {
		s.parkAction(ctx, domain.OfflineAction{
			Operation:  domain.ActionDelete,
			Table:      domain.TableMenuItems,
			BusinessID: s.businessID,
			TargetID:   item.ID,
		}, err)
		return true, nil
	}

	// The remote holds the tombstone now; the cache row has nothing left
	// to say and is purged instead of kept as a synced tombstone.
	s.purgeLocal(ctx, item.ID)
	return false, nil
}

func (s *Session) purgeLocal(ctx context.Context, itemID string) {
	lctx, cancel := context.WithTimeout(ctx, s.localTimeout)
	defer cancel()

	if err := s.drafts.Delete(lctx, s.businessID, itemID); err != nil {
		s.logger.Warnw("failed to purge deleted draft",
			"business_id", s.businessID, "item_id", itemID, "error", err)
		return
	}

	s.mu.Lock()
	delete(s.items, itemID)
	s.mu.Unlock()
}

// AttachSharedGroup links an existing shared option group to the item and
// refreshes the item's modifiers from the remote rows. Attaching needs the
// remote store: the shared-group catalog only exists there, so this is not
// an operation that can be parked offline.
func (s *Session) AttachSharedGroup(ctx context.Context, itemID, groupID string) (*domain.OnboardingItem, error) {
	if s.remote == nil {
		return nil, fmt.Errorf("shared groups are unavailable in offline-only mode")
	}

	lock := s.itemLock(itemID)
	lock.Lock()
	defer lock.Unlock()

	item, err := s.takeItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	for _, g := range item.Modifiers {
		if g.RemoteID == groupID {
			return item, nil
		}
	}

	rctx, cancel := context.WithTimeout(ctx, s.remoteTimeout)
	defer cancel()

	link := domain.ItemGroupLink{ItemID: itemID, GroupID: groupID}
	if err := s.remote.CreateLink(rctx, s.businessID, link); err != nil {
		return nil, fmt.Errorf("failed to attach group: %w", err)
	}

	linked, err := s.remote.LinkedGroups(rctx, s.businessID, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to read attached group: %w", err)
	}

	var attached *domain.OptionGroup
	for i := range linked {
		if linked[i].ID == groupID {
			attached = &linked[i]
			break
		}
	}
	if attached == nil {
		// The link points at nothing; undo it rather than leave it dangling.
		_ = s.remote.DeleteLink(rctx, s.businessID, link)
		return nil, fmt.Errorf("shared group %s: %w", groupID, repo.ErrNotFound)
	}

	values, err := s.remote.GroupValues(rctx, s.businessID, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to read group values: %w", err)
	}

	item.Modifiers = append(item.Modifiers, domain.GroupFromRelational(*attached, values))
	if err := s.persistLocal(ctx, item); err != nil {
		return nil, err
	}
	s.commit(item)

	return item, nil
}

// ValidateItem runs the advisory semantic checks on the item's groups.
func (s *Session) ValidateItem(ctx context.Context, itemID string) ([]validate.Issue, error) {
	item, err := s.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return validate.Check(item.Modifiers), nil
}

// takeItem returns a detached working copy of the item, loading it from
// the cache on a session miss. Caller must hold the item lock; the copy
// is committed back into session state after each persisted change, so
// readers never observe a row mid-mutation.
func (s *Session) takeItem(ctx context.Context, itemID string) (*domain.OnboardingItem, error) {
	s.mu.Lock()
	if item, ok := s.items[itemID]; ok {
		cp := item.Clone()
		s.mu.Unlock()
		return &cp, nil
	}
	s.mu.Unlock()

	lctx, cancel := context.WithTimeout(ctx, s.localTimeout)
	item, err := s.drafts.GetByID(lctx, s.businessID, itemID)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("item %s: %w", itemID, err)
	}

	s.commit(item)
	return item, nil
}

// commit publishes a snapshot of the item into session state. Map entries
// are replaced, never mutated, so Items and GetItem can copy them holding
// only s.mu.
func (s *Session) commit(item *domain.OnboardingItem) {
	cp := item.Clone()
	s.mu.Lock()
	s.items[cp.ID] = &cp
	s.mu.Unlock()
}

func (s *Session) persistLocal(ctx context.Context, item *domain.OnboardingItem) error {
	lctx, cancel := context.WithTimeout(ctx, s.localTimeout)
	defer cancel()

	if err := s.drafts.Upsert(lctx, item); err != nil {
		return fmt.Errorf("failed to persist draft: %w", err)
	}
	return nil
}

// pushRemote writes the item row and, when the modifiers changed, runs the
// relational synchronizer. The timeout context is passed into the store
// calls, so a write that loses to the deadline is actually cancelled and
// a late success cannot double-apply. Returns true when the write was parked
// on the offline queue instead.
func (s *Session) pushRemote(ctx context.Context, item *domain.OnboardingItem, patch domain.ItemPatch) bool {
	rctx, cancel := context.WithTimeout(ctx, s.remoteTimeout)
	defer cancel()

	if err := s.writeItemRow(rctx, item, patch); err != nil {
		payload, _ := json.Marshal(item)
		s.parkAction(ctx, domain.OfflineAction{
			Operation:  domain.ActionUpdate,
			Table:      domain.TableMenuItems,
			BusinessID: s.businessID,
			TargetID:   item.ID,
			Payload:    payload,
		}, err)
		return true
	}

	if patch.Modifiers == nil {
		return false
	}

	if err := s.syncer.SyncItem(rctx, s.businessID, item.ID, item.Modifiers); err != nil {
		payload, _ := json.Marshal(item.Modifiers)
		s.parkAction(ctx, domain.OfflineAction{
			Operation:  domain.ActionUpdate,
			Table:      domain.TableOptionGroups,
			BusinessID: s.businessID,
			TargetID:   item.ID,
			Payload:    payload,
		}, err)
		return true
	}

	return false
}

// writeItemRow sends the item to the remote store. A field-only patch goes
// as a targeted column update; a missing row (first sync of a local-only
// draft) or a modifier change falls back to a full upsert.
func (s *Session) writeItemRow(ctx context.Context, item *domain.OnboardingItem, patch domain.ItemPatch) error {
	if patch.Modifiers == nil {
		err := s.remote.UpdateItemFields(ctx, s.businessID, item.ID, patch)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repo.ErrNotFound) {
			return err
		}
	}

	return s.remote.UpsertItem(ctx, s.businessID, item)
}

// parkAction hands a failed remote write to the offline queue and leaves
// an audit record. Enqueue failures are logged, never raised: the local
// cache still holds the edit and a later full sync will catch up.
func (s *Session) parkAction(ctx context.Context, action domain.OfflineAction, cause error) {
	s.logger.Warnw("remote write failed, queueing offline",
		"business_id", s.businessID, "key", action.Key(), "error", cause)

	if err := s.offline.Enqueue(ctx, action); err != nil {
		s.logger.Errorw("failed to enqueue offline action",
			"business_id", s.businessID, "key", action.Key(), "error", err)
		return
	}

	if s.audit != nil {
		_ = s.audit.Create(ctx, &domain.SyncAudit{
			BusinessID: s.businessID,
			EventType:  domain.EventActionQueued,
			ActionKey:  action.Key(),
			Detail:     cause.Error(),
		})
	}
}

func (s *Session) itemLock(itemID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[itemID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[itemID] = lock
	}
	return lock
}
