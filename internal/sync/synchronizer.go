// Package sync maps in-memory modifier groups onto the normalized remote
// tables (option_groups, option_values, item_group_links), computing the
// minimal set of writes that makes the relational projection match the
// draft without touching groups shared by other items.
package sync

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ranbenri-hacklberry/self-service-kiosk-sub003/internal/domain"
	"github.com/ranbenri-hacklberry/self-service-kiosk-sub003/internal/repo"
)

type Synchronizer struct {
	remote repo.RemoteStore
	logger *zap.SugaredLogger
}

func New(remote repo.RemoteStore, logger *zap.SugaredLogger) *Synchronizer {
	return &Synchronizer{
		remote: remote,
		logger: logger,
	}
}

// SyncItem reconciles the item's modifier groups with the remote tables.
// New groups are created private to the item and get their server ids
// assigned in place. Shared groups (reached through item_group_links) are
// never mutated here; removing one from the draft only removes this item's
// link. The synchronizer performs no retries: the first failed write
// returns to the caller, which owns queueing. Write ordering is chosen so
// that a partial failure leaves an orphan group rather than a dangling
// link.
func (s *Synchronizer) SyncItem(ctx context.Context, businessID, itemID string, groups []domain.ModifierGroup) error {
	private, err := s.remote.PrivateGroups(ctx, businessID, itemID)
	if err != nil {
		return fmt.Errorf("failed to fetch private groups: %w", err)
	}
	linked, err := s.remote.LinkedGroups(ctx, businessID, itemID)
	if err != nil {
		return fmt.Errorf("failed to fetch linked groups: %w", err)
	}

	privateByID := make(map[string]domain.OptionGroup, len(private))
	for _, g := range private {
		privateByID[g.ID] = g
	}
	linkedByID := make(map[string]domain.OptionGroup, len(linked))
	for _, g := range linked {
		linkedByID[g.ID] = g
	}

	kept := make(map[string]bool, len(groups))

	for i := range groups {
		g := &groups[i]

		if g.RemoteID != "" {
			if existing, ok := privateByID[g.RemoteID]; ok {
				kept[g.RemoteID] = true
				if err := s.updatePrivateGroup(ctx, businessID, itemID, existing, *g); err != nil {
					return err
				}
				continue
			}
			if _, ok := linkedByID[g.RemoteID]; ok {
				// Shared group: metadata and values are immutable from the
				// item-editing surface. Keeping it in the draft keeps the
				// link; nothing to write.
				kept[g.RemoteID] = true
				continue
			}
			// Carries an id the remote no longer knows (deleted by another
			// session, or copied across scopes). A stale id must never be
			// reused: recreate as a fresh private group.
			s.logger.Warnw("modifier group id unknown remotely, recreating",
				"business_id", businessID, "item_id", itemID, "group_id", g.RemoteID)
			g.RemoteID = ""
		}

		if err := s.createPrivateGroup(ctx, businessID, itemID, g); err != nil {
			return err
		}
		kept[g.RemoteID] = true
	}

	// Groups dropped from the draft: private ones are deleted with their
	// values, shared ones are only unlinked.
	for _, g := range private {
		if kept[g.ID] {
			continue
		}
		if err := s.deletePrivateGroup(ctx, businessID, itemID, g.ID); err != nil {
			return err
		}
	}
	for _, g := range linked {
		if kept[g.ID] {
			continue
		}
		link := domain.ItemGroupLink{ItemID: itemID, GroupID: g.ID}
		if err := s.remote.DeleteLink(ctx, businessID, link); err != nil {
			return fmt.Errorf("failed to unlink shared group %s: %w", g.ID, err)
		}
	}

	return nil
}

func (s *Synchronizer) createPrivateGroup(ctx context.Context, businessID, itemID string, g *domain.ModifierGroup) error {
	g.RemoteID = uuid.NewString()

	owner := itemID
	row := domain.GroupToRelational(*g, businessID, &owner)
	if err := s.remote.CreateGroup(ctx, businessID, row); err != nil {
		g.RemoteID = ""
		return fmt.Errorf("failed to create option group %q: %w", g.Name, err)
	}

	values := make([]domain.OptionValue, 0, len(g.Items))
	for _, it := range g.Items {
		values = append(values, domain.OptionValue{
			ID:              uuid.NewString(),
			GroupID:         row.ID,
			Name:            it.Name,
			PriceAdjustment: it.Price,
			IsDefault:       it.IsDefault,
		})
	}
	if err := s.remote.CreateValues(ctx, businessID, values); err != nil {
		// Orphan group, not a dangling link: replay recreates values.
		return fmt.Errorf("failed to create option values for %q: %w", g.Name, err)
	}

	return nil
}

func (s *Synchronizer) updatePrivateGroup(ctx context.Context, businessID, itemID string, existing domain.OptionGroup, g domain.ModifierGroup) error {
	owner := itemID
	row := domain.GroupToRelational(g, businessID, &owner)
	if groupChanged(existing, row) {
		if err := s.remote.UpdateGroup(ctx, businessID, row); err != nil {
			return fmt.Errorf("failed to update option group %q: %w", g.Name, err)
		}
	}

	return s.diffValues(ctx, businessID, g)
}

func groupChanged(a, b domain.OptionGroup) bool {
	return a.Name != b.Name ||
		a.IsRequired != b.IsRequired ||
		a.IsReplacement != b.IsReplacement ||
		a.MinSelection != b.MinSelection ||
		a.MaxSelection != b.MaxSelection
}

// diffValues reconciles option_values rows against the draft items by
// name: create missing, update changed price/default, delete removed.
func (s *Synchronizer) diffValues(ctx context.Context, businessID string, g domain.ModifierGroup) error {
	existing, err := s.remote.GroupValues(ctx, businessID, g.RemoteID)
	if err != nil {
		return fmt.Errorf("failed to fetch option values for %q: %w", g.Name, err)
	}

	existingByName := make(map[string]domain.OptionValue, len(existing))
	for _, v := range existing {
		existingByName[valueKey(v.Name)] = v
	}

	var missing []domain.OptionValue
	keptNames := make(map[string]bool, len(g.Items))

	for _, it := range g.Items {
		key := valueKey(it.Name)
		keptNames[key] = true

		current, ok := existingByName[key]
		if !ok {
			missing = append(missing, domain.OptionValue{
				ID:              uuid.NewString(),
				GroupID:         g.RemoteID,
				Name:            it.Name,
				PriceAdjustment: it.Price,
				IsDefault:       it.IsDefault,
			})
			continue
		}
		if current.PriceAdjustment != it.Price || current.IsDefault != it.IsDefault {
			current.PriceAdjustment = it.Price
			current.IsDefault = it.IsDefault
			if err := s.remote.UpdateValue(ctx, businessID, current); err != nil {
				return fmt.Errorf("failed to update option value %q: %w", it.Name, err)
			}
		}
	}

	if len(missing) > 0 {
		if err := s.remote.CreateValues(ctx, businessID, missing); err != nil {
			return fmt.Errorf("failed to create option values for %q: %w", g.Name, err)
		}
	}

	for _, v := range existing {
		if keptNames[valueKey(v.Name)] {
			continue
		}
		if err := s.remote.DeleteValue(ctx, businessID, v.ID); err != nil {
			return fmt.Errorf("failed to delete option value %q: %w", v.Name, err)
		}
	}

	return nil
}

func (s *Synchronizer) deletePrivateGroup(ctx context.Context, businessID, itemID, groupID string) error {
	// A group believed private but still linked from other items must not
	// be destroyed; drop this item's association instead.
	links, err := s.remote.LinkCount(ctx, businessID, groupID)
	if err != nil {
		return fmt.Errorf("failed to count links for group %s: %w", groupID, err)
	}
	if links > 0 {
		s.logger.Warnw("group still linked, unlinking instead of deleting",
			"business_id", businessID, "item_id", itemID, "group_id", groupID, "links", links)
		link := domain.ItemGroupLink{ItemID: itemID, GroupID: groupID}
		if err := s.remote.DeleteLink(ctx, businessID, link); err != nil {
			return fmt.Errorf("failed to unlink group %s: %w", groupID, err)
		}
		return nil
	}

	values, err := s.remote.GroupValues(ctx, businessID, groupID)
	if err != nil {
		return fmt.Errorf("failed to fetch option values of group %s: %w", groupID, err)
	}
	for _, v := range values {
		if err := s.remote.DeleteValue(ctx, businessID, v.ID); err != nil {
			return fmt.Errorf("failed to delete option value %q: %w", v.Name, err)
		}
	}

	if err := s.remote.DeleteGroup(ctx, businessID, groupID); err != nil {
		return fmt.Errorf("failed to delete option group %s: %w", groupID, err)
	}
	return nil
}

func valueKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
