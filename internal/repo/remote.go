package repo

import (
	"context"
	"errors"

	"github.com/ranbenri-hacklberry/self-service-kiosk-sub003/internal/domain"
)

var ErrNotFound = errors.New("row not found")

// RemoteStore is the authoritative relational data service: named tables
// with per-row create/update/soft-delete and equality filtering. Every
// method takes a businessID and implementations must apply it to every
// filter; a missing scope is how one tenant's edits leak into another's
// menu.
type RemoteStore interface {
	// menu_items
	UpsertItem(ctx context.Context, businessID string, item *domain.OnboardingItem) error
	UpdateItemFields(ctx context.Context, businessID, itemID string, patch domain.ItemPatch) error
	SoftDeleteItem(ctx context.Context, businessID, itemID string) error
	FetchItems(ctx context.Context, businessID string) ([]domain.OnboardingItem, error)

	// option_groups
	PrivateGroups(ctx context.Context, businessID, itemID string) ([]domain.OptionGroup, error)
	LinkedGroups(ctx context.Context, businessID, itemID string) ([]domain.OptionGroup, error)
	CreateGroup(ctx context.Context, businessID string, group domain.OptionGroup) error
	UpdateGroup(ctx context.Context, businessID string, group domain.OptionGroup) error
	DeleteGroup(ctx context.Context, businessID, groupID string) error

	// option_values
	GroupValues(ctx context.Context, businessID, groupID string) ([]domain.OptionValue, error)
	CreateValues(ctx context.Context, businessID string, values []domain.OptionValue) error
	UpdateValue(ctx context.Context, businessID string, value domain.OptionValue) error
	DeleteValue(ctx context.Context, businessID, valueID string) error

	// item_group_links (shared groups only)
	CreateLink(ctx context.Context, businessID string, link domain.ItemGroupLink) error
	DeleteLink(ctx context.Context, businessID string, link domain.ItemGroupLink) error
	LinkCount(ctx context.Context, businessID, groupID string) (int, error)
}
