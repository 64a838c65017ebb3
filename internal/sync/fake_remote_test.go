package sync

import (
	"context"
	"fmt"

	"github.com/ranbenri-hacklberry/self-service-kiosk-sub003/internal/domain"
	"github.com/ranbenri-hacklberry/self-service-kiosk-sub003/internal/repo"
)

// fakeRemote is an in-memory RemoteStore. Rows are partitioned by business
// id exactly like the real store filters by it, so a scoping bug in the
// synchronizer shows up as cross-tenant reads or writes.
type fakeRemote struct {
	items  map[string]map[string]*domain.OnboardingItem // businessID -> itemID
	groups map[string]map[string]domain.OptionGroup     // businessID -> groupID
	values map[string]map[string]domain.OptionValue     // businessID -> valueID
	links  map[string]map[string]domain.ItemGroupLink   // businessID -> itemID+groupID

	failCreateValues bool
	failUpdateValue  bool
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		items:  make(map[string]map[string]*domain.OnboardingItem),
		groups: make(map[string]map[string]domain.OptionGroup),
		values: make(map[string]map[string]domain.OptionValue),
		links:  make(map[string]map[string]domain.ItemGroupLink),
	}
}

func linkKey(l domain.ItemGroupLink) string { return l.ItemID + "|" + l.GroupID }

func (f *fakeRemote) UpsertItem(ctx context.Context, businessID string, item *domain.OnboardingItem) error {
	if f.items[businessID] == nil {
		f.items[businessID] = make(map[string]*domain.OnboardingItem)
	}
	cp := *item
	f.items[businessID][item.ID] = &cp
	return nil
}

func (f *fakeRemote) UpdateItemFields(ctx context.Context, businessID, itemID string, patch domain.ItemPatch) error {
	item, ok := f.items[businessID][itemID]
	if !ok {
		return repo.ErrNotFound
	}
	patch.Apply(item)
	return nil
}

func (f *fakeRemote) SoftDeleteItem(ctx context.Context, businessID, itemID string) error {
	item, ok := f.items[businessID][itemID]
	if !ok {
		return repo.ErrNotFound
	}
	item.Deleted = true
	return nil
}

func (f *fakeRemote) FetchItems(ctx context.Context, businessID string) ([]domain.OnboardingItem, error) {
	var out []domain.OnboardingItem
	for _, item := range f.items[businessID] {
		if !item.Deleted {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (f *fakeRemote) PrivateGroups(ctx context.Context, businessID, itemID string) ([]domain.OptionGroup, error) {
	var out []domain.OptionGroup
	for _, g := range f.groups[businessID] {
		if g.OwnerItemID != nil && *g.OwnerItemID == itemID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeRemote) LinkedGroups(ctx context.Context, businessID, itemID string) ([]domain.OptionGroup, error) {
	var out []domain.OptionGroup
	for _, l := range f.links[businessID] {
		if l.ItemID != itemID {
			continue
		}
		if g, ok := f.groups[businessID][l.GroupID]; ok {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeRemote) CreateGroup(ctx context.Context, businessID string, group domain.OptionGroup) error {
	if f.groups[businessID] == nil {
		f.groups[businessID] = make(map[string]domain.OptionGroup)
	}
	if _, exists := f.groups[businessID][group.ID]; exists {
		return fmt.Errorf("duplicate group id %s", group.ID)
	}
	f.groups[businessID][group.ID] = group
	return nil
}

func (f *fakeRemote) UpdateGroup(ctx context.Context, businessID string, group domain.OptionGroup) error {
	if _, ok := f.groups[businessID][group.ID]; !ok {
		return repo.ErrNotFound
	}
	f.groups[businessID][group.ID] = group
	return nil
}

func (f *fakeRemote) DeleteGroup(ctx context.Context, businessID, groupID string) error {
	if _, ok := f.groups[businessID][groupID]; !ok {
		return repo.ErrNotFound
	}
	delete(f.groups[businessID], groupID)
	return nil
}

func (f *fakeRemote) GroupValues(ctx context.Context, businessID, groupID string) ([]domain.OptionValue, error) {
	var out []domain.OptionValue
	for _, v := range f.values[businessID] {
		if v.GroupID == groupID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeRemote) CreateValues(ctx context.Context, businessID string, values []domain.OptionValue) error {
	if f.failCreateValues {
		return fmt.Errorf("remote unavailable")
	}
	if f.values[businessID] == nil {
		f.values[businessID] = make(map[string]domain.OptionValue)
	}
	for _, v := range values {
		f.values[businessID][v.ID] = v
	}
	return nil
}

func (f *fakeRemote) UpdateValue(ctx context.Context, businessID string, value domain.OptionValue) error {
	if f.failUpdateValue {
		return fmt.Errorf("remote unavailable")
	}
	if _, ok := f.values[businessID][value.ID]; !ok {
		return repo.ErrNotFound
	}
	f.values[businessID][value.ID] = value
	return nil
}

func (f *fakeRemote) DeleteValue(ctx context.Context, businessID, valueID string) error {
	if _, ok := f.values[businessID][valueID]; !ok {
		return repo.ErrNotFound
	}
	delete(f.values[businessID], valueID)
	return nil
}

func (f *fakeRemote) CreateLink(ctx context.Context, businessID string, link domain.ItemGroupLink) error {
	if f.links[businessID] == nil {
		f.links[businessID] = make(map[string]domain.ItemGroupLink)
	}
	f.links[businessID][linkKey(link)] = link
	return nil
}

func (f *fakeRemote) DeleteLink(ctx context.Context, businessID string, link domain.ItemGroupLink) error {
	if _, ok := f.links[businessID][linkKey(link)]; !ok {
		return repo.ErrNotFound
	}
	delete(f.links[businessID], linkKey(link))
	return nil
}

func (f *fakeRemote) LinkCount(ctx context.Context, businessID, groupID string) (int, error) {
	n := 0
	for _, l := range f.links[businessID] {
		if l.GroupID == groupID {
			n++
		}
	}
	return n, nil
}

var _ repo.RemoteStore = (*fakeRemote)(nil)
