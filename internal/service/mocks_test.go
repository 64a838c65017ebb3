package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ranbenri-hacklberry/self-service-kiosk-sub003/internal/domain"
	"github.com/ranbenri-hacklberry/self-service-kiosk-sub003/internal/queue"
	"github.com/ranbenri-hacklberry/self-service-kiosk-sub003/internal/repo"
)

func testLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

// --------------------------------------------------
// Mock draft repository (local cache)
// --------------------------------------------------

type mockDrafts struct {
	items   map[string]*domain.OnboardingItem
	failing bool
}

func newMockDrafts() *mockDrafts {
	return &mockDrafts{items: make(map[string]*domain.OnboardingItem)}
}

func (m *mockDrafts) Upsert(ctx context.Context, item *domain.OnboardingItem) error {
	if m.failing {
		return fmt.Errorf("cache unavailable")
	}
	cp := *item
	m.items[item.ID] = &cp
	return nil
}

func (m *mockDrafts) GetByID(ctx context.Context, businessID, itemID string) (*domain.OnboardingItem, error) {
	if m.failing {
		return nil, fmt.Errorf("cache unavailable")
	}
	item, ok := m.items[itemID]
	if !ok || item.BusinessID != businessID {
		return nil, repo.ErrNotFound
	}
	cp := *item
	return &cp, nil
}

func (m *mockDrafts) ListByBusiness(ctx context.Context, businessID string) ([]domain.OnboardingItem, error) {
	var out []domain.OnboardingItem
	for _, item := range m.items {
		if item.BusinessID == businessID {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (m *mockDrafts) Delete(ctx context.Context, businessID, itemID string) error {
	delete(m.items, itemID)
	return nil
}

var _ repo.DraftRepository = (*mockDrafts)(nil)

// --------------------------------------------------
// Mock remote store
// --------------------------------------------------

// mockRemote keeps rows per business and can be switched to fail all
// writes, which is how the offline-queue fallback is exercised.
type mockRemote struct {
	items   map[string]map[string]*domain.OnboardingItem
	groups  map[string]map[string]domain.OptionGroup
	values  map[string]map[string]domain.OptionValue
	links   map[string]map[string]domain.ItemGroupLink
	offline bool
}

func newMockRemote() *mockRemote {
	return &mockRemote{
		items:  make(map[string]map[string]*domain.OnboardingItem),
		groups: make(map[string]map[string]domain.OptionGroup),
		values: make(map[string]map[string]domain.OptionValue),
		links:  make(map[string]map[string]domain.ItemGroupLink),
	}
}

func (m *mockRemote) down() error {
	if m.offline {
		return fmt.Errorf("remote unreachable")
	}
	return nil
}

func (m *mockRemote) UpsertItem(ctx context.Context, businessID string, item *domain.OnboardingItem) error {
	if err := m.down(); err != nil {
		return err
	}
	if m.items[businessID] == nil {
		m.items[businessID] = make(map[string]*domain.OnboardingItem)
	}
	cp := *item
	m.items[businessID][item.ID] = &cp
	return nil
}

func (m *mockRemote) UpdateItemFields(ctx context.Context, businessID, itemID string, patch domain.ItemPatch) error {
	if err := m.down(); err != nil {
		return err
	}
	item, ok := m.items[businessID][itemID]
	if !ok {
		return repo.ErrNotFound
	}
	patch.Apply(item)
	return nil
}

func (m *mockRemote) SoftDeleteItem(ctx context.Context, businessID, itemID string) error {
	if err := m.down(); err != nil {
		return err
	}
	item, ok := m.items[businessID][itemID]
	if !ok {
		return repo.ErrNotFound
	}
	item.Deleted = true
	return nil
}

func (m *mockRemote) FetchItems(ctx context.Context, businessID string) ([]domain.OnboardingItem, error) {
	if err := m.down(); err != nil {
		return nil, err
	}
	var out []domain.OnboardingItem
	for _, item := range m.items[businessID] {
		if !item.Deleted {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (m *mockRemote) PrivateGroups(ctx context.Context, businessID, itemID string) ([]domain.OptionGroup, error) {
	if err := m.down(); err != nil {
		return nil, err
	}
	var out []domain.OptionGroup
	for _, g := range m.groups[businessID] {
		if g.OwnerItemID != nil && *g.OwnerItemID == itemID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (m *mockRemote) LinkedGroups(ctx context.Context, businessID, itemID string) ([]domain.OptionGroup, error) {
	if err := m.down(); err != nil {
		return nil, err
	}
	var out []domain.OptionGroup
	for _, l := range m.links[businessID] {
		if l.ItemID != itemID {
			continue
		}
		if g, ok := m.groups[businessID][l.GroupID]; ok {
			out = append(out, g)
		}
	}
	return out, nil
}

func (m *mockRemote) CreateGroup(ctx context.Context, businessID string, group domain.OptionGroup) error {
	if err := m.down(); err != nil {
		return err
	}
	if m.groups[businessID] == nil {
		m.groups[businessID] = make(map[string]domain.OptionGroup)
	}
	m.groups[businessID][group.ID] = group
	return nil
}

func (m *mockRemote) UpdateGroup(ctx context.Context, businessID string, group domain.OptionGroup) error {
	if err := m.down(); err != nil {
		return err
	}
	if _, ok := m.groups[businessID][group.ID]; !ok {
		return repo.ErrNotFound
	}
	m.groups[businessID][group.ID] = group
	return nil
}

func (m *mockRemote) DeleteGroup(ctx context.Context, businessID, groupID string) error {
	if err := m.down(); err != nil {
		return err
	}
	delete(m.groups[businessID], groupID)
	return nil
}

func (m *mockRemote) GroupValues(ctx context.Context, businessID, groupID string) ([]domain.OptionValue, error) {
	if err := m.down(); err != nil {
		return nil, err
	}
	var out []domain.OptionValue
	for _, v := range m.values[businessID] {
		if v.GroupID == groupID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (m *mockRemote) CreateValues(ctx context.Context, businessID string, values []domain.OptionValue) error {
	if err := m.down(); err != nil {
		return err
	}
	if m.values[businessID] == nil {
		m.values[businessID] = make(map[string]domain.OptionValue)
	}
	for _, v := range values {
		m.values[businessID][v.ID] = v
	}
	return nil
}

func (m *mockRemote) UpdateValue(ctx context.Context, businessID string, value domain.OptionValue) error {
	if err := m.down(); err != nil {
		return err
	}
	if _, ok := m.values[businessID][value.ID]; !ok {
		return repo.ErrNotFound
	}
	m.values[businessID][value.ID] = value
	return nil
}

func (m *mockRemote) DeleteValue(ctx context.Context, businessID, valueID string) error {
	if err := m.down(); err != nil {
		return err
	}
	delete(m.values[businessID], valueID)
	return nil
}

func (m *mockRemote) CreateLink(ctx context.Context, businessID string, link domain.ItemGroupLink) error {
	if err := m.down(); err != nil {
		return err
	}
	if m.links[businessID] == nil {
		m.links[businessID] = make(map[string]domain.ItemGroupLink)
	}
	m.links[businessID][link.ItemID+"|"+link.GroupID] = link
	return nil
}

func (m *mockRemote) DeleteLink(ctx context.Context, businessID string, link domain.ItemGroupLink) error {
	if err := m.down(); err != nil {
		return err
	}
	delete(m.links[businessID], link.ItemID+"|"+link.GroupID)
	return nil
}

func (m *mockRemote) LinkCount(ctx context.Context, businessID, groupID string) (int, error) {
	if err := m.down(); err != nil {
		return 0, err
	}
	n := 0
	for _, l := range m.links[businessID] {
		if l.GroupID == groupID {
			n++
		}
	}
	return n, nil
}

var _ repo.RemoteStore = (*mockRemote)(nil)

// --------------------------------------------------
// Mock broker (captures offline queue publishes)
// --------------------------------------------------

type mockBroker struct {
	published map[string][][]byte
	failing   bool
}

func newMockBroker() *mockBroker {
	return &mockBroker{published: make(map[string][][]byte)}
}

func (m *mockBroker) Publish(ctx context.Context, queueName string, message []byte) error {
	if m.failing {
		return fmt.Errorf("broker unreachable")
	}
	m.published[queueName] = append(m.published[queueName], message)
	return nil
}

func (m *mockBroker) Subscribe(ctx context.Context, queueName string, handler queue.MessageHandler) error {
	return nil
}

func (m *mockBroker) Close() error { return nil }

var _ queue.Broker = (*mockBroker)(nil)
