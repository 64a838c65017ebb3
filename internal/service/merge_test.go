package service

import (
	"reflect"
	"testing"

	"github.com/ranbenri-hacklberry/self-service-kiosk-sub003/internal/domain"
)

func TestMergeSnapshotsFieldPrecedence(t *testing.T) {
	local := []domain.OnboardingItem{
		{
			ID:         "local-1",
			BusinessID: "biz1",
			Category:   "Drinks",
			Name:       "Latte",
			Price:      5,
			// unsynced local edit
			Description: "Our house latte",
		},
	}
	remote := []domain.OnboardingItem{
		{
			ID:          "remote-1",
			BusinessID:  "biz1",
			Category:    "drinks",
			Name:        " latte ",
			Price:       4,
			ImageURL:    "https://cdn.example/latte.png",
			Ingredients: "espresso, milk",
			Modifiers: []domain.ModifierGroup{
				{RemoteID: "g1", Name: "Milk", Requirement: domain.RequirementOptional, Logic: domain.LogicAdd, MaxSelection: 1,
					Items: []domain.ModifierItem{{Name: "Soy", Price: 3}}},
			},
		},
	}

	merged := mergeSnapshots(local, remote)
	if len(merged) != 1 {
		t.Fatalf("expected 1 item, got %d", len(merged))
	}

	got := merged[0]
	if got.ID != "remote-1" {
		t.Errorf("id = %q, want server identity remote-1", got.ID)
	}
	if !got.Synced {
		t.Error("matched item should be marked synced")
	}
	// Empty local fields adopt the remote values.
	if got.ImageURL != "https://cdn.example/latte.png" || got.Ingredients != "espresso, milk" {
		t.Errorf("remote fields not adopted: %+v", got)
	}
	if len(got.Modifiers) != 1 || got.Modifiers[0].RemoteID != "g1" {
		t.Errorf("remote modifiers not adopted: %+v", got.Modifiers)
	}
	// Local edits win for everything else.
	if got.Price != 5 || got.Description != "Our house latte" {
		t.Errorf("local edits lost: %+v", got)
	}
}

func TestMergeSnapshotsLocalModifiersWin(t *testing.T) {
	localGroups := []domain.ModifierGroup{
		{Name: "Size", Requirement: domain.RequirementMandatory, Logic: domain.LogicReplace, MinSelection: 1, MaxSelection: 1,
			Items: []domain.ModifierItem{{Name: "Small", IsDefault: true}}},
	}
	local := []domain.OnboardingItem{
		{ID: "a", Category: "Drinks", Name: "Latte", Modifiers: localGroups},
	}
	remote := []domain.OnboardingItem{
		{ID: "a", Category: "Drinks", Name: "Latte", Modifiers: []domain.ModifierGroup{{Name: "Other"}}},
	}

	merged := mergeSnapshots(local, remote)
	if !reflect.DeepEqual(merged[0].Modifiers, localGroups) {
		t.Errorf("local modifiers overwritten: %+v", merged[0].Modifiers)
	}
}

func TestMergeSnapshotsAppendsAndKeeps(t *testing.T) {
	local := []domain.OnboardingItem{
		{ID: "l1", Category: "Food", Name: "Burger"},
	}
	remote := []domain.OnboardingItem{
		{ID: "r1", Category: "Drinks", Name: "Cola"},
	}

	merged := mergeSnapshots(local, remote)
	if len(merged) != 2 {
		t.Fatalf("expected 2 items, got %d", len(merged))
	}

	byID := make(map[string]domain.OnboardingItem)
	for _, it := range merged {
		byID[it.ID] = it
	}
	if _, ok := byID["r1"]; !ok {
		t.Error("remote-only item not appended")
	}
	if it, ok := byID["l1"]; !ok || it.Synced {
		t.Error("local-only item should be kept pending creation")
	}
}

func TestMergeSnapshotsDuplicateSuppression(t *testing.T) {
	local := []domain.OnboardingItem{
		{ID: "a", Category: "Drinks", Name: "Latte", Price: 5},
		{ID: "b", Category: "drinks", Name: "LATTE ", Price: 6},
	}

	merged := mergeSnapshots(local, nil)
	if len(merged) != 1 {
		t.Fatalf("expected 1 item after dedupe, got %d", len(merged))
	}
	if merged[0].ID != "a" {
		t.Errorf("first occurrence should win, got %q", merged[0].ID)
	}
}

func TestMergeSnapshotsIdempotent(t *testing.T) {
	local := []domain.OnboardingItem{
		{ID: "l1", Category: "Food", Name: "Burger", Description: "edited"},
	}
	remote := []domain.OnboardingItem{
		{ID: "r1", Category: "Food", Name: "Burger", ImageURL: "img", Ingredients: "beef"},
		{ID: "r2", Category: "Drinks", Name: "Cola"},
	}

	once := mergeSnapshots(local, remote)
	twice := mergeSnapshots(once, remote)

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("merge not idempotent:\nonce:  %+v\ntwice: %+v", once, twice)
	}
}
