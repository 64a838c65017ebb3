package validate

import (
	"testing"

	"github.com/ranbenri-hacklberry/self-service-kiosk-sub003/internal/domain"
)

func group(name string, req domain.Requirement, items ...domain.ModifierItem) domain.ModifierGroup {
	min := 0
	if req == domain.RequirementMandatory {
		min = 1
	}
	return domain.ModifierGroup{
		Name:         name,
		Requirement:  req,
		Logic:        domain.LogicReplace,
		MinSelection: min,
		MaxSelection: 1,
		Items:        items,
	}
}

func TestCheckMissingDefault(t *testing.T) {
	tests := []struct {
		name   string
		groups []domain.ModifierGroup
		want   int
	}{
		{
			"mandatory with default is clean",
			[]domain.ModifierGroup{group("Milk", domain.RequirementMandatory,
				domain.ModifierItem{Name: "Regular", IsDefault: true},
				domain.ModifierItem{Name: "Soy", Price: 3})},
			0,
		},
		{
			"mandatory without default is flagged",
			[]domain.ModifierGroup{group("Milk", domain.RequirementMandatory,
				domain.ModifierItem{Name: "Regular"},
				domain.ModifierItem{Name: "Soy", Price: 3})},
			1,
		},
		{
			"optional without default is fine",
			[]domain.ModifierGroup{group("Sweetness", domain.RequirementOptional,
				domain.ModifierItem{Name: "Sugar"})},
			0,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			issues := Check(tc.groups)
			if len(issues) != tc.want {
				t.Fatalf("got %d issues (%v), want %d", len(issues), issues, tc.want)
			}
			if tc.want == 1 {
				if issues[0].Message != MsgMissingDefault || issues[0].Group != "Milk" {
					t.Errorf("issue = %+v", issues[0])
				}
			}
		})
	}
}

func TestCheckDuplicateOption(t *testing.T) {
	g := group("Toppings", domain.RequirementOptional,
		domain.ModifierItem{Name: "Onion"},
		domain.ModifierItem{Name: "onion "},
		domain.ModifierItem{Name: "Cheese"})

	issues := Check([]domain.ModifierGroup{g})
	if len(issues) != 1 {
		t.Fatalf("got %d issues (%v), want 1", len(issues), issues)
	}
	if issues[0].Message != MsgDuplicateOption {
		t.Errorf("message = %q", issues[0].Message)
	}
}

func TestCheckMinExceedsMax(t *testing.T) {
	g := group("Sauces", domain.RequirementMandatory,
		domain.ModifierItem{Name: "Ketchup", IsDefault: true})
	g.MinSelection = 2
	g.MaxSelection = 1

	issues := Check([]domain.ModifierGroup{g})
	if len(issues) != 1 || issues[0].Message != MsgMinExceedsMax {
		t.Fatalf("issues = %v", issues)
	}
}

func TestCheckNeverFails(t *testing.T) {
	if issues := Check(nil); issues != nil {
		t.Errorf("Check(nil) = %v, want nil", issues)
	}
}
