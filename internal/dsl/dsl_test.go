package dsl

import (
	"reflect"
	"testing"

	"github.com/ranbenri-hacklberry/self-service-kiosk-sub003/internal/domain"
)

func TestDecodeTwoGroups(t *testing.T) {
	input := "Milk [M|R|1]:Regular{D},Soy[3],Oat[3]; Sweetness [O|A|1]:Sugar,Honey[2]"

	groups, warnings := Decode(input)
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}

	milk := groups[0]
	if milk.Name != "Milk" {
		t.Errorf("group name = %q, want Milk", milk.Name)
	}
	if milk.Requirement != domain.RequirementMandatory || milk.Logic != domain.LogicReplace {
		t.Errorf("milk flags = %s/%s, want mandatory/replace", milk.Requirement, milk.Logic)
	}
	if milk.MinSelection != 1 || milk.MaxSelection != 1 {
		t.Errorf("milk bounds = %d/%d, want 1/1", milk.MinSelection, milk.MaxSelection)
	}
	wantMilk := []domain.ModifierItem{
		{Name: "Regular", IsDefault: true},
		{Name: "Soy", Price: 3},
		{Name: "Oat", Price: 3},
	}
	if !reflect.DeepEqual(milk.Items, wantMilk) {
		t.Errorf("milk items = %+v, want %+v", milk.Items, wantMilk)
	}
	if milk.RenderHint() != domain.RenderRadio {
		t.Errorf("milk render hint = %s, want radio", milk.RenderHint())
	}

	sweet := groups[1]
	if sweet.Requirement != domain.RequirementOptional || sweet.Logic != domain.LogicAdd {
		t.Errorf("sweetness flags = %s/%s, want optional/add", sweet.Requirement, sweet.Logic)
	}
	if sweet.MinSelection != 0 || sweet.MaxSelection != 1 {
		t.Errorf("sweetness bounds = %d/%d, want 0/1", sweet.MinSelection, sweet.MaxSelection)
	}
	wantSweet := []domain.ModifierItem{
		{Name: "Sugar"},
		{Name: "Honey", Price: 2},
	}
	if !reflect.DeepEqual(sweet.Items, wantSweet) {
		t.Errorf("sweetness items = %+v, want %+v", sweet.Items, wantSweet)
	}
	if sweet.RenderHint() != domain.RenderCheckbox {
		t.Errorf("sweetness render hint = %s, want checkbox", sweet.RenderHint())
	}
}

func TestDecodeDefaults(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		req     domain.Requirement
		logic   domain.SelectionLogic
		min     int
		max     int
	}{
		{"no flag block", "Extras:Onion,Cheese", domain.RequirementOptional, domain.LogicAdd, 0, domain.MaxSelectionUnlimited},
		{"replace default max", "Size [M|R]:Small,Large", domain.RequirementMandatory, domain.LogicReplace, 1, 1},
		{"add default max", "Addons [O|A]:Onion", domain.RequirementOptional, domain.LogicAdd, 0, domain.MaxSelectionUnlimited},
		{"explicit max wins", "Addons [O|A|3]:Onion[2],ExtraCheese[5]", domain.RequirementOptional, domain.LogicAdd, 0, 3},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			groups, warnings := Decode(tc.input)
			if len(warnings) != 0 {
				t.Fatalf("unexpected warnings: %v", warnings)
			}
			if len(groups) != 1 {
				t.Fatalf("expected 1 group, got %d", len(groups))
			}
			g := groups[0]
			if g.Requirement != tc.req || g.Logic != tc.logic || g.MinSelection != tc.min || g.MaxSelection != tc.max {
				t.Errorf("got %s/%s min=%d max=%d, want %s/%s min=%d max=%d",
					g.Requirement, g.Logic, g.MinSelection, g.MaxSelection,
					tc.req, tc.logic, tc.min, tc.max)
			}
		})
	}
}

func TestDecodeMalformed(t *testing.T) {
	t.Run("segment without colon is dropped with warning", func(t *testing.T) {
		groups, warnings := Decode("BadGroupNoColon")
		if len(groups) != 0 {
			t.Fatalf("expected no groups, got %d", len(groups))
		}
		if len(warnings) != 1 {
			t.Fatalf("expected 1 warning, got %d", len(warnings))
		}
	})

	t.Run("malformed option falls back to plain name", func(t *testing.T) {
		groups, warnings := Decode("Extras [O|A|2]:Weird)))")
		if len(warnings) != 0 {
			t.Fatalf("unexpected warnings: %v", warnings)
		}
		if len(groups) != 1 || len(groups[0].Items) != 1 {
			t.Fatalf("expected 1 group with 1 item, got %+v", groups)
		}
		it := groups[0].Items[0]
		if it.Name != "Weird)))" || it.Price != 0 || it.IsDefault {
			t.Errorf("fallback item = %+v", it)
		}
	})

	t.Run("unparseable price falls back to full text", func(t *testing.T) {
		groups, _ := Decode("Extras [O|A|2]:Onion[abc]")
		if len(groups) != 1 || groups[0].Items[0].Name != "Onion[abc]" {
			t.Fatalf("got %+v", groups)
		}
	})

	t.Run("group with no options is dropped with warning", func(t *testing.T) {
		groups, warnings := Decode("Empty [O|A|1]: , ,")
		if len(groups) != 0 {
			t.Fatalf("expected no groups, got %+v", groups)
		}
		if len(warnings) != 1 {
			t.Fatalf("expected 1 warning, got %d", len(warnings))
		}
	})

	t.Run("blank segments are ignored silently", func(t *testing.T) {
		groups, warnings := Decode(" ; ;Milk [M|R|1]:Regular{D}; ")
		if len(groups) != 1 || len(warnings) != 0 {
			t.Fatalf("groups=%d warnings=%d", len(groups), len(warnings))
		}
	})

	t.Run("bad group header is dropped with warning", func(t *testing.T) {
		groups, warnings := Decode("Milk [X|Y|1]:Regular")
		if len(groups) != 0 || len(warnings) != 1 {
			t.Fatalf("groups=%d warnings=%d", len(groups), len(warnings))
		}
	})
}

func TestDecodeNegativePrice(t *testing.T) {
	groups, _ := Decode("Discounts [O|A|1]:NoCheese[-1.5]")
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	if got := groups[0].Items[0].Price; got != -1.5 {
		t.Errorf("price = %v, want -1.5", got)
	}
}

func TestRoundTrip(t *testing.T) {
	inputs := [][]domain.ModifierGroup{
		{
			{
				Name:         "Milk",
				Requirement:  domain.RequirementMandatory,
				Logic:        domain.LogicReplace,
				MinSelection: 1,
				MaxSelection: 1,
				Items: []domain.ModifierItem{
					{Name: "Regular", IsDefault: true},
					{Name: "Soy", Price: 3},
					{Name: "Oat", Price: 3.5},
				},
			},
			{
				Name:         "Add-ons",
				Requirement:  domain.RequirementOptional,
				Logic:        domain.LogicAdd,
				MaxSelection: 3,
				Items: []domain.ModifierItem{
					{Name: "Onion", Price: 2},
					{Name: "No Cheese", Price: -1},
				},
			},
		},
		{
			{
				Name:         "Sweetness",
				Requirement:  domain.RequirementOptional,
				Logic:        domain.LogicAdd,
				MaxSelection: domain.MaxSelectionUnlimited,
				Items:        []domain.ModifierItem{{Name: "Sugar"}},
			},
		},
	}

	for _, groups := range inputs {
		encoded := Encode(groups)
		decoded, warnings := Decode(encoded)
		if len(warnings) != 0 {
			t.Fatalf("round-trip warnings for %q: %v", encoded, warnings)
		}
		if !reflect.DeepEqual(decoded, groups) {
			t.Errorf("round trip mismatch\nencoded: %s\n got: %+v\nwant: %+v", encoded, decoded, groups)
		}
	}
}

func TestEncodeCleansReservedNameCharacters(t *testing.T) {
	// Names straight from the shared catalog never went through Decode
	// and can carry grammar delimiters.
	groups := []domain.ModifierGroup{
		{
			Name:         "Syrups; extra [house]",
			Requirement:  domain.RequirementOptional,
			Logic:        domain.LogicAdd,
			MaxSelection: 2,
			Items: []domain.ModifierItem{
				{Name: "Vanilla, double:shot", Price: 1.5},
				{Name: "Caramel{D}", IsDefault: true},
			},
		},
	}

	decoded, warnings := Decode(Encode(groups))
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if len(decoded) != 1 {
		t.Fatalf("expected 1 group, got %d", len(decoded))
	}
	if decoded[0].Name != "Syrups extra house" {
		t.Errorf("group name = %q, want %q", decoded[0].Name, "Syrups extra house")
	}
	wantItems := []domain.ModifierItem{
		{Name: "Vanilla double shot", Price: 1.5},
		{Name: "CaramelD", IsDefault: true},
	}
	if !reflect.DeepEqual(decoded[0].Items, wantItems) {
		t.Errorf("items = %+v, want %+v", decoded[0].Items, wantItems)
	}
}
