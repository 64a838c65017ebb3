package domain

// Remote table names. Every statement against these tables must filter by
// business_id; an unscoped filter is how option values leak between
// unrelated businesses sharing the same remote store.
const (
	TableMenuItems      = "menu_items"
	TableOptionGroups   = "option_groups"
	TableOptionValues   = "option_values"
	TableItemGroupLinks = "item_group_links"
)

// OptionGroup is the relational projection of a ModifierGroup.
// Ownership is explicit at creation time: OwnerItemID set means the group
// is private to that item; nil means it is shared and reachable only
// through item_group_links rows.
type OptionGroup struct {
	ID            string  `json:"id"`
	BusinessID    string  `json:"business_id"`
	OwnerItemID   *string `json:"owner_item_id,omitempty"`
	Name          string  `json:"name"`
	IsRequired    bool    `json:"is_required"`
	IsReplacement bool    `json:"is_replacement"`
	MinSelection  int     `json:"min_selection"`
	MaxSelection  int     `json:"max_selection"`
}

func (g OptionGroup) Private() bool { return g.OwnerItemID != nil }

type OptionValue struct {
	ID              string  `json:"id"`
	GroupID         string  `json:"group_id"`
	Name            string  `json:"name"`
	PriceAdjustment float64 `json:"price_adjustment"`
	IsDefault       bool    `json:"is_default"`
}

// ItemGroupLink is the junction row tying a shared group to an item.
// Private groups need no link; ownership is their only association.
type ItemGroupLink struct {
	ItemID  string `json:"item_id"`
	GroupID string `json:"group_id"`
}

// GroupToRelational projects a ModifierGroup onto its option_groups row.
func GroupToRelational(g ModifierGroup, businessID string, ownerItemID *string) OptionGroup {
	return OptionGroup{
		ID:            g.RemoteID,
		BusinessID:    businessID,
		OwnerItemID:   ownerItemID,
		Name:          g.Name,
		IsRequired:    g.Requirement == RequirementMandatory,
		IsReplacement: g.Logic == LogicReplace,
		MinSelection:  g.MinSelection,
		MaxSelection:  g.MaxSelection,
	}
}

// GroupFromRelational rebuilds a ModifierGroup from its rows.
func GroupFromRelational(g OptionGroup, values []OptionValue) ModifierGroup {
	mg := ModifierGroup{
		RemoteID:     g.ID,
		Name:         g.Name,
		Requirement:  RequirementOptional,
		Logic:        LogicAdd,
		MinSelection: g.MinSelection,
		MaxSelection: g.MaxSelection,
	}
	if g.IsRequired {
		mg.Requirement = RequirementMandatory
	}
	if g.IsReplacement {
		mg.Logic = LogicReplace
	}
	for _, v := range values {
		mg.Items = append(mg.Items, ModifierItem{
			Name:      v.Name,
			Price:     v.PriceAdjustment,
			IsDefault: v.IsDefault,
		})
	}
	return mg
}
