package domain

// Requirement says whether a guest must pick from the group.
type Requirement string

const (
	RequirementMandatory Requirement = "mandatory"
	RequirementOptional  Requirement = "optional"
)

// SelectionLogic says whether a picked option replaces the base item
// configuration or is added on top of it.
type SelectionLogic string

const (
	LogicReplace SelectionLogic = "replace"
	LogicAdd     SelectionLogic = "add"
)

type RenderHint string

const (
	RenderRadio    RenderHint = "radio"
	RenderCheckbox RenderHint = "checkbox"
)

// MaxSelectionUnlimited is the practical cap used when an ADD group
// carries no explicit selection limit.
const MaxSelectionUnlimited = 99

type ModifierItem struct {
	Name      string  `bson:"name" json:"name"`
	Price     float64 `bson:"price" json:"price"`
	IsDefault bool    `bson:"is_default" json:"is_default"`
}

// ModifierGroup is one group of selectable options on a menu item.
// RemoteID is the server-assigned option_groups row id, empty until the
// group has been synchronized at least once.
type ModifierGroup struct {
	RemoteID     string         `bson:"remote_id,omitempty" json:"remote_id,omitempty"`
	Name         string         `bson:"name" json:"name"`
	Items        []ModifierItem `bson:"items" json:"items"`
	Requirement  Requirement    `bson:"requirement" json:"requirement"`
	Logic        SelectionLogic `bson:"logic" json:"logic"`
	MinSelection int            `bson:"min_selection" json:"min_selection"`
	MaxSelection int            `bson:"max_selection" json:"max_selection"`
}

// Clone returns a copy with its own Items slice.
func (g ModifierGroup) Clone() ModifierGroup {
	cp := g
	if g.Items != nil {
		cp.Items = append([]ModifierItem(nil), g.Items...)
	}
	return cp
}

// RenderHint is derived, never stored: radio when the guest must pick
// exactly one, checkbox otherwise.
func (g ModifierGroup) RenderHint() RenderHint {
	if g.Requirement == RequirementMandatory && g.MaxSelection == 1 {
		return RenderRadio
	}
	return RenderCheckbox
}

func (g ModifierGroup) DefaultCount() int {
	n := 0
	for _, it := range g.Items {
		if it.IsDefault {
			n++
		}
	}
	return n
}
