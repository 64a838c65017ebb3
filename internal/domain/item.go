package domain

import (
	"strings"
	"time"
)

// OnboardingItem is the denormalized draft of one menu item as edited
// during onboarding. It lives in the local cache and is projected onto
// the remote relational tables by the synchronizer.
type OnboardingItem struct {
	ID             string          `bson:"_id" json:"id"`
	BusinessID     string          `bson:"business_id" json:"business_id"`
	Category       string          `bson:"category" json:"category"`
	Name           string          `bson:"name" json:"name"`
	Price          float64         `bson:"price" json:"price"`
	Description    string          `bson:"description,omitempty" json:"description,omitempty"`
	ProductionArea string          `bson:"production_area,omitempty" json:"production_area,omitempty"`
	Ingredients    string          `bson:"ingredients,omitempty" json:"ingredients,omitempty"`
	ImageURL       string          `bson:"image_url,omitempty" json:"image_url,omitempty"`
	Modifiers      []ModifierGroup `bson:"modifiers" json:"modifiers"`
	Deleted        bool            `bson:"deleted" json:"deleted"`
	Synced         bool            `bson:"synced" json:"synced"`
	CreatedAt      time.Time       `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time       `bson:"updated_at" json:"updated_at"`
}

// IdentityKey matches items across local and remote snapshots when no
// shared id exists yet. Also the duplicate-suppression key.
func (i OnboardingItem) IdentityKey() string {
	return strings.ToLower(i.Category) + "\x00" + strings.ToLower(strings.TrimSpace(i.Name))
}

// Clone returns a copy that shares no slices with the receiver, so the
// copy can cross a goroutine boundary while the original keeps changing.
func (i OnboardingItem) Clone() OnboardingItem {
	cp := i
	if i.Modifiers != nil {
		cp.Modifiers = make([]ModifierGroup, len(i.Modifiers))
		for j, g := range i.Modifiers {
			cp.Modifiers[j] = g.Clone()
		}
	}
	return cp
}

// ItemPatch is a partial update; nil fields are left untouched.
type ItemPatch struct {
	Category       *string          `json:"category,omitempty"`
	Name           *string          `json:"name,omitempty"`
	Price          *float64         `json:"price,omitempty"`
	Description    *string          `json:"description,omitempty"`
	ProductionArea *string          `json:"production_area,omitempty"`
	Ingredients    *string          `json:"ingredients,omitempty"`
	ImageURL       *string          `json:"image_url,omitempty"`
	Modifiers      *[]ModifierGroup `json:"modifiers,omitempty"`
}

// Apply merges the patch into the item in place.
func (p ItemPatch) Apply(item *OnboardingItem) {
	if p.Category != nil {
		item.Category = *p.Category
	}
	if p.Name != nil {
		item.Name = *p.Name
	}
	if p.Price != nil {
		item.Price = *p.Price
	}
	if p.Description != nil {
		item.Description = *p.Description
	}
	if p.ProductionArea != nil {
		item.ProductionArea = *p.ProductionArea
	}
	if p.Ingredients != nil {
		item.Ingredients = *p.Ingredients
	}
	if p.ImageURL != nil {
		item.ImageURL = *p.ImageURL
	}
	if p.Modifiers != nil {
		item.Modifiers = *p.Modifiers
	}
}
