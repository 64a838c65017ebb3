// Package validate checks semantic invariants on parsed modifier groups.
// Issues are advisory: they are surfaced to the editing UI and never block
// persistence or synchronization.
package validate

import (
	"strings"

	"github.com/ranbenri-hacklberry/self-service-kiosk-sub003/internal/domain"
)

const (
	MsgMissingDefault  = "Missing default option"
	MsgDuplicateOption = "Duplicate option name"
	MsgMinExceedsMax   = "Min selection exceeds max selection"
)

type Issue struct {
	Group   string `json:"group"`
	Message string `json:"message"`
}

// Check inspects every group and reports violations. It never fails.
func Check(groups []domain.ModifierGroup) []Issue {
	var issues []Issue

	for _, g := range groups {
		if g.Requirement == domain.RequirementMandatory && g.DefaultCount() == 0 {
			issues = append(issues, Issue{Group: g.Name, Message: MsgMissingDefault})
		}

		seen := make(map[string]bool, len(g.Items))
		reported := false
		for _, it := range g.Items {
			key := strings.ToLower(strings.TrimSpace(it.Name))
			if seen[key] && !reported {
				issues = append(issues, Issue{Group: g.Name, Message: MsgDuplicateOption})
				reported = true
			}
			seen[key] = true
		}

		if g.MinSelection > g.MaxSelection {
			issues = append(issues, Issue{Group: g.Name, Message: MsgMinExceedsMax})
		}
	}

	return issues
}
