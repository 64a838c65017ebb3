// Package dsl converts between the compact modifier text format stored in
// spreadsheet cells and the structured ModifierGroup model.
//
// A modifier string is a list of groups separated by ";". Each group is
// "meta:options" where meta is a name with an optional "[M|R|3]" flag block
// (requirement, logic, max selection) and options are comma-separated
// "name[price]{D}" entries.
package dsl

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ranbenri-hacklberry/self-service-kiosk-sub003/internal/domain"
)

// Warning reports a segment that could not be decoded. Malformed input is
// tolerated (spreadsheet cells are free text) but never dropped silently.
type Warning struct {
	Segment string
	Reason  string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %q", w.Reason, w.Segment)
}

var (
	// name, then optional [M|R|3] block; max selection may be omitted.
	metaRe = regexp.MustCompile(`^\s*([^\[\]]+?)\s*(?:\[\s*([MO])\s*\|\s*([RA])\s*(?:\|\s*(\d+)\s*)?\])?\s*$`)

	// name, optional [signed price], optional {D}.
	optionRe = regexp.MustCompile(`^\s*([^\[\]{}]+?)\s*(?:\[\s*(-?\d+(?:\.\d+)?)\s*\])?\s*(\{D\})?\s*$`)
)

// Decode parses a modifier string. Malformed group segments are skipped and
// reported as warnings; malformed options fall back to being treated as a
// plain option name so guest-facing choices are not lost.
func Decode(s string) ([]domain.ModifierGroup, []Warning) {
	var (
		groups   []domain.ModifierGroup
		warnings []Warning
	)

	for _, segment := range strings.Split(s, ";") {
		if strings.TrimSpace(segment) == "" {
			continue
		}

		meta, options, found := strings.Cut(segment, ":")
		if !found {
			warnings = append(warnings, Warning{Segment: strings.TrimSpace(segment), Reason: "group has no colon separator"})
			continue
		}

		group, ok := decodeMeta(meta)
		if !ok {
			warnings = append(warnings, Warning{Segment: strings.TrimSpace(segment), Reason: "unrecognized group header"})
			continue
		}

		for _, opt := range strings.Split(options, ",") {
			if item, ok := decodeOption(opt); ok {
				group.Items = append(group.Items, item)
			}
		}

		if len(group.Items) == 0 {
			warnings = append(warnings, Warning{Segment: strings.TrimSpace(segment), Reason: "group has no options"})
			continue
		}

		groups = append(groups, group)
	}

	return groups, warnings
}

func decodeMeta(meta string) (domain.ModifierGroup, bool) {
	m := metaRe.FindStringSubmatch(meta)
	if m == nil {
		return domain.ModifierGroup{}, false
	}

	group := domain.ModifierGroup{
		Name:        m[1],
		Requirement: domain.RequirementOptional,
		Logic:       domain.LogicAdd,
	}
	if m[2] == "M" {
		group.Requirement = domain.RequirementMandatory
		group.MinSelection = 1
	}
	if m[3] == "R" {
		group.Logic = domain.LogicReplace
	}

	switch {
	case m[4] != "":
		max, err := strconv.Atoi(m[4])
		if err != nil || max < 1 {
			return domain.ModifierGroup{}, false
		}
		group.MaxSelection = max
	case group.Logic == domain.LogicReplace:
		group.MaxSelection = 1
	default:
		group.MaxSelection = domain.MaxSelectionUnlimited
	}

	return group, true
}

func decodeOption(opt string) (domain.ModifierItem, bool) {
	m := optionRe.FindStringSubmatch(opt)
	if m == nil {
		// Free-text fallback: keep the whole trimmed cell content as the
		// option name rather than losing a guest-facing choice.
		name := strings.TrimSpace(opt)
		if name == "" {
			return domain.ModifierItem{}, false
		}
		return domain.ModifierItem{Name: name}, true
	}

	item := domain.ModifierItem{
		Name:      m[1],
		IsDefault: m[3] != "",
	}
	if m[2] != "" {
		// Regexp guarantees a parseable signed decimal.
		item.Price, _ = strconv.ParseFloat(m[2], 64)
	}
	return item, true
}
