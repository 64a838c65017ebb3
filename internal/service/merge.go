package service

import (
	"sort"

	"github.com/ranbenri-hacklberry/self-service-kiosk-sub003/internal/domain"
)

// mergeSnapshots reconciles the local cached draft with the authoritative
// remote snapshot. Per-field precedence: non-empty remote image/ingredients
// /modifiers win when the local field is empty (local never saw them),
// otherwise the local copy wins because it may carry unsynced edits.
// Remote-only items are appended; local-only items stay pending creation.
// Duplicates collapse on the (category, name) identity key, first
// occurrence wins. The merge is idempotent: feeding its output back with
// the same remote snapshot yields the same result.
func mergeSnapshots(local, remote []domain.OnboardingItem) []domain.OnboardingItem {
	local = dedupe(local)
	remote = dedupe(remote)

	remoteByID := make(map[string]domain.OnboardingItem, len(remote))
	remoteByKey := make(map[string]domain.OnboardingItem, len(remote))
	for _, it := range remote {
		remoteByID[it.ID] = it
		remoteByKey[it.IdentityKey()] = it
	}

	claimed := make(map[string]bool, len(local))
	merged := make([]domain.OnboardingItem, 0, len(local)+len(remote))

	for _, loc := range local {
		rem, ok := remoteByID[loc.ID]
		if !ok {
			rem, ok = remoteByKey[loc.IdentityKey()]
		}
		if !ok {
			loc.Synced = false
			merged = append(merged, loc)
			continue
		}

		claimed[rem.ID] = true
		merged = append(merged, mergeFields(loc, rem))
	}

	for _, rem := range remote {
		if !claimed[rem.ID] {
			merged = append(merged, rem)
		}
	}

	sort.Slice(merged, func(i, j int) bool {
		if merged[i].Category != merged[j].Category {
			return merged[i].Category < merged[j].Category
		}
		return merged[i].Name < merged[j].Name
	})

	return merged
}

func mergeFields(local, remote domain.OnboardingItem) domain.OnboardingItem {
	out := local
	// Adopt the server identity so later writes target the same row.
	out.ID = remote.ID
	out.Synced = true

	if out.ImageURL == "" && remote.ImageURL != "" {
		out.ImageURL = remote.ImageURL
	}
	if out.Ingredients == "" && remote.Ingredients != "" {
		out.Ingredients = remote.Ingredients
	}
	if len(out.Modifiers) == 0 && len(remote.Modifiers) > 0 {
		out.Modifiers = remote.Modifiers
	}

	return out
}

func dedupe(items []domain.OnboardingItem) []domain.OnboardingItem {
	seen := make(map[string]bool, len(items))
	out := items[:0:0]
	for _, it := range items {
		key := it.IdentityKey()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, it)
	}
	return out
}
