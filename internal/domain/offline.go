package domain

import (
	"encoding/json"
	"time"
)

type ActionOperation string

const (
	ActionCreate ActionOperation = "create"
	ActionUpdate ActionOperation = "update"
	ActionDelete ActionOperation = "delete"
)

// OfflineAction is one remote write that failed and was parked on the
// durable queue. Replay applies actions in publish order, so the last
// action for a given key wins.
type OfflineAction struct {
	Operation  ActionOperation `json:"operation"`
	Table      string          `json:"table"`
	BusinessID string          `json:"business_id"`
	TargetID   string          `json:"target_id,omitempty"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	QueuedAt   time.Time       `json:"queued_at"`
}

// Key identifies the logical write so observers can coalesce duplicates.
func (a OfflineAction) Key() string {
	return string(a.Operation) + ":" + a.Table + ":" + a.TargetID
}
