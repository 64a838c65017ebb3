package domain

import "time"

type MenuImportMessage struct {
	TaskID        string `json:"task_id"`
	SpreadsheetID string `json:"spreadsheet_id"`
	BusinessID    string `json:"business_id"`
}

const (
	EventActionQueued   = "action.queued"
	EventActionReplayed = "action.replayed"
	EventActionFailed   = "action.failed"
)

// SyncAuditEvent is emitted whenever a remote write is parked on the
// offline queue or later replayed.
type SyncAuditEvent struct {
	EventType  string    `json:"event_type"`
	BusinessID string    `json:"business_id"`
	ActionKey  string    `json:"action_key"`
	Detail     string    `json:"detail,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}
