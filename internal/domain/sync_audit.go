package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SyncAudit is the persisted trail of offline-queue activity for one
// business: every parked write and every replay outcome lands here.
type SyncAudit struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	BusinessID string             `bson:"business_id" json:"business_id"`
	EventType  string             `bson:"event_type" json:"event_type"`
	ActionKey  string             `bson:"action_key" json:"action_key"`
	Detail     string             `bson:"detail,omitempty" json:"detail,omitempty"`
	Timestamp  time.Time          `bson:"timestamp" json:"timestamp"`
}
