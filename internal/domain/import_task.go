package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ImportTaskStatus string

const (
	StatusQueued     ImportTaskStatus = "queued"
	StatusProcessing ImportTaskStatus = "processing"
	StatusCompleted  ImportTaskStatus = "completed"
	StatusFailed     ImportTaskStatus = "failed"
)

// SkippedRow records a spreadsheet row that failed the typed decode and
// was quarantined instead of being imported with defaulted fields.
type SkippedRow struct {
	Row    int    `bson:"row" json:"row"`
	Reason string `bson:"reason" json:"reason"`
}

// ImportTask tracks one spreadsheet import end to end.
type ImportTask struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Status        ImportTaskStatus   `bson:"status" json:"status"`
	SpreadsheetID string             `bson:"spreadsheet_id" json:"spreadsheet_id"`
	BusinessID    string             `bson:"business_id" json:"business_id"`
	ItemCount     int                `bson:"item_count" json:"item_count"`
	SkippedRows   []SkippedRow       `bson:"skipped_rows,omitempty" json:"skipped_rows,omitempty"`
	ParseWarnings []string           `bson:"parse_warnings,omitempty" json:"parse_warnings,omitempty"`
	ErrorMessage  string             `bson:"error_message,omitempty" json:"error_message,omitempty"`
	RetryCount    int                `bson:"retry_count" json:"retry_count"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
}
