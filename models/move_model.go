package models

import (
	"time"

	"parts-ledger/types"
)

// Move reasons written by the ledger itself. Callers may also pass free-form
// reasons (e.g. "pull", "return") on plain moves.
const (
	ReasonTransfer        = "transfer"
	ReasonUndo            = "undo"
	ReasonReceiving       = "receiving"
	ReasonAdminAdjustment = "Admin adjustment"
	ReasonCountAdjustment = "quarterly count adjustment"
)

// MoveRecord is an immutable audit fact: one signed quantity change against
// one (part, location) pair. Rows are only ever appended, never updated or
// deleted (except by cascade when a part or location is removed entirely).
type MoveRecord struct {
	ID         types.SnowflakeID `json:"ID" gorm:"primaryKey"`
	Ts         time.Time         `json:"ts" gorm:"index"`
	UserID     uint              `json:"user_id" gorm:"index"`
	PartID     uint              `json:"part_id" gorm:"index"`
	LocationID uint              `json:"location_id" gorm:"index"`
	DeltaQty   int               `json:"delta_qty" gorm:"not null"`
	Reason     string            `json:"reason"`
	Note       string            `json:"note"`
}
