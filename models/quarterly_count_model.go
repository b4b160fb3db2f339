package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	CountStatusInProgress = "in_progress"
	CountStatusCompleted  = "completed"
	CountStatusCancelled  = "cancelled"

	CountRecordStatusPending  = "pending"
	CountRecordStatusCounted  = "counted"
	CountRecordStatusVerified = "verified"
)

type QuarterlyCount struct {
	gorm.Model
	Name        string                 `json:"name" validate:"required"`
	Description string                 `json:"description"`
	Status      string                 `json:"status" gorm:"default:'in_progress'"`
	CreatedBy   int                    `json:"created_by"`
	CompletedAt *time.Time             `json:"completed_at"`
	Records     []QuarterlyCountRecord `gorm:"foreignKey:CountID;references:ID;constraint:OnDelete:CASCADE" json:"records,omitempty"`
}

// QuarterlyCountRecord snapshots the expected quantity of one (part, location)
// pair at count creation time. ExpectedQty is frozen: ledger moves during the
// count window never change it.
type QuarterlyCountRecord struct {
	ID          uint       `json:"ID" gorm:"primaryKey"`
	CountID     uint       `json:"count_id" gorm:"not null;uniqueIndex:idx_count_part_location"`
	PartID      uint       `json:"part_id" gorm:"not null;uniqueIndex:idx_count_part_location"`
	LocationID  uint       `json:"location_id" gorm:"not null;uniqueIndex:idx_count_part_location"`
	ExpectedQty int        `json:"expected_qty" gorm:"default:0"`
	CountedQty  *int       `json:"counted_qty"`
	Variance    int        `json:"variance" gorm:"default:0"`
	Status      string     `json:"status" gorm:"default:'pending'"`
	CountedBy   *uint      `json:"counted_by"`
	CountedAt   *time.Time `json:"counted_at"`
	Notes       string     `json:"notes"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
