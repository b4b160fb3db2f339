package models

import "time"

// InventoryRecord holds the current quantity for one (part, location) pair.
// At most one record exists per pair; a quantity of zero is a valid state and
// does not delete the record. No soft delete here: the unique index must stay
// reusable after a part or location is removed.
type InventoryRecord struct {
	ID         uint      `json:"ID" gorm:"primaryKey"`
	PartID     uint      `json:"part_id" gorm:"not null;uniqueIndex:idx_inventory_part_location"`
	LocationID uint      `json:"location_id" gorm:"not null;uniqueIndex:idx_inventory_part_location"`
	Qty        int       `json:"qty" gorm:"default:0"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
