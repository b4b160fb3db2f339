package models

import "gorm.io/gorm"

// Part is the catalog identity for a stock keeping unit. The descriptive
// attributes never participate in ledger arithmetic.
type Part struct {
	gorm.Model
	PartCode  string  `json:"part_code" gorm:"unique" validate:"required"`
	PartName  string  `json:"part_name" validate:"required"`
	Color     string  `json:"color"`
	Category  string  `json:"category"`
	JobNumber string  `json:"job_number"`
	SizeW     float64 `json:"size_w" gorm:"default:0"`
	SizeL     float64 `json:"size_l" gorm:"default:0"`
	Thickness float64 `json:"thickness" gorm:"default:0"`
	Brand     string  `json:"brand"`
	Pallet    string  `json:"pallet"`
	Unit      string  `json:"unit"`
	CreatedBy int
	UpdatedBy int
}
