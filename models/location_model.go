package models

import (
	"gorm.io/gorm"
)

type Location struct {
	gorm.Model
	LocationCode string `json:"location_code" gorm:"unique" validate:"required"`
	Type         string `json:"type"`
	Zone         string `json:"zone"`
	CreatedBy    int
	UpdatedBy    int
}
