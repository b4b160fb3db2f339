package models

import "gorm.io/gorm"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type User struct {
	gorm.Model
	Name     string `json:"name" validate:"required"`
	Username string `json:"username" gorm:"unique" validate:"required"`
	PinHash  string `json:"-"`
	Role     string `json:"role" gorm:"default:'user'"`
	IsActive bool   `json:"is_active" gorm:"default:true"`
}
