package models

import (
	"time"

	"gorm.io/gorm"
)

// Base contains common columns for all tables
type Base struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// GetID returns the store-assigned identifier.
func (b *Base) GetID() uint { return b.ID }

// SetID is called by stores that assign identifiers themselves.
func (b *Base) SetID(id uint) { b.ID = id }
