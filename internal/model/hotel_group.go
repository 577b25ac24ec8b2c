package model

import "time"

// HotelGroup is a collection of hotels managed as one administrative unit.
type HotelGroup struct {
	ID        int64     `gorm:"primaryKey"`
	Name      string    `gorm:"size:256;not null"`
	Code      string    `gorm:"uniqueIndex;size:128;not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	// Associations
	Hotels []Hotel `gorm:"foreignKey:HotelGroupID"`
}
