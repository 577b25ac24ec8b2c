package model

import "time"

// Hotel belongs to exactly one HotelGroup.
type Hotel struct {
	ID           int64     `gorm:"primaryKey"`
	HotelGroupID int64     `gorm:"index;not null"`
	Name         string    `gorm:"size:256;not null"`
	Code         string    `gorm:"uniqueIndex;size:128;not null"`
	City         string    `gorm:"size:128"`
	Country      string    `gorm:"size:128"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`

	// Associations
	HotelGroup HotelGroup
}
