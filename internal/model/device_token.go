package model

import "time"

// DeviceToken is a push destination owned by an Actor. Token is the
// provider-issued identifier and is globally unique.
type DeviceToken struct {
	ID         int64     `gorm:"primaryKey"`
	ActorID    int64     `gorm:"index;not null"`
	Token      string    `gorm:"uniqueIndex;size:1024;not null"`
	Platform   string    `gorm:"size:32;not null"`
	Active     bool      `gorm:"not null"`
	LastSeenAt time.Time `gorm:"not null"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`

	// Associations
	Actor Actor `gorm:"constraint:OnDelete:CASCADE"`
}
