package model

import "time"

// GuestSession identifies an anonymous guest device across several
// submissions from the same room. It is never linked to an Actor.
type GuestSession struct {
	ID           int64     `gorm:"primaryKey"`
	SessionToken string    `gorm:"uniqueIndex;size:120;not null"`
	RoomID       int64     `gorm:"index;not null"`
	CreatedAt    time.Time `gorm:"not null"`
	LastSeenAt   time.Time `gorm:"not null"`

	// Associations
	Room Room
}
