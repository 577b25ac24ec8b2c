package model

import "time"

// Room is a bookable room of a hotel. GuestAccessToken is the public,
// unguessable handle printed on the in-room QR code.
type Room struct {
	ID               int64  `gorm:"primaryKey"`
	HotelID          int64  `gorm:"not null;uniqueIndex:idx_rooms_hotel_number"`
	Number           string `gorm:"size:32;not null;uniqueIndex:idx_rooms_hotel_number"`
	Floor            *int
	GuestAccessToken string    `gorm:"uniqueIndex;size:64;not null"`
	CreatedAt        time.Time `gorm:"not null"`
	UpdatedAt        time.Time `gorm:"not null"`

	// Associations
	Hotel Hotel
}
