package model

import "time"

// Request is a guest-service request raised for a room, either by staff or
// anonymously through a GuestSession.
type Request struct {
	ID      int64         `gorm:"primaryKey"`
	HotelID int64         `gorm:"index;not null"`
	RoomID  int64         `gorm:"index;not null"`
	Type    RequestType   `gorm:"size:64"`
	Message *string       `gorm:"size:2000"`
	Status  RequestStatus `gorm:"size:32;index"`

	CreatedAt   *time.Time `gorm:"autoCreateTime:false;index"`
	AcceptedAt  *time.Time
	CompletedAt *time.Time
	Rating      *int

	AssigneeID     *int64  `gorm:"index"`
	Comments       *string `gorm:"size:2000"`
	GuestSessionID *int64  `gorm:"index"`

	// Associations
	Hotel        Hotel
	Room         Room
	Assignee     *Actor        `gorm:"foreignKey:AssigneeID"`
	GuestSession *GuestSession `gorm:"foreignKey:GuestSessionID"`
}
