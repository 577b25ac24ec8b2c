package model

import "time"

// Actor is an authenticated principal: a staff member or an administrator.
// Subject is the identity key issued by the external authentication provider.
//
// Once Active, the assignment follows the role: SUPERADMIN has neither an
// assigned group nor hotel, group admins have a group only, hotel admins and
// staff have a hotel (and the group derived from it).
type Actor struct {
	ID               int64          `gorm:"primaryKey"`
	Subject          string         `gorm:"uniqueIndex;size:128;not null"`
	Email            string         `gorm:"uniqueIndex;size:320;not null"`
	Name             string         `gorm:"size:256;not null"`
	Phone            *string        `gorm:"size:64"`
	Status           ActorStatus    `gorm:"size:32;not null;index"`
	Role             Role           `gorm:"size:32;index"`
	StaffCategory    *StaffCategory `gorm:"size:32"`
	Active           bool           `gorm:"not null"`
	RequestedGroupID *int64         `gorm:"index"`
	RequestedHotelID *int64         `gorm:"index"`
	AssignedGroupID  *int64         `gorm:"index"`
	AssignedHotelID  *int64         `gorm:"index"`
	CreatedAt        time.Time      `gorm:"not null"`
	UpdatedAt        time.Time      `gorm:"not null"`

	// Associations
	RequestedGroup *HotelGroup `gorm:"foreignKey:RequestedGroupID"`
	RequestedHotel *Hotel      `gorm:"foreignKey:RequestedHotelID"`
	AssignedGroup  *HotelGroup `gorm:"foreignKey:AssignedGroupID"`
	AssignedHotel  *Hotel      `gorm:"foreignKey:AssignedHotelID"`
}

// ClearAssignment drops both assigned scope keys.
func (a *Actor) ClearAssignment() {
	a.AssignedGroupID = nil
	a.AssignedGroup = nil
	a.AssignedHotelID = nil
	a.AssignedHotel = nil
}
