package models

import "time"

// Profile holds the avatar for a user (one-to-one with User).
type Profile struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	UserID    uint `gorm:"uniqueIndex;not null"` // one-to-one relation
	User      User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	// Image is the stored avatar reference relative to the media dir.
	// New accounts start on the shared placeholder.
	Image string `gorm:"size:512;not null"`
}
