package models

import (
	"time"
)

// User is an account in the identity store.
type User struct {
	ID             uint `gorm:"primaryKey"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Username       string `gorm:"size:255;not null;uniqueIndex"`
	Email          string `gorm:"size:255;not null;uniqueIndex"`
	HashedPassword []byte `gorm:"not null"`
	Posts          []Post `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	// Profile is destroyed together with the user.
	Profile *Profile `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
