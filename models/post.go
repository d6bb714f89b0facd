package models

import "time"

// Post is a blog entry belonging to a user. Slug is derived from the
// title on every save and is what URLs key on; the unique index is the
// storage backstop behind the service-level pre-check.
type Post struct {
	ID         uint `gorm:"primaryKey"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Title      string    `gorm:"size:60;not null"`
	Content    string    `gorm:"type:text;not null"`
	DatePosted time.Time `gorm:"not null"`
	AuthorID   uint      `gorm:"index;not null"`
	Author     User      `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Slug       string    `gorm:"size:64;not null;uniqueIndex"`
}
