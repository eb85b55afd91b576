package models

import "time"

// Banner is a promotional banner with an optional expiry. The background
// sweep deactivates banners once ExpiresAt passes.
type Banner struct {
	ID        uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Title     string     `gorm:"not null" json:"title"`
	ImageURL  string     `gorm:"not null" json:"image_url"`
	Link      string     `json:"link,omitempty"`
	IsActive  bool       `gorm:"index" json:"is_active"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (Banner) TableName() string { return "banners" }

// Expired reports whether the banner's expiry has passed.
func (b *Banner) Expired(now time.Time) bool {
	return b.ExpiresAt != nil && b.ExpiresAt.Before(now)
}
