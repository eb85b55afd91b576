package models

import "time"

// Review is one user's rating of a product. A user reviews a product at most
// once; re-submitting replaces the earlier review. Product.Rating and
// Product.NumReviews are the denormalized aggregate over these rows.
type Review struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_product_reviewer;index" json:"product_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_product_reviewer" json:"user_id"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Review) TableName() string { return "reviews" }
