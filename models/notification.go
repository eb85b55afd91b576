package models

import "time"

// Notification is a persisted in-app notification. Rows are written by the
// event dispatcher; delivery over the websocket hub is best-effort and a
// failed push never fails the operation that emitted the event.
type Notification struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID   uint   `gorm:"not null;index" json:"user_id"`
	Title    string `gorm:"not null" json:"title"`
	Message  string `gorm:"not null" json:"message"`
	Type     string `gorm:"type:VARCHAR(30);not null;index" json:"type"`
	Priority string `gorm:"type:VARCHAR(10);default:'normal'" json:"priority"`

	RelatedEntityType string  `gorm:"type:VARCHAR(30)" json:"related_entity_type,omitempty"`
	RelatedEntityID   uint    `json:"related_entity_id,omitempty"`
	Link              string  `json:"link,omitempty"`
	Metadata          JSONMap `gorm:"type:json" json:"metadata,omitempty"`

	IsRead    bool      `gorm:"default:false;index" json:"is_read"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }
