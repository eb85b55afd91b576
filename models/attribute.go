package models

import "time"

type AttributeType string

const (
	AttributeTypeText    AttributeType = "text"
	AttributeTypeColor   AttributeType = "color"
	AttributeTypeSize    AttributeType = "size"
	AttributeTypeNumber  AttributeType = "number"
	AttributeTypeBoolean AttributeType = "boolean"
	AttributeTypeSelect  AttributeType = "select"
)

func ValidAttributeType(t string) bool {
	switch AttributeType(t) {
	case AttributeTypeText, AttributeTypeColor, AttributeTypeSize,
		AttributeTypeNumber, AttributeTypeBoolean, AttributeTypeSelect:
		return true
	}
	return false
}

// ProductAttribute is a typed, filterable attribute definition (color, size,
// material). Created by admin tooling, never deleted while referenced.
type ProductAttribute struct {
	ID           uint             `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string           `gorm:"uniqueIndex;not null" json:"name"`
	DisplayName  string           `gorm:"not null" json:"display_name"`
	Type         AttributeType    `gorm:"type:VARCHAR(20);not null;default:'text'" json:"type"`
	IsRequired   bool             `json:"is_required"`
	IsFilterable bool             `gorm:"index" json:"is_filterable"`
	SortOrder    int              `gorm:"default:0" json:"sort_order"`
	Unit         string           `json:"unit,omitempty"`
	Description  string           `json:"description,omitempty"`
	Values       []AttributeValue `gorm:"foreignKey:AttributeID;constraint:OnDelete:CASCADE" json:"values,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

func (ProductAttribute) TableName() string { return "product_attributes" }

// AttributeValue is one enumerated value of a ProductAttribute.
type AttributeValue struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	AttributeID  uint      `gorm:"not null;uniqueIndex:idx_attr_value" json:"attribute_id"`
	Value        string    `gorm:"not null;uniqueIndex:idx_attr_value" json:"value"`
	DisplayValue string    `json:"display_value,omitempty"`
	ColorCode    string    `json:"color_code,omitempty"`
	ImageURL     string    `json:"image_url,omitempty"`
	SortOrder    int       `json:"sort_order"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (AttributeValue) TableName() string { return "attribute_values" }

// Display returns the value to show to users, falling back to the machine
// value when no display value was set.
func (v AttributeValue) Display() string {
	if v.DisplayValue != "" {
		return v.DisplayValue
	}
	return v.Value
}
