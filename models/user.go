package models

import "time"

type UserRole string

const (
	RoleUser   UserRole = "user"
	RoleSeller UserRole = "seller"
	RoleAdmin  UserRole = "admin"
)

type User struct {
	ID          uint     `gorm:"primaryKey;autoIncrement" json:"id"`
	FullName    string   `gorm:"not null" json:"full_name"`
	Email       string   `gorm:"uniqueIndex;not null" json:"email"`
	Password    string   `gorm:"not null" json:"-"`
	PhoneNumber string   `json:"phone_number,omitempty"`
	Role        UserRole `gorm:"type:VARCHAR(10);not null;default:'user'" json:"role"`

	PreferredCurrency string `gorm:"type:VARCHAR(3);default:'UZS'" json:"preferred_currency"`
	PreferredLanguage string `gorm:"type:VARCHAR(5);default:'uz'" json:"preferred_language"`

	Address  Address `gorm:"embedded" json:"address"`
	IsActive bool    `json:"is_active"`

	Cart      *Cart     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Orders    []Order   `gorm:"foreignKey:UserID" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }

func (u *User) IsAdmin() bool  { return u.Role == RoleAdmin }
func (u *User) IsSeller() bool { return u.Role == RoleSeller }

// Address is embedded into User and doubles as the shipping address shape.
type Address struct {
	Country    string `json:"country,omitempty"`
	City       string `json:"city,omitempty"`
	Street     string `json:"street,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
}
