package models

import (
	"fmt"
	"strconv"
	"time"
)

// BaseCurrency is the platform base; every Currency.Rate is expressed as
// units of that currency per one base unit.
const BaseCurrency = "UZS"

type Currency struct {
	Code          string    `gorm:"primaryKey;type:VARCHAR(3)" json:"code"`
	Name          string    `gorm:"not null" json:"name"`
	Symbol        string    `gorm:"not null" json:"symbol"`
	Rate          float64   `gorm:"not null" json:"rate"`
	IsDefault     bool      `json:"is_default"`
	IsActive      bool      `json:"is_active"`
	DecimalPlaces int       `json:"decimal_places"`
	SymbolAfter   bool      `json:"symbol_after"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Currency) TableName() string { return "currencies" }

// FormatAmount renders an amount with the currency's symbol and precision.
func (c *Currency) FormatAmount(amount float64) string {
	value := strconv.FormatFloat(amount, 'f', c.DecimalPlaces, 64)
	if c.SymbolAfter {
		return fmt.Sprintf("%s %s", value, c.Symbol)
	}
	return fmt.Sprintf("%s%s", c.Symbol, value)
}
