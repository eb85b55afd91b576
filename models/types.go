package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSON column helpers. All of these marshal to a JSON/JSONB column so the
// same model definitions work on postgres and on the sqlite test driver.

func scanJSON(src interface{}, dst interface{}) error {
	if src == nil {
		return nil
	}
	switch v := src.(type) {
	case []byte:
		if len(v) == 0 {
			return nil
		}
		return json.Unmarshal(v, dst)
	case string:
		if v == "" {
			return nil
		}
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("unsupported JSON column type %T", src)
	}
}

// JSONMap is a free-form JSON object column (shipping address, payment
// result, notification metadata).
type JSONMap map[string]interface{}

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

func (m *JSONMap) Scan(src interface{}) error {
	return scanJSON(src, m)
}

// StringList is a JSON array of strings (product tags, variant images).
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(src interface{}) error {
	return scanJSON(src, l)
}

// UintList is a JSON array of user ids (product likers).
type UintList []uint

func (l UintList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

func (l *UintList) Scan(src interface{}) error {
	return scanJSON(src, l)
}

func (l UintList) Contains(id uint) bool {
	for _, v := range l {
		if v == id {
			return true
		}
	}
	return false
}

// ProductTranslation is one language's copy of the translatable product
// fields.
type ProductTranslation struct {
	Name             string `json:"name,omitempty"`
	Description      string `json:"description,omitempty"`
	ShortDescription string `json:"shortDescription,omitempty"`
	Brand            string `json:"brand,omitempty"`
	MetaTitle        string `json:"metaTitle,omitempty"`
	MetaDescription  string `json:"metaDescription,omitempty"`
}

// TranslationMap maps a language code to a ProductTranslation.
type TranslationMap map[string]ProductTranslation

func (t TranslationMap) Value() (driver.Value, error) {
	if t == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(t)
}

func (t *TranslationMap) Scan(src interface{}) error {
	return scanJSON(src, t)
}

// PriceMap maps a currency code to an amount. A missing code means the
// variant is not separately priced in that currency.
type PriceMap map[string]float64

func (p PriceMap) Value() (driver.Value, error) {
	if p == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(p)
}

func (p *PriceMap) Scan(src interface{}) error {
	return scanJSON(src, p)
}

// AttributeSnapshot is the flattened copy of a variant's attribute bindings
// frozen onto a cart item at add time.
type AttributeSnapshot map[string]SnapshotValue

type SnapshotValue struct {
	Value        string `json:"value"`
	DisplayValue string `json:"displayValue"`
	DisplayName  string `json:"displayName,omitempty"`
}

func (a AttributeSnapshot) Value() (driver.Value, error) {
	if a == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(a)
}

func (a *AttributeSnapshot) Scan(src interface{}) error {
	return scanJSON(src, a)
}
