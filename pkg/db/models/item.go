package models

import "github.com/shopspring/decimal"

// Item is a sellable catalog entry. Rows are never physically deleted;
// Removed marks the item inactive while past invoices keep referencing it.
type Item struct {
	ID          int64           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name        string          `gorm:"column:name;not null" json:"name"`
	Description string          `gorm:"column:description" json:"description"`
	Value       decimal.Decimal `gorm:"column:value;type:numeric(12,2);not null" json:"value"`
	Removed     bool            `gorm:"column:removed;not null;default:false" json:"removed"`
}

// TableName keeps the historical table name from the original schema.
func (Item) TableName() string { return "items" }

const (
	ItemNameMaxLen        = 50
	ItemDescriptionMaxLen = 50
)
