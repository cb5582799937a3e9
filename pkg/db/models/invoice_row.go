package models

import "github.com/shopspring/decimal"

// InvoiceRow is one committed line of an invoice. InvoiceID and ItemID are
// weak references; RowTotal snapshots unit value x quantity at commit time.
type InvoiceRow struct {
	ID        int64           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	InvoiceID int64           `gorm:"column:invoice_id;not null;index" json:"invoice_id"`
	ItemID    int64           `gorm:"column:item_id;not null" json:"item_id"`
	RowTotal  decimal.Decimal `gorm:"column:row_total;type:numeric(12,2);not null" json:"row_total"`
	Quantity  int             `gorm:"column:quantity;not null" json:"quantity"`
}

func (InvoiceRow) TableName() string { return "invoice_rows" }

// UnitValue derives the captured per-unit price from the stored snapshot.
func (r InvoiceRow) UnitValue() decimal.Decimal {
	if r.Quantity == 0 {
		return decimal.Zero
	}
	return r.RowTotal.Div(decimal.NewFromInt(int64(r.Quantity)))
}
