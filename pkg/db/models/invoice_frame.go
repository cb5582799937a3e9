package models

import "github.com/shopspring/decimal"

// InvoiceFrame is the persisted invoice header. Date uses the fixed
// "2006-01-02 15:04:05" string format; an empty date marks an empty invoice.
type InvoiceFrame struct {
	ID         int64           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Date       string          `gorm:"column:date;not null" json:"date"`
	TotalValue decimal.Decimal `gorm:"column:total_value;type:numeric(12,2);not null" json:"total_value"`
}

func (InvoiceFrame) TableName() string { return "invoice_frames" }

// IsEmpty reports whether the frame carries no committed rows.
func (f InvoiceFrame) IsEmpty() bool { return f.Date == "" }
