package reports

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repository runs the raw aggregate queries behind the reports.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a reporting repository over the shared connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type bestSellerRow struct {
	ItemID   int64 `gorm:"column:item_id"`
	Quantity int64 `gorm:"column:total_quantity"`
}

// BestSellerRow sums quantities per item across all history and returns the
// top item. Equal sums resolve to the lowest item ID so the winner is stable.
func (r *Repository) BestSellerRow(ctx context.Context) (itemID, quantity int64, found bool, err error) {
	var rows []bestSellerRow
	err = r.db.WithContext(ctx).
		Raw(`SELECT item_id, SUM(quantity) AS total_quantity
FROM invoice_rows
GROUP BY item_id
ORDER BY total_quantity DESC, item_id ASC
LIMIT 1`).
		Scan(&rows).
		Error
	if err != nil || len(rows) == 0 {
		return 0, 0, false, err
	}
	return rows[0].ItemID, rows[0].Quantity, true, nil
}

type revenueRow struct {
	Revenue decimal.Decimal `gorm:"column:revenue"`
}

// RevenueForPrefix sums frame totals whose date starts with prefix.
func (r *Repository) RevenueForPrefix(ctx context.Context, prefix string) (decimal.Decimal, error) {
	var row revenueRow
	err := r.db.WithContext(ctx).
		Raw(`SELECT COALESCE(SUM(total_value), 0) AS revenue
FROM invoice_frames
WHERE date LIKE ?`, prefix+"%").
		Scan(&row).
		Error
	if err != nil {
		return decimal.Zero, err
	}
	return row.Revenue, nil
}

// RevenueByInvoiceIDs sums the totals of the named frames.
func (r *Repository) RevenueByInvoiceIDs(ctx context.Context, ids []int64) (decimal.Decimal, error) {
	if len(ids) == 0 {
		return decimal.Zero, nil
	}
	var row revenueRow
	err := r.db.WithContext(ctx).
		Raw(`SELECT COALESCE(SUM(total_value), 0) AS revenue
FROM invoice_frames
WHERE id IN ?`, ids).
		Scan(&row).
		Error
	if err != nil {
		return decimal.Zero, err
	}
	return row.Revenue, nil
}

type dailyRevenueRow struct {
	Day     string          `gorm:"column:day"`
	Revenue decimal.Decimal `gorm:"column:revenue"`
}

// HighestRevenueDay groups frames by calendar day and returns the day with
// the largest summed total. Equal revenues resolve to the earlier day.
func (r *Repository) HighestRevenueDay(ctx context.Context) (day string, revenue decimal.Decimal, found bool, err error) {
	var rows []dailyRevenueRow
	err = r.db.WithContext(ctx).
		Raw(`SELECT substr(date, 1, 10) AS day, SUM(total_value) AS revenue
FROM invoice_frames
WHERE date <> ''
GROUP BY day
ORDER BY revenue DESC, day ASC
LIMIT 1`).
		Scan(&rows).
		Error
	if err != nil || len(rows) == 0 {
		return "", decimal.Zero, false, err
	}
	return rows[0].Day, rows[0].Revenue, true, nil
}
