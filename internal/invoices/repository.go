package invoices

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/salepoint/salepoint-backend/pkg/config"
	"github.com/salepoint/salepoint-backend/pkg/db/models"
	"github.com/salepoint/salepoint-backend/pkg/pagination"
)

// Repository owns persistence for invoice frames and rows.
type Repository struct {
	db     *gorm.DB
	driver string
}

// NewRepository builds a ledger repository. The driver decides how the next
// frame ID is predicted.
func NewRepository(db *gorm.DB, driver string) *Repository {
	return &Repository{db: db, driver: driver}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx, driver: r.driver}
}

// CreateFrame inserts a new frame; the store allocates the ID.
func (r *Repository) CreateFrame(ctx context.Context, frame *models.InvoiceFrame) error {
	return r.db.WithContext(ctx).Create(frame).Error
}

// UpdateFrame rewrites date and total for an existing frame.
// Returns gorm.ErrRecordNotFound when the ID matches nothing.
func (r *Repository) UpdateFrame(ctx context.Context, frame *models.InvoiceFrame) error {
	res := r.db.WithContext(ctx).
		Model(&models.InvoiceFrame{}).
		Where("id = ?", frame.ID).
		Updates(map[string]any{
			"date":        frame.Date,
			"total_value": frame.TotalValue,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteFrames drops the frame headers, reporting how many existed.
func (r *Repository) DeleteFrames(ctx context.Context, ids []int64) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&models.InvoiceFrame{})
	return res.RowsAffected, res.Error
}

// FindFrame loads a single frame by ID.
func (r *Repository) FindFrame(ctx context.Context, id int64) (*models.InvoiceFrame, error) {
	var frame models.InvoiceFrame
	if err := r.db.WithContext(ctx).First(&frame, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &frame, nil
}

// RecentFrames pages through all frames, newest first. Ties on the date
// string fall back to the ID so the cursor is total.
func (r *Repository) RecentFrames(ctx context.Context, limit int, cursor *pagination.Cursor) ([]models.InvoiceFrame, error) {
	qb := r.db.WithContext(ctx).
		Model(&models.InvoiceFrame{}).
		Order("date DESC").
		Order("id DESC").
		Limit(limit)

	if cursor != nil {
		qb = qb.Where("(date < ?) OR (date = ? AND id < ?)", cursor.Date, cursor.Date, cursor.ID)
	}

	var frames []models.InvoiceFrame
	if err := qb.Find(&frames).Error; err != nil {
		return nil, err
	}
	return frames, nil
}

// FramesByDatePrefix returns frames whose date string starts with prefix,
// oldest first.
func (r *Repository) FramesByDatePrefix(ctx context.Context, prefix string) ([]models.InvoiceFrame, error) {
	var frames []models.InvoiceFrame
	err := r.db.WithContext(ctx).
		Where("date LIKE ?", prefix+"%").
		Order("date ASC").
		Order("id ASC").
		Find(&frames).
		Error
	if err != nil {
		return nil, err
	}
	return frames, nil
}

// AllFrames returns every frame in insertion order.
func (r *Repository) AllFrames(ctx context.Context) ([]models.InvoiceFrame, error) {
	var frames []models.InvoiceFrame
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&frames).Error; err != nil {
		return nil, err
	}
	return frames, nil
}

// CreateRows batch-inserts the rows.
func (r *Repository) CreateRows(ctx context.Context, rows []models.InvoiceRow) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

// RowsByInvoice returns the committed lines of one invoice in insertion order.
func (r *Repository) RowsByInvoice(ctx context.Context, invoiceID int64) ([]models.InvoiceRow, error) {
	var rows []models.InvoiceRow
	err := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("id ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// DeleteRowsByInvoices drops every row tagged with the given frame IDs,
// reporting how many rows went away.
func (r *Repository) DeleteRowsByInvoices(ctx context.Context, invoiceIDs []int64) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("invoice_id IN ?", invoiceIDs).
		Delete(&models.InvoiceRow{})
	return res.RowsAffected, res.Error
}

// NextFrameID predicts the ID the store will hand the next frame. It reads
// the allocator sequence, so the value is a prediction, not a reservation.
func (r *Repository) NextFrameID(ctx context.Context) (int64, error) {
	if r.driver == config.DriverSQLite {
		var seq int64
		err := r.db.WithContext(ctx).
			Raw("SELECT seq FROM sqlite_sequence WHERE name = ?", models.InvoiceFrame{}.TableName()).
			Scan(&seq).
			Error
		if err != nil {
			return 0, err
		}
		// No sequence row yet means nothing was ever inserted.
		return seq + 1, nil
	}

	var state struct {
		LastValue int64 `gorm:"column:last_value"`
		IsCalled  bool  `gorm:"column:is_called"`
	}
	seqName := fmt.Sprintf("%s_id_seq", models.InvoiceFrame{}.TableName())
	err := r.db.WithContext(ctx).
		Raw(fmt.Sprintf("SELECT last_value, is_called FROM %s", seqName)).
		Scan(&state).
		Error
	if err != nil {
		return 0, err
	}
	if !state.IsCalled {
		return state.LastValue, nil
	}
	return state.LastValue + 1, nil
}
