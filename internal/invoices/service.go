package invoices

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/salepoint/salepoint-backend/internal/cart"
	"github.com/salepoint/salepoint-backend/internal/catalog"
	"github.com/salepoint/salepoint-backend/pkg/db"
	"github.com/salepoint/salepoint-backend/pkg/db/models"
	pkgerrors "github.com/salepoint/salepoint-backend/pkg/errors"
	"github.com/salepoint/salepoint-backend/pkg/metrics"
	"github.com/salepoint/salepoint-backend/pkg/pagination"
	"github.com/salepoint/salepoint-backend/pkg/timeutil"
)

// PlaceholderItemName labels rows whose catalog item no longer resolves.
const PlaceholderItemName = "Item Removed"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// LineInput is one requested invoice line before consolidation.
type LineInput struct {
	ItemID   int64 `json:"item_id"`
	Quantity int   `json:"quantity"`
}

// RowView is a committed row resolved against the current catalog. When the
// item is gone the name falls back to the placeholder and the unit value is
// derived from the stored snapshot.
type RowView struct {
	Row         models.InvoiceRow `json:"row"`
	ItemName    string            `json:"item_name"`
	ItemRemoved bool              `json:"item_removed"`
	UnitValue   decimal.Decimal   `json:"unit_value"`
}

// RecentPage is one page of the date-descending listing.
type RecentPage struct {
	Frames     []models.InvoiceFrame `json:"frames"`
	NextCursor string                `json:"next_cursor,omitempty"`
}

// Service exposes ledger operations to the presentation layer.
type Service interface {
	AddComposedInvoice(ctx context.Context, lines []LineInput) (*models.InvoiceFrame, error)
	EditInvoice(ctx context.Context, id int64, lines []LineInput) (*models.InvoiceFrame, error)
	RemoveInvoiceFrames(ctx context.Context, ids []int64) error
	GetInvoice(ctx context.Context, id int64) (*models.InvoiceFrame, error)
	GetRecentInvoices(ctx context.Context, params pagination.Params) (RecentPage, error)
	GetInvoicesByDate(ctx context.Context, prefix string) ([]models.InvoiceFrame, error)
	GetAllInvoices(ctx context.Context, sortMode string) ([]models.InvoiceFrame, error)
	GetInvoiceRows(ctx context.Context, id int64, includeRemovedItems bool) ([]RowView, error)
	NextInvoiceID(ctx context.Context) (int64, error)
}

type service struct {
	repo    *Repository
	items   *catalog.Repository
	tx      txRunner
	metrics *metrics.Registry
}

// NewService builds a ledger service backed by the provided stack.
func NewService(repo *Repository, items *catalog.Repository, tx txRunner, reg *metrics.Registry) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("invoice repository required")
	}
	if items == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, items: items, tx: tx, metrics: reg}, nil
}

// consolidate resolves the requested lines against the catalog and folds
// them through the cart so each item lands on exactly one row.
func (s *service) consolidate(ctx context.Context, items *catalog.Repository, lines []LineInput) (*cart.Cart, error) {
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invoice needs at least one line")
	}

	c := cart.New(0, nil)
	for _, line := range lines {
		if line.ItemID <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line item id must be positive")
		}
		if line.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line quantity must be positive")
		}

		item, err := items.Find(ctx, line.ItemID)
		if err != nil {
			if db.IsNotFound(err) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "line references an unknown item").
					WithDetails(map[string]any{"item_id": line.ItemID})
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "resolving line item")
		}
		if item.Removed {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line references a removed item").
				WithDetails(map[string]any{"item_id": line.ItemID})
		}

		if err := c.Add(cart.RowFromItem(*item, line.Quantity)); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func rowsForFrame(c *cart.Cart, frameID int64) []models.InvoiceRow {
	cartRows := c.Rows()
	rows := make([]models.InvoiceRow, 0, len(cartRows))
	for _, row := range cartRows {
		rows = append(rows, models.InvoiceRow{
			InvoiceID: frameID,
			ItemID:    row.ItemID,
			RowTotal:  row.Total,
			Quantity:  row.Quantity,
		})
	}
	return rows
}

// AddComposedInvoice consolidates the lines, stamps the current timestamp,
// and persists frame plus rows in one transaction. A row-insert failure rolls
// the frame back too, so the ledger never holds an orphaned header.
func (s *service) AddComposedInvoice(ctx context.Context, lines []LineInput) (*models.InvoiceFrame, error) {
	frame := &models.InvoiceFrame{Date: timeutil.NowTimestamp()}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		c, err := s.consolidate(ctx, s.items.WithTx(tx), lines)
		if err != nil {
			return err
		}

		frame.TotalValue = c.Total()
		if err := repo.CreateFrame(ctx, frame); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "inserting invoice frame")
		}
		if frame.ID <= 0 {
			return pkgerrors.New(pkgerrors.CodeStorage, "store returned no invoice id")
		}
		if err := repo.CreateRows(ctx, rowsForFrame(c, frame.ID)); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "inserting invoice rows")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.InvoicesCreated.Inc()
	}
	return frame, nil
}

// EditInvoice replaces the invoice's rows with the consolidated new lines and
// restamps the frame, all in one transaction. Any failure leaves the prior
// rows and frame untouched.
func (s *service) EditInvoice(ctx context.Context, id int64, lines []LineInput) (*models.InvoiceFrame, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invoice id must be positive")
	}

	frame := &models.InvoiceFrame{ID: id, Date: timeutil.NowTimestamp()}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.FindFrame(ctx, id); err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "invoice not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "loading invoice frame")
		}

		c, err := s.consolidate(ctx, s.items.WithTx(tx), lines)
		if err != nil {
			return err
		}

		if _, err := repo.DeleteRowsByInvoices(ctx, []int64{id}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "clearing invoice rows")
		}

		frame.TotalValue = c.Total()
		if err := repo.UpdateFrame(ctx, frame); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "updating invoice frame")
		}
		if err := repo.CreateRows(ctx, rowsForFrame(c, id)); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "inserting invoice rows")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.InvoicesEdited.Inc()
	}
	return frame, nil
}

// RemoveInvoiceFrames drops rows and headers for the given IDs in one
// transaction. Unknown IDs among known ones are ignored; a set matching
// nothing reports not found.
func (s *service) RemoveInvoiceFrames(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invoice id set is empty")
	}

	var removed int64
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.DeleteRowsByInvoices(ctx, ids); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "deleting invoice rows")
		}
		var err error
		removed, err = repo.DeleteFrames(ctx, ids)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "deleting invoice frames")
		}
		if removed == 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound, "no matching invoices")
		}
		return nil
	})
	if err != nil {
		return err
	}

	if s.metrics != nil {
		s.metrics.InvoicesRemoved.Add(float64(removed))
	}
	return nil
}

// GetInvoice loads a single frame.
func (s *service) GetInvoice(ctx context.Context, id int64) (*models.InvoiceFrame, error) {
	frame, err := s.repo.FindFrame(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "invoice not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "loading invoice frame")
	}
	return frame, nil
}

// GetRecentInvoices pages through all frames newest first.
func (s *service) GetRecentInvoices(ctx context.Context, params pagination.Params) (RecentPage, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return RecentPage{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	frames, err := s.repo.RecentFrames(ctx, pagination.LimitWithBuffer(params.Limit), cursor)
	if err != nil {
		return RecentPage{}, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "listing recent invoices")
	}

	page := RecentPage{Frames: frames}
	if len(frames) > limit {
		page.Frames = frames[:limit]
		last := page.Frames[limit-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{Date: last.Date, ID: last.ID})
	}
	if page.Frames == nil {
		page.Frames = []models.InvoiceFrame{}
	}
	return page, nil
}

// GetInvoicesByDate returns frames whose date starts with the prefix, which
// must be a full date or a month.
func (s *service) GetInvoicesByDate(ctx context.Context, prefix string) ([]models.InvoiceFrame, error) {
	if !timeutil.ValidDatePrefix(prefix) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "date prefix must be YYYY-MM-DD or YYYY-MM")
	}

	frames, err := s.repo.FramesByDatePrefix(ctx, prefix)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "searching invoices by date")
	}
	if frames == nil {
		frames = []models.InvoiceFrame{}
	}
	return frames, nil
}

// GetAllInvoices returns every frame in the requested sort mode.
func (s *service) GetAllInvoices(ctx context.Context, sortMode string) ([]models.InvoiceFrame, error) {
	spec, err := SortSpecFor(sortMode)
	if err != nil {
		return nil, err
	}

	frames, err := s.repo.AllFrames(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "listing invoices")
	}
	if frames == nil {
		frames = []models.InvoiceFrame{}
	}
	SortFrames(frames, spec)
	return frames, nil
}

// GetInvoiceRows resolves the invoice's committed rows against the current
// catalog. Rows for items that disappeared are kept with the placeholder name
// so historical totals survive.
func (s *service) GetInvoiceRows(ctx context.Context, id int64, includeRemovedItems bool) ([]RowView, error) {
	rows, err := s.repo.RowsByInvoice(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "loading invoice rows")
	}

	views := make([]RowView, 0, len(rows))
	for _, row := range rows {
		view := RowView{Row: row, UnitValue: row.UnitValue()}

		item, err := s.items.Find(ctx, row.ItemID)
		switch {
		case db.IsNotFound(err):
			view.ItemName = PlaceholderItemName
			view.ItemRemoved = true
		case err != nil:
			return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "resolving row item")
		default:
			view.ItemName = item.Name
			view.ItemRemoved = item.Removed
		}

		if view.ItemRemoved && !includeRemovedItems {
			continue
		}
		views = append(views, view)
	}
	return views, nil
}

// NextInvoiceID predicts the next frame ID. Concurrent writers could observe
// the same value; the ledger assumes a single writer.
func (s *service) NextInvoiceID(ctx context.Context) (int64, error) {
	id, err := s.repo.NextFrameID(ctx)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "predicting next invoice id")
	}
	return id, nil
}
