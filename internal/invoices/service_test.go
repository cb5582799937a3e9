package invoices

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salepoint/salepoint-backend/internal/catalog"
	"github.com/salepoint/salepoint-backend/pkg/config"
	"github.com/salepoint/salepoint-backend/pkg/db"
	"github.com/salepoint/salepoint-backend/pkg/db/models"
	pkgerrors "github.com/salepoint/salepoint-backend/pkg/errors"
	"github.com/salepoint/salepoint-backend/pkg/pagination"
)

type ledgerFixture struct {
	client *db.Client
	items  *catalog.Repository
	repo   *Repository
	svc    Service
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()
	client := openLedgerTestDB(t)
	items := catalog.NewRepository(client.DB())
	repo := NewRepository(client.DB(), config.DriverSQLite)
	svc, err := NewService(repo, items, client, nil)
	require.NoError(t, err)
	return &ledgerFixture{client: client, items: items, repo: repo, svc: svc}
}

func (f *ledgerFixture) seedItem(t *testing.T, name, value string) int64 {
	t.Helper()
	item := &models.Item{Name: name, Value: decimal.RequireFromString(value)}
	require.NoError(t, f.items.Create(context.Background(), item))
	return item.ID
}

func assertCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr, "expected app error, got %v", err)
	assert.Equal(t, code, appErr.Code())
}

func TestAddComposedInvoiceConsolidates(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	widget := f.seedItem(t, "Widget", "9.99")

	frame, err := f.svc.AddComposedInvoice(ctx, []LineInput{
		{ItemID: widget, Quantity: 3},
		{ItemID: widget, Quantity: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), frame.ID)
	assert.True(t, frame.TotalValue.Equal(decimal.RequireFromString("49.95")))
	assert.NotEmpty(t, frame.Date)

	views, err := f.svc.GetInvoiceRows(ctx, frame.ID, true)
	require.NoError(t, err)
	require.Len(t, views, 1, "same item consolidates into one row")
	assert.Equal(t, 5, views[0].Row.Quantity)
	assert.True(t, views[0].Row.RowTotal.Equal(frame.TotalValue), "frame total equals sum of rows")
	assert.True(t, views[0].UnitValue.Equal(decimal.RequireFromString("9.99")))
}

func TestAddComposedInvoiceValidation(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	widget := f.seedItem(t, "Widget", "9.99")

	_, err := f.svc.AddComposedInvoice(ctx, nil)
	assertCode(t, err, pkgerrors.CodeValidation)

	_, err = f.svc.AddComposedInvoice(ctx, []LineInput{{ItemID: 99, Quantity: 1}})
	assertCode(t, err, pkgerrors.CodeValidation)

	_, err = f.svc.AddComposedInvoice(ctx, []LineInput{{ItemID: widget, Quantity: 0}})
	assertCode(t, err, pkgerrors.CodeValidation)

	// Removed items cannot land on new invoices.
	_, err = f.items.SoftDelete(ctx, widget)
	require.NoError(t, err)
	_, err = f.svc.AddComposedInvoice(ctx, []LineInput{{ItemID: widget, Quantity: 1}})
	assertCode(t, err, pkgerrors.CodeValidation)

	// Nothing leaked into the ledger from the failed attempts.
	frames, err := f.svc.GetAllInvoices(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, frames)
}

func TestEditInvoiceReplacesRows(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	widget := f.seedItem(t, "Widget", "10.00")
	gadget := f.seedItem(t, "Gadget", "2.50")

	frame, err := f.svc.AddComposedInvoice(ctx, []LineInput{{ItemID: widget, Quantity: 2}})
	require.NoError(t, err)

	edited, err := f.svc.EditInvoice(ctx, frame.ID, []LineInput{{ItemID: gadget, Quantity: 4}})
	require.NoError(t, err)
	assert.Equal(t, frame.ID, edited.ID)
	assert.True(t, edited.TotalValue.Equal(decimal.RequireFromString("10.00")))

	views, err := f.svc.GetInvoiceRows(ctx, frame.ID, true)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, gadget, views[0].Row.ItemID)
	assert.Equal(t, 4, views[0].Row.Quantity)
}

func TestEditInvoiceFailureLeavesLedgerUntouched(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	widget := f.seedItem(t, "Widget", "10.00")

	frame, err := f.svc.AddComposedInvoice(ctx, []LineInput{{ItemID: widget, Quantity: 2}})
	require.NoError(t, err)

	// An unknown item fails the edit after the frame exists; the original
	// rows and total must survive the rollback.
	_, err = f.svc.EditInvoice(ctx, frame.ID, []LineInput{
		{ItemID: widget, Quantity: 1},
		{ItemID: 404, Quantity: 1},
	})
	assertCode(t, err, pkgerrors.CodeValidation)

	current, err := f.svc.GetInvoice(ctx, frame.ID)
	require.NoError(t, err)
	assert.True(t, current.TotalValue.Equal(decimal.RequireFromString("20.00")))

	views, err := f.svc.GetInvoiceRows(ctx, frame.ID, true)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, 2, views[0].Row.Quantity)
}

func TestEditInvoiceNotFound(t *testing.T) {
	f := newLedgerFixture(t)
	widget := f.seedItem(t, "Widget", "1.00")

	_, err := f.svc.EditInvoice(context.Background(), 77, []LineInput{{ItemID: widget, Quantity: 1}})
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestRemoveInvoiceFrames(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	widget := f.seedItem(t, "Widget", "5.00")

	first, err := f.svc.AddComposedInvoice(ctx, []LineInput{{ItemID: widget, Quantity: 1}})
	require.NoError(t, err)
	second, err := f.svc.AddComposedInvoice(ctx, []LineInput{{ItemID: widget, Quantity: 2}})
	require.NoError(t, err)

	err = f.svc.RemoveInvoiceFrames(ctx, nil)
	assertCode(t, err, pkgerrors.CodeValidation)

	err = f.svc.RemoveInvoiceFrames(ctx, []int64{404})
	assertCode(t, err, pkgerrors.CodeNotFound)

	// Unknown IDs mixed with known ones are ignored.
	err = f.svc.RemoveInvoiceFrames(ctx, []int64{first.ID, 404})
	require.NoError(t, err)

	_, err = f.svc.GetInvoice(ctx, first.ID)
	assertCode(t, err, pkgerrors.CodeNotFound)

	views, err := f.svc.GetInvoiceRows(ctx, first.ID, true)
	require.NoError(t, err)
	assert.Empty(t, views, "rows go down with their frame")

	remaining, err := f.svc.GetInvoice(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, remaining.ID)
}

func TestGetInvoiceRowsPlaceholder(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	widget := f.seedItem(t, "Widget", "3.00")

	frame, err := f.svc.AddComposedInvoice(ctx, []LineInput{{ItemID: widget, Quantity: 2}})
	require.NoError(t, err)

	// A row whose item vanished entirely resolves to the placeholder.
	require.NoError(t, f.repo.CreateRows(ctx, []models.InvoiceRow{{
		InvoiceID: frame.ID,
		ItemID:    999,
		RowTotal:  decimal.RequireFromString("8.00"),
		Quantity:  4,
	}}))

	views, err := f.svc.GetInvoiceRows(ctx, frame.ID, true)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "Widget", views[0].ItemName)
	assert.Equal(t, PlaceholderItemName, views[1].ItemName)
	assert.True(t, views[1].ItemRemoved)
	assert.True(t, views[1].UnitValue.Equal(decimal.RequireFromString("2.00")), "unit value derives from the snapshot")

	views, err = f.svc.GetInvoiceRows(ctx, frame.ID, false)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Widget", views[0].ItemName)
}

func TestSoftDeleteKeepsHistoricalRows(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	widget := f.seedItem(t, "Widget", "3.00")

	frame, err := f.svc.AddComposedInvoice(ctx, []LineInput{{ItemID: widget, Quantity: 2}})
	require.NoError(t, err)

	_, err = f.items.SoftDelete(ctx, widget)
	require.NoError(t, err)

	views, err := f.svc.GetInvoiceRows(ctx, frame.ID, true)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Widget", views[0].ItemName, "soft-deleted items still resolve by name")
	assert.True(t, views[0].ItemRemoved)
	assert.True(t, views[0].Row.RowTotal.Equal(decimal.RequireFromString("6.00")))
}

func TestGetRecentInvoicesPaging(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	repo := f.repo

	seedFrame(t, repo, "2024-01-01 09:00:00", "1.00")
	seedFrame(t, repo, "2024-01-02 09:00:00", "2.00")
	seedFrame(t, repo, "2024-01-03 09:00:00", "3.00")

	page, err := f.svc.GetRecentInvoices(ctx, pagination.Params{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page.Frames, 2)
	assert.Equal(t, int64(3), page.Frames[0].ID)
	require.NotEmpty(t, page.NextCursor)

	page, err = f.svc.GetRecentInvoices(ctx, pagination.Params{Limit: 2, Cursor: page.NextCursor})
	require.NoError(t, err)
	require.Len(t, page.Frames, 1)
	assert.Equal(t, int64(1), page.Frames[0].ID)
	assert.Empty(t, page.NextCursor)

	_, err = f.svc.GetRecentInvoices(ctx, pagination.Params{Cursor: "%%%"})
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestGetInvoicesByDateValidation(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	_, err := f.svc.GetInvoicesByDate(ctx, "not-a-date")
	assertCode(t, err, pkgerrors.CodeValidation)

	frames, err := f.svc.GetInvoicesByDate(ctx, "2024-01-01")
	require.NoError(t, err)
	assert.NotNil(t, frames)
	assert.Empty(t, frames)
}

func TestNextInvoiceID(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	widget := f.seedItem(t, "Widget", "1.00")

	next, err := f.svc.NextInvoiceID(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), next)

	frame, err := f.svc.AddComposedInvoice(ctx, []LineInput{{ItemID: widget, Quantity: 1}})
	require.NoError(t, err)
	assert.Equal(t, next, frame.ID, "prediction matches the allocated id under a single writer")

	next, err = f.svc.NextInvoiceID(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), next)
}
