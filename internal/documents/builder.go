package documents

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/salepoint/salepoint-backend/internal/company"
	"github.com/salepoint/salepoint-backend/internal/invoices"
	"github.com/salepoint/salepoint-backend/pkg/db/models"
	pkgerrors "github.com/salepoint/salepoint-backend/pkg/errors"
	"github.com/salepoint/salepoint-backend/pkg/timeutil"
)

// Line is one printable invoice line.
type Line struct {
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitValue decimal.Decimal `json:"unit_value"`
	Total     decimal.Decimal `json:"total"`
}

// Document is the render-ready assembly of one invoice: serial, letterhead,
// resolved lines, and the committed grand total.
type Document struct {
	Serial      string                `json:"serial"`
	Date        string                `json:"date"`
	DisplayDate string                `json:"display_date,omitempty"`
	Company     models.CompanyProfile `json:"company"`
	Lines       []Line                `json:"lines"`
	GrandTotal  decimal.Decimal       `json:"grand_total"`
}

// Builder assembles documents from the ledger and the company profile.
type Builder struct {
	invoices invoices.Service
	company  company.Service
}

// NewBuilder wires the document builder.
func NewBuilder(inv invoices.Service, comp company.Service) (*Builder, error) {
	if inv == nil {
		return nil, fmt.Errorf("invoice service required")
	}
	if comp == nil {
		return nil, fmt.Errorf("company service required")
	}
	return &Builder{invoices: inv, company: comp}, nil
}

// Build assembles the printable document for one invoice. A missing company
// profile leaves the letterhead blank rather than failing the document.
func (b *Builder) Build(ctx context.Context, invoiceID int64) (Document, error) {
	frame, err := b.invoices.GetInvoice(ctx, invoiceID)
	if err != nil {
		return Document{}, err
	}

	views, err := b.invoices.GetInvoiceRows(ctx, invoiceID, true)
	if err != nil {
		return Document{}, err
	}

	doc := Document{
		Serial:     timeutil.FormatSerial(frame.ID),
		Date:       frame.Date,
		GrandTotal: frame.TotalValue,
		Lines:      make([]Line, 0, len(views)),
	}

	if len(frame.Date) >= len(timeutil.DateLayout) {
		if display, err := timeutil.ToDisplay(frame.Date[:len(timeutil.DateLayout)]); err == nil {
			doc.DisplayDate = display
		}
	}

	for _, view := range views {
		doc.Lines = append(doc.Lines, Line{
			Name:      view.ItemName,
			Quantity:  view.Row.Quantity,
			UnitValue: view.UnitValue,
			Total:     view.Row.RowTotal,
		})
	}

	profile, err := b.company.Get(ctx)
	switch {
	case err == nil:
		doc.Company = *profile
	case pkgerrors.As(err) != nil && pkgerrors.As(err).Code() == pkgerrors.CodeNotFound:
		// Letterhead stays empty.
	default:
		return Document{}, err
	}

	return doc, nil
}
