package controllers

import (
	"net/http"
	"strings"

	"github.com/salepoint/salepoint-backend/api/responses"
	"github.com/salepoint/salepoint-backend/api/validators"
	"github.com/salepoint/salepoint-backend/internal/documents"
	"github.com/salepoint/salepoint-backend/internal/invoices"
	pkgerrors "github.com/salepoint/salepoint-backend/pkg/errors"
	"github.com/salepoint/salepoint-backend/pkg/logger"
	"github.com/salepoint/salepoint-backend/pkg/pagination"
)

type composeInvoiceRequest struct {
	Lines []invoices.LineInput `json:"lines" validate:"required,min=1"`
}

type removeInvoicesRequest struct {
	IDs []int64 `json:"ids" validate:"required,min=1,dive,min=1"`
}

// InvoiceCompose commits a new invoice from the requested lines.
func InvoiceCompose(svc invoices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ledger service unavailable"))
			return
		}

		var payload composeInvoiceRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		frame, err := svc.AddComposedInvoice(r.Context(), payload.Lines)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if logg != nil {
			logg.Info(logg.WithInvoiceID(r.Context(), frame.ID), "invoice committed")
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, frame)
	}
}

// InvoiceEdit replaces an invoice's rows through the transactional edit path.
func InvoiceEdit(svc invoices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ledger service unavailable"))
			return
		}

		id, err := idParam(r, "invoiceId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload composeInvoiceRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		frame, err := svc.EditInvoice(r.Context(), id, payload.Lines)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if logg != nil {
			logg.Info(logg.WithInvoiceID(r.Context(), frame.ID), "invoice edited")
		}
		responses.WriteSuccess(w, frame)
	}
}

// InvoicesRemove drops the named frames and their rows.
func InvoicesRemove(svc invoices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ledger service unavailable"))
			return
		}

		var payload removeInvoicesRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.RemoveInvoiceFrames(r.Context(), payload.IDs); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"removed": payload.IDs})
	}
}

// InvoiceGet loads one frame.
func InvoiceGet(svc invoices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ledger service unavailable"))
			return
		}

		id, err := idParam(r, "invoiceId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		frame, err := svc.GetInvoice(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, frame)
	}
}

// InvoiceRecent pages through the ledger newest first.
func InvoiceRecent(svc invoices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ledger service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.GetRecentInvoices(r.Context(), pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, page)
	}
}

// InvoiceList returns every frame in the requested sort mode.
func InvoiceList(svc invoices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ledger service unavailable"))
			return
		}

		frames, err := svc.GetAllInvoices(r.Context(), strings.TrimSpace(r.URL.Query().Get("sort")))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, frames)
	}
}

// InvoicesByDate prefix-searches the date string.
func InvoicesByDate(svc invoices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ledger service unavailable"))
			return
		}

		frames, err := svc.GetInvoicesByDate(r.Context(), strings.TrimSpace(r.URL.Query().Get("date")))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, frames)
	}
}

// InvoiceRows resolves an invoice's committed lines against the catalog.
func InvoiceRows(svc invoices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ledger service unavailable"))
			return
		}

		id, err := idParam(r, "invoiceId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		includeRemoved := r.URL.Query().Get("include_removed") != "false"
		views, err := svc.GetInvoiceRows(r.Context(), id, includeRemoved)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, views)
	}
}

// InvoiceNextID predicts the next frame ID without reserving it.
func InvoiceNextID(svc invoices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ledger service unavailable"))
			return
		}

		next, err := svc.NextInvoiceID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]int64{"next_id": next})
	}
}

// InvoiceDocument renders the printable document for one invoice.
func InvoiceDocument(builder *documents.Builder, renderer documents.Renderer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if builder == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "document builder unavailable"))
			return
		}

		id, err := idParam(r, "invoiceId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		doc, err := builder.Build(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if r.URL.Query().Get("format") == "text" && renderer != nil {
			payload, contentType, err := renderer.Render(doc)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "rendering document"))
				return
			}
			responses.WriteRaw(w, contentType, payload)
			return
		}

		responses.WriteSuccess(w, doc)
	}
}
