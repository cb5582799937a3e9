package controllers

import (
	"net/http"
	"strings"

	"github.com/salepoint/salepoint-backend/api/responses"
	"github.com/salepoint/salepoint-backend/api/validators"
	"github.com/salepoint/salepoint-backend/internal/reports"
	pkgerrors "github.com/salepoint/salepoint-backend/pkg/errors"
	"github.com/salepoint/salepoint-backend/pkg/logger"
)

type revenueByInvoicesRequest struct {
	IDs []int64 `json:"ids" validate:"required,min=1,dive,min=1"`
}

// ReportBestSeller returns the all-time best selling item.
func ReportBestSeller(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reports service unavailable"))
			return
		}

		best, err := svc.BestSellingItem(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, best)
	}
}

// ReportRevenue sums frame totals for a date or month period. An absent
// period means the current month.
func ReportRevenue(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reports service unavailable"))
			return
		}

		revenue, err := svc.RevenueForPeriod(r.Context(), strings.TrimSpace(r.URL.Query().Get("period")))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, revenue)
	}
}

// ReportRevenueByInvoices sums the totals of the named frames.
func ReportRevenueByInvoices(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reports service unavailable"))
			return
		}

		var payload revenueByInvoicesRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		revenue, err := svc.RevenueByInvoiceIDs(r.Context(), payload.IDs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"revenue": revenue})
	}
}

// ReportHighestRevenueDate returns the best calendar day on record.
func ReportHighestRevenueDate(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reports service unavailable"))
			return
		}

		daily, err := svc.HighestRevenueDate(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, daily)
	}
}
