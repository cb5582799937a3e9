package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/salepoint/salepoint-backend/api/controllers"
	"github.com/salepoint/salepoint-backend/api/middleware"
	"github.com/salepoint/salepoint-backend/internal/catalog"
	"github.com/salepoint/salepoint-backend/internal/company"
	"github.com/salepoint/salepoint-backend/internal/documents"
	"github.com/salepoint/salepoint-backend/internal/invoices"
	"github.com/salepoint/salepoint-backend/internal/reports"
	"github.com/salepoint/salepoint-backend/pkg/config"
	"github.com/salepoint/salepoint-backend/pkg/db"
	"github.com/salepoint/salepoint-backend/pkg/logger"
	"github.com/salepoint/salepoint-backend/pkg/metrics"
	"github.com/salepoint/salepoint-backend/pkg/redis"
)

// Deps bundles everything the HTTP surface needs.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          db.Pinger
	Cache       *redis.Client
	Metrics     *metrics.Registry
	Catalog     catalog.Service
	Ledger      invoices.Service
	Reports     reports.Service
	Company     company.Service
	DocBuilder  *documents.Builder
	DocRenderer documents.Renderer
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(d.Logger),
		middleware.RequestID(d.Logger),
		middleware.Logging(d.Logger),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(d.Config))
		var cache redis.Pinger
		if d.Cache != nil {
			cache = d.Cache
		}
		r.Get("/ready", controllers.HealthReady(d.Config, d.Logger, d.DB, cache))
	})

	if d.Metrics != nil {
		r.Handle("/metrics", d.Metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/items", func(r chi.Router) {
			r.Get("/", controllers.ItemList(d.Catalog, d.Logger))
			r.Post("/", controllers.ItemCreate(d.Catalog, d.Logger))
			r.Post("/remove", controllers.ItemsRemove(d.Catalog, d.Logger))
			r.Get("/{itemId}", controllers.ItemGet(d.Catalog, d.Logger))
			r.Put("/{itemId}", controllers.ItemUpdate(d.Catalog, d.Logger))
		})

		r.Route("/invoices", func(r chi.Router) {
			r.Get("/", controllers.InvoiceList(d.Ledger, d.Logger))
			r.Post("/", controllers.InvoiceCompose(d.Ledger, d.Logger))
			r.Post("/remove", controllers.InvoicesRemove(d.Ledger, d.Logger))
			r.Get("/recent", controllers.InvoiceRecent(d.Ledger, d.Logger))
			r.Get("/by-date", controllers.InvoicesByDate(d.Ledger, d.Logger))
			r.Get("/next-id", controllers.InvoiceNextID(d.Ledger, d.Logger))
			r.Get("/{invoiceId}", controllers.InvoiceGet(d.Ledger, d.Logger))
			r.Put("/{invoiceId}", controllers.InvoiceEdit(d.Ledger, d.Logger))
			r.Get("/{invoiceId}/rows", controllers.InvoiceRows(d.Ledger, d.Logger))
			r.Get("/{invoiceId}/document", controllers.InvoiceDocument(d.DocBuilder, d.DocRenderer, d.Logger))
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/best-seller", controllers.ReportBestSeller(d.Reports, d.Logger))
			r.Get("/revenue", controllers.ReportRevenue(d.Reports, d.Logger))
			r.Post("/revenue-by-invoices", controllers.ReportRevenueByInvoices(d.Reports, d.Logger))
			r.Get("/highest-revenue-date", controllers.ReportHighestRevenueDate(d.Reports, d.Logger))
		})

		r.Route("/company", func(r chi.Router) {
			r.Get("/", controllers.CompanyGet(d.Company, d.Logger))
			r.Put("/", controllers.CompanyUpsert(d.Company, d.Logger))
			r.Patch("/", controllers.CompanyPatch(d.Company, d.Logger))
			r.Delete("/", controllers.CompanyDelete(d.Company, d.Logger))
		})
	})

	return r
}
