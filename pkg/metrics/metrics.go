package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry aggregates the ledger's counters.
type Registry struct {
	reg *prometheus.Registry

	ItemsCreated     prometheus.Counter
	ItemsSoftDeleted prometheus.Counter
	InvoicesCreated  prometheus.Counter
	InvoicesEdited   prometheus.Counter
	InvoicesRemoved  prometheus.Counter
}

// New builds an isolated registry so tests never collide on the global one.
func New() *Registry {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Registry{
		reg: reg,
		ItemsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "salepoint_items_created_total",
			Help: "Catalog items successfully inserted.",
		}),
		ItemsSoftDeleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "salepoint_items_soft_deleted_total",
			Help: "Catalog items flagged as removed.",
		}),
		InvoicesCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "salepoint_invoices_created_total",
			Help: "Invoice frames committed with their rows.",
		}),
		InvoicesEdited: factory.NewCounter(prometheus.CounterOpts{
			Name: "salepoint_invoices_edited_total",
			Help: "Invoice frames rewritten through the safe-edit path.",
		}),
		InvoicesRemoved: factory.NewCounter(prometheus.CounterOpts{
			Name: "salepoint_invoices_removed_total",
			Help: "Invoice frames deleted together with their rows.",
		}),
	}
}

// Handler serves the registry in the prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
