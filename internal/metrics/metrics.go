package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pflegebox_orders_submitted_total",
		Help: "Order submissions by result (ok, invalid, error).",
	}, []string{"result"})

	CustomersResolved = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pflegebox_customers_resolved_total",
		Help: "Customer resolutions by outcome (created, updated).",
	}, []string{"outcome"})

	CartAdmissionRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pflegebox_cart_admission_rejected_total",
		Help: "Configurator increments refused by the budget ceiling.",
	})

	AdminLogins = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pflegebox_admin_logins_total",
		Help: "Admin login attempts by result.",
	}, []string{"result"})

	DocumentsFlattened = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pflegebox_documents_flattened_total",
		Help: "Document flatten requests by result (flattened, form_dropped, unchanged, passthrough, error).",
	}, []string{"result"})
)
