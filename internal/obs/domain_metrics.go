package obs

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// SalesRecordedTotal counts recorded sale events by outcome.
	SalesRecordedTotal *prometheus.CounterVec
	// PricingPassDuration records the latency of full pricing passes in milliseconds.
	PricingPassDuration prometheus.Histogram
	// OrdersCreatedTotal counts committed checkout orders.
	OrdersCreatedTotal prometheus.Counter
	// ReportExportsTotal counts spreadsheet report exports by outcome.
	ReportExportsTotal *prometheus.CounterVec
	// PriceResetsTotal counts catalog-wide price resets.
	PriceResetsTotal prometheus.Counter
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		SalesRecordedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sales_recorded_total",
			Help:      "Count of recorded sale events by outcome.",
		}, []string{"result"})
		PricingPassDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pricing_pass_duration_ms",
			Help:      "Latency of catalog-wide pricing passes in milliseconds.",
			Buckets:   []float64{1, 2, 5, 10, 25, 50, 100, 250},
		})
		OrdersCreatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_created_total",
			Help:      "Total number of orders committed at checkout.",
		})
		ReportExportsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "report_exports_total",
			Help:      "Count of spreadsheet report exports by outcome.",
		}, []string{"result"})
		PriceResetsTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "price_resets_total",
			Help:      "Total number of catalog-wide price resets.",
		})

		mustRegisterCollector(reg, SalesRecordedTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				SalesRecordedTotal = v
			}
		})
		mustRegisterCollector(reg, PricingPassDuration, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Histogram); ok {
				PricingPassDuration = v
			}
		})
		mustRegisterCollector(reg, OrdersCreatedTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Counter); ok {
				OrdersCreatedTotal = v
			}
		})
		mustRegisterCollector(reg, ReportExportsTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				ReportExportsTotal = v
			}
		})
		mustRegisterCollector(reg, PriceResetsTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Counter); ok {
				PriceResetsTotal = v
			}
		})
	})
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register domain metric: %w", err))
	}
}
