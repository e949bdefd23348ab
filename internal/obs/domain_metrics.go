package obs

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// CheckoutTotal counts checkout attempts by payment method and result.
	CheckoutTotal *prometheus.CounterVec
	// SalesAmountTotal accumulates completed sale totals in minor units.
	SalesAmountTotal prometheus.Counter
	// ItemsSoldTotal accumulates quantities sold across completed sales.
	ItemsSoldTotal prometheus.Counter
	// LowStockEventsTotal counts low stock warnings raised after a sale.
	LowStockEventsTotal prometheus.Counter
	// CatalogCacheTotal counts catalog cache lookups by outcome.
	CatalogCacheTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		CheckoutTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_total",
			Help:      "Count of checkout attempts by payment method and result.",
		}, []string{"method", "result"})
		SalesAmountTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sales_amount_total",
			Help:      "Sum of completed sale totals in rupiah.",
		})
		ItemsSoldTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_sold_total",
			Help:      "Total quantity of items sold across completed sales.",
		})
		LowStockEventsTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "low_stock_events_total",
			Help:      "Number of low stock warnings raised after stock was applied.",
		})
		CatalogCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_cache_total",
			Help:      "Catalog cache lookups by outcome.",
		}, []string{"result"})

		mustRegisterCollector(reg, CheckoutTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				CheckoutTotal = v
			}
		})
		mustRegisterCollector(reg, SalesAmountTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Counter); ok {
				SalesAmountTotal = v
			}
		})
		mustRegisterCollector(reg, ItemsSoldTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Counter); ok {
				ItemsSoldTotal = v
			}
		})
		mustRegisterCollector(reg, LowStockEventsTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Counter); ok {
				LowStockEventsTotal = v
			}
		})
		mustRegisterCollector(reg, CatalogCacheTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				CatalogCacheTotal = v
			}
		})
	})
}

// RecordCheckout is nil safe so services can report without registration.
func RecordCheckout(method, result string) {
	if CheckoutTotal != nil {
		CheckoutTotal.WithLabelValues(method, result).Inc()
	}
}

// RecordSale accumulates the monetary total and item count of a completed sale.
func RecordSale(total int64, items int) {
	if SalesAmountTotal != nil && total > 0 {
		SalesAmountTotal.Add(float64(total))
	}
	if ItemsSoldTotal != nil && items > 0 {
		ItemsSoldTotal.Add(float64(items))
	}
}

// RecordLowStockEvent increments the low stock warning counter.
func RecordLowStockEvent() {
	if LowStockEventsTotal != nil {
		LowStockEventsTotal.Inc()
	}
}

// RecordCacheLookup reports a catalog cache hit or miss.
func RecordCacheLookup(result string) {
	if CatalogCacheTotal != nil {
		CatalogCacheTotal.WithLabelValues(result).Inc()
	}
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
