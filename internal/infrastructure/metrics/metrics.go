package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Transaction metrics
	TransactionsCreated prometheus.Counter
	TransactionsUpdated prometheus.Counter
	TransactionsDeleted prometheus.Counter
	TransactionAmount   prometheus.Histogram

	// Balance metrics
	BalanceComputations prometheus.Counter
	BalanceDuration     prometheus.Histogram
	LedgerEntriesRead   prometheus.Histogram

	// Account and currency metrics
	AccountsCreated   prometheus.Counter
	CurrenciesCreated prometheus.Counter
	TagsCreated       prometheus.Counter

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Database metrics
	DBConflicts prometheus.Counter

	// Redis metrics
	RedisOperations *prometheus.CounterVec
	RedisErrors     *prometheus.CounterVec

	// Authentication metrics
	AuthAttempts *prometheus.CounterVec
	AuthFailures *prometheus.CounterVec
}

// New creates all Prometheus metrics on the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith creates all Prometheus metrics on the given registerer. Tests use
// a fresh registry to avoid duplicate registration panics.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		TransactionsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "thriftease_transactions_created_total",
			Help: "Total number of transactions created",
		}),
		TransactionsUpdated: factory.NewCounter(prometheus.CounterOpts{
			Name: "thriftease_transactions_updated_total",
			Help: "Total number of transactions updated",
		}),
		TransactionsDeleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "thriftease_transactions_deleted_total",
			Help: "Total number of transactions deleted",
		}),
		TransactionAmount: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "thriftease_transaction_amount_abs",
			Help:    "Absolute transaction amounts",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),

		BalanceComputations: factory.NewCounter(prometheus.CounterOpts{
			Name: "thriftease_balance_computations_total",
			Help: "Total number of balance derivations from the ledger",
		}),
		BalanceDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "thriftease_balance_duration_seconds",
			Help:    "Duration of balance derivations",
			Buckets: prometheus.DefBuckets,
		}),
		LedgerEntriesRead: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "thriftease_ledger_entries_read",
			Help:    "Ledger entries read per balance derivation",
			Buckets: []float64{10, 100, 1000, 10000, 100000},
		}),

		AccountsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "thriftease_accounts_created_total",
			Help: "Total number of accounts created",
		}),
		CurrenciesCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "thriftease_currencies_created_total",
			Help: "Total number of currencies created",
		}),
		TagsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "thriftease_tags_created_total",
			Help: "Total number of tags created",
		}),

		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "thriftease_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "thriftease_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		DBConflicts: factory.NewCounter(prometheus.CounterOpts{
			Name: "thriftease_db_conflicts_total",
			Help: "Total serialization conflicts retried or surfaced",
		}),

		RedisOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "thriftease_redis_operations_total",
				Help: "Total Redis operations",
			},
			[]string{"operation"},
		),
		RedisErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "thriftease_redis_errors_total",
				Help: "Total Redis errors",
			},
			[]string{"operation"},
		),

		AuthAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "thriftease_auth_attempts_total",
				Help: "Total authentication attempts",
			},
			[]string{"status"},
		),
		AuthFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "thriftease_auth_failures_total",
				Help: "Total authentication failures",
			},
			[]string{"reason"},
		),
	}
}
