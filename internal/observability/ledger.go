package observability

import "github.com/prometheus/client_golang/prometheus"

// LedgerMetrics counts reconciliation outcomes.
type LedgerMetrics struct {
	mutations *prometheus.CounterVec
	retries   *prometheus.CounterVec
}

// NewLedgerMetrics registers ledger collectors on registerer.
func NewLedgerMetrics(registerer prometheus.Registerer) *LedgerMetrics {
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "washline_ledger_mutations_total",
		Help: "Invoice mutations processed by the reconciliation engine, by operation and result.",
	}, []string{"op", "result"})
	retries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "washline_ledger_conflict_retries_total",
		Help: "Transactions retried after a serialization conflict.",
	}, []string{"op"})
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	registerer.MustRegister(mutations, retries)
	return &LedgerMetrics{mutations: mutations, retries: retries}
}

// ObserveMutation records one finished operation.
func (m *LedgerMetrics) ObserveMutation(op, result string) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(op, result).Inc()
}

// ObserveRetry records a conflict retry.
func (m *LedgerMetrics) ObserveRetry(op string) {
	if m == nil {
		return
	}
	m.retries.WithLabelValues(op).Inc()
}
