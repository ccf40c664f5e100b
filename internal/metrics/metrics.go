package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventHandlerErrors,
			Help: HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)

// Business Metrics
var (
	TicketsSold = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameTicketsSold,
			Help: HelpTextTicketsSold,
		},
	)

	TicketsRevealed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameTicketsRevealed,
			Help: HelpTextTicketsRevealed,
		},
		[]string{LabelOutcome},
	)

	PrizesPaid = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNamePrizesPaid,
			Help: HelpTextPrizesPaid,
		},
	)

	BatchesExhausted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameBatchesExhausted,
			Help: HelpTextBatchesExhausted,
		},
	)

	StakesPlaced = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameStakesPlaced,
			Help: HelpTextStakesPlaced,
		},
	)

	CollectivesSettled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameCollectivesSettled,
			Help: HelpTextCollectivesSettled,
		},
		[]string{LabelOutcome},
	)

	RefundsIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameRefundsIssued,
			Help: HelpTextRefundsIssued,
		},
	)

	Payments = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNamePayments,
			Help: HelpTextPayments,
		},
		[]string{LabelStatus, LabelPurpose},
	)

	PaymentPolls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNamePaymentPolls,
			Help: HelpTextPaymentPolls,
		},
		[]string{LabelResult},
	)

	TokenRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameTokenRefreshes,
			Help: HelpTextTokenRefreshes,
		},
		[]string{LabelResult},
	)
)
