package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Business metric names
const (
	MetricNameTicketsSold        = "tickets_sold_total"
	MetricNameTicketsRevealed    = "tickets_revealed_total"
	MetricNamePrizesPaid         = "prizes_paid_total"
	MetricNameBatchesExhausted   = "batches_exhausted_total"
	MetricNameStakesPlaced       = "stakes_placed_total"
	MetricNameCollectivesSettled = "collectives_settled_total"
	MetricNameRefundsIssued      = "refunds_issued_total"
	MetricNamePayments           = "payment_attempts_total"
	MetricNamePaymentPolls       = "payment_polls_total"
	MetricNameTokenRefreshes     = "token_refreshes_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
)

// Business metric help text
const (
	HelpTextTicketsSold        = "Total number of prepaid tickets sold"
	HelpTextTicketsRevealed    = "Total number of tickets revealed, by outcome"
	HelpTextPrizesPaid         = "Total prize money credited to wallets"
	HelpTextBatchesExhausted   = "Total number of batches that sold out"
	HelpTextStakesPlaced       = "Total number of stakes placed on collective tickets"
	HelpTextCollectivesSettled = "Total number of collective tickets settled, by outcome"
	HelpTextRefundsIssued      = "Total number of refunds issued by the identical-selection rule"
	HelpTextPayments           = "Total number of payment attempts reaching a terminal state"
	HelpTextPaymentPolls       = "Total number of provider status polls"
	HelpTextTokenRefreshes     = "Total number of provider token refreshes"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod  = "method"
	LabelPath    = "path"
	LabelStatus  = "status"
	LabelType    = "type"
	LabelOutcome = "outcome"
	LabelPurpose = "purpose"
	LabelResult  = "result"
)

// Outcome label values
const (
	OutcomeWinner = "winner"
	OutcomeLoser  = "loser"
)

// Result label values for token refreshes and payment polls
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultPending = "pending"
)

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds. These buckets range from 1ms to 10s to capture various latency
// patterns: fast (1-10ms), normal (10-100ms), slow (100ms-1s), very slow (1-10s)
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// ============================================================================
// Log Messages
// ============================================================================

// Debug log messages
const (
	LogMsgPayloadDecodeFailed = "Failed to decode event payload"
	LogMsgMetricsRecorded     = "Metrics recorded for event"
)
