package payment

import "time"

// Provider collection statuses as returned by the mobile money API
const (
	ProviderStatusPending    = "PENDING"
	ProviderStatusSuccessful = "SUCCESSFUL"
	ProviderStatusFailed     = "FAILED"
)

// HTTP client settings
const (
	DefaultRequestTimeout = 10 * time.Second
	TokenEndpoint         = "/collection/token/"
	CollectionEndpoint    = "/collection/v1_0/requesttopay"
)

// MinTokenRefreshWait is the floor for the background refresh timer so a
// short-lived or missing token cannot spin the loop
const MinTokenRefreshWait = time.Second

// Error context messages
const (
	ErrContextFailedToCreateAttempt = "failed to create payment attempt"
	ErrContextFailedToGetAttempt    = "failed to get payment attempt"
	ErrContextFailedToRequestIn     = "provider collection request failed"
	ErrContextFailedToGetStatus     = "provider status check failed"
	ErrContextFailedToCredit        = "failed to credit wallet for payment"
)

// Log messages
const (
	LogMsgInitiateCalled   = "Initiate payment called"
	LogMsgAttemptPersisted = "Payment attempt persisted"
	LogMsgPollCalled       = "Poll payment called"
	LogMsgPaymentCompleted = "Payment completed, wallet credited"
	LogMsgPaymentFailed    = "Payment failed"
	LogMsgTokenRefreshed   = "Provider token refreshed"
	LogMsgTokenRefreshErr  = "Provider token refresh failed"
	LogMsgPollBudgetSpent  = "Poll budget exhausted, attempt still pending"
)
