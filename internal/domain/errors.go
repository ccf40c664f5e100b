package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Wallet errors
	ErrMsgInsufficientFunds    = "insufficient funds"
	ErrMsgWalletNotFound       = "wallet not found"
	ErrMsgDuplicateTransaction = "transaction already recorded"
	ErrMsgInvalidAmount        = "amount must be positive"

	// Batch/ticket errors
	ErrMsgBatchNotFound     = "batch not found"
	ErrMsgBatchExhausted    = "batch exhausted"
	ErrMsgBatchInactive     = "batch is not active"
	ErrMsgBatchAlreadySold  = "batch has sold tickets"
	ErrMsgBatchGenerated    = "batch sells through pre-generated codes"
	ErrMsgTicketNotFound    = "ticket not found"
	ErrMsgTicketAlreadyUsed = "ticket already used"
	ErrMsgNotTicketOwner    = "ticket belongs to another user"

	// Collective errors
	ErrMsgCollectiveNotFound = "collective ticket not found"
	ErrMsgAlreadyPlayed      = "user already played this ticket"
	ErrMsgTicketNotOpen      = "collective ticket is not open for plays"
	ErrMsgInvalidOutcome     = "invalid settlement outcome"

	// Payment errors
	ErrMsgPaymentFailed      = "payment failed"
	ErrMsgAttemptNotFound    = "payment attempt not found"
	ErrMsgTokenRefreshFailed = "token refresh failed"
	ErrMsgInvalidPhone       = "invalid phone number"
	ErrMsgAmountBelowMinimum = "amount below minimum"

	// Database/System errors
	ErrMsgTxClosed = "tx is closed"

	// Input errors
	ErrMsgInvalidInput = "invalid input"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// Wallet errors
	ErrInsufficientFunds    = errors.New(ErrMsgInsufficientFunds)
	ErrWalletNotFound       = errors.New(ErrMsgWalletNotFound)
	ErrDuplicateTransaction = errors.New(ErrMsgDuplicateTransaction)
	ErrInvalidAmount        = errors.New(ErrMsgInvalidAmount)

	// Batch/ticket errors
	ErrBatchNotFound     = errors.New(ErrMsgBatchNotFound)
	ErrBatchExhausted    = errors.New(ErrMsgBatchExhausted)
	ErrBatchInactive     = errors.New(ErrMsgBatchInactive)
	ErrBatchAlreadySold  = errors.New(ErrMsgBatchAlreadySold)
	ErrBatchGenerated    = errors.New(ErrMsgBatchGenerated)
	ErrTicketNotFound    = errors.New(ErrMsgTicketNotFound)
	ErrTicketAlreadyUsed = errors.New(ErrMsgTicketAlreadyUsed)
	ErrNotTicketOwner    = errors.New(ErrMsgNotTicketOwner)

	// Collective errors
	ErrCollectiveNotFound = errors.New(ErrMsgCollectiveNotFound)
	ErrAlreadyPlayed      = errors.New(ErrMsgAlreadyPlayed)
	ErrTicketNotOpen      = errors.New(ErrMsgTicketNotOpen)
	ErrInvalidOutcome     = errors.New(ErrMsgInvalidOutcome)

	// Payment errors
	ErrPaymentFailed      = errors.New(ErrMsgPaymentFailed)
	ErrAttemptNotFound    = errors.New(ErrMsgAttemptNotFound)
	ErrTokenRefreshFailed = errors.New(ErrMsgTokenRefreshFailed)
	ErrInvalidPhone       = errors.New(ErrMsgInvalidPhone)
	ErrAmountBelowMinimum = errors.New(ErrMsgAmountBelowMinimum)

	// Validation errors
	ErrInvalidInput = errors.New(ErrMsgInvalidInput)
)
