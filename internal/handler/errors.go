package handler

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details.
// Both handlers and tests should reference these constants to maintain consistency.
const (
	ErrMsgMethodNotAllowed      = "Method not allowed"
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"
	ErrMsgMissingUserID         = "Missing X-User-ID header"
	ErrMsgInvalidID             = "Invalid id"

	// Query parameter error messages
	ErrMsgMissingQueryParam = "Missing %s query parameter"
	ErrMsgInvalidLimit      = "Invalid limit parameter"

	// Batch operation error messages
	ErrMsgCreateBatchFailed     = "Failed to create batch"
	ErrMsgGenerateBatchFailed   = "Failed to generate batch tickets"
	ErrMsgDeactivateBatchFailed = "Failed to deactivate batch"
	ErrMsgListBatchesFailed     = "Failed to list batches"

	// Ticket operation error messages
	ErrMsgPurchaseFailed  = "Failed to purchase ticket"
	ErrMsgActivateFailed  = "Failed to activate ticket"
	ErrMsgRevealFailed    = "Failed to reveal ticket"
	ErrMsgGetTicketFailed = "Failed to get ticket"

	// Wallet operation error messages
	ErrMsgGetWalletFailed  = "Failed to get wallet"
	ErrMsgGetHistoryFailed = "Failed to get transaction history"
	ErrMsgReconcileFailed  = "Failed to reconcile wallet"

	// Collective operation error messages
	ErrMsgProposeFailed    = "Failed to propose collective ticket"
	ErrMsgPlaceStakeFailed = "Failed to place stake"
	ErrMsgSetResultFailed  = "Failed to set collective result"

	// Payment operation error messages
	ErrMsgCollectFailed    = "Failed to initiate collection"
	ErrMsgGetPaymentFailed = "Failed to get payment attempt"
)

// Success messages for API responses
const (
	MsgBatchCreated     = "Batch created"
	MsgBatchGenerated   = "Batch tickets generated"
	MsgBatchDeactivated = "Batch deactivated"
	MsgStakePlaced      = "Stake placed"
	MsgCollectionStart  = "Collection initiated, poll for status"
)
