package ticket

// Idempotency key prefixes. Purchase debits and reveal credits for the same
// ticket land on the same (user_id, key) index, so the cause is encoded in
// the key.
const (
	IdempotencyPrefixPurchase = "purchase:"
	IdempotencyPrefixActivate = "activate:"
	IdempotencyPrefixReveal   = "reveal:"
)

// Physical code generation
const (
	// CodeCharset deliberately omits ambiguous characters (0/O, 1/I/L)
	CodeCharset = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"
	CodeLength  = 12
)

// Error context messages
const (
	ErrContextFailedToBeginTx      = "failed to begin transaction"
	ErrContextFailedToCommitTx     = "failed to commit transaction"
	ErrContextFailedToCreateBatch  = "failed to create batch"
	ErrContextFailedToGetBatch     = "failed to get batch"
	ErrContextFailedToUpdateBatch  = "failed to update batch counters"
	ErrContextFailedToInsertTicket = "failed to insert ticket"
	ErrContextFailedToUpdateTicket = "failed to update ticket"
	ErrContextFailedToDrawOutcome  = "failed to draw outcome"
	ErrContextFailedToDebitStake   = "failed to debit ticket price"
	ErrContextFailedToCreditPrize  = "failed to credit prize"
	ErrContextFailedToCountTickets = "failed to count generated tickets"
	ErrContextFailedToGenerateCode = "failed to generate ticket code"
	ErrContextFailedToPlaceWinners = "failed to place winning positions"
)

// Log messages
const (
	LogMsgCreateBatchCalled      = "CreateBatch called"
	LogMsgPurchaseCalled         = "Purchase called"
	LogMsgActivateCalled         = "Activate called"
	LogMsgRevealCalled           = "Reveal called"
	LogMsgGenerateBatchCalled    = "GenerateBatch called"
	LogMsgDeactivateBatchCalled  = "DeactivateBatch called"
	LogMsgBatchExhausted         = "Batch sold out, deactivating"
	LogMsgTicketAlreadyRevealed  = "Ticket already revealed, returning recorded outcome"
	LogMsgTicketAlreadyActivated = "Ticket already activated, returning recorded state"
)
