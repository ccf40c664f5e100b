package collective

// RefundThresholdPct is the identical-play share at or above which a lost
// collective ticket refunds its identical players
const RefundThresholdPct = 70.0

// SettledCacheSize bounds the LRU of settled results. Entries are terminal
// and immutable, so eviction only costs a re-read.
const SettledCacheSize = 512

// Idempotency key prefixes for ledger entries caused by plays
const (
	IdempotencyPrefixStake  = "stake:"
	IdempotencyPrefixSettle = "settle:"
)

// Error context messages
const (
	ErrContextFailedToBeginTx      = "failed to begin transaction"
	ErrContextFailedToCommitTx     = "failed to commit transaction"
	ErrContextFailedToCreateTicket = "failed to create collective ticket"
	ErrContextFailedToGetTicket    = "failed to get collective ticket"
	ErrContextFailedToUpdateTicket = "failed to update collective ticket"
	ErrContextFailedToInsertPlay   = "failed to insert play"
	ErrContextFailedToGetPlays     = "failed to get plays"
	ErrContextFailedToUpdatePlay   = "failed to update play"
	ErrContextFailedToDebitStake   = "failed to debit stake"
	ErrContextFailedToCreditWin    = "failed to credit winnings"
	ErrContextFailedToCreditRefund = "failed to credit refund"
	ErrContextFailedToGetProposal  = "failed to generate predictions"
)

// Log messages
const (
	LogMsgProposeCalled      = "Propose called"
	LogMsgPlaceStakeCalled   = "PlaceStake called"
	LogMsgSetResultCalled    = "SetResult called"
	LogMsgAlreadySettled     = "Ticket already terminal, settlement is a no-op"
	LogMsgRefundRuleFired    = "Identical-play threshold met, refunding identical plays"
	LogMsgSettlementComplete = "Settlement complete"
)
