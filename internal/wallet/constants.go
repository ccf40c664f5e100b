package wallet

// DefaultHistoryLimit caps transaction history reads when no limit is given
const DefaultHistoryLimit = 50

// MaxHistoryLimit bounds caller-supplied history limits
const MaxHistoryLimit = 200

// Error context messages
const (
	ErrContextFailedToBeginTx      = "failed to begin transaction"
	ErrContextFailedToCommitTx     = "failed to commit transaction"
	ErrContextFailedToGetWallet    = "failed to get wallet"
	ErrContextFailedToCreateWallet = "failed to create wallet"
	ErrContextFailedToUpdateWallet = "failed to update wallet"
	ErrContextFailedToInsertTxn    = "failed to insert transaction"
	ErrContextFailedToGetTxnByKey  = "failed to look up idempotency key"
	ErrContextFailedToGetHistory   = "failed to get transaction history"
	ErrContextFailedToSumLedger    = "failed to sum ledger entries"
)

// Log messages
const (
	LogMsgDebitCalled          = "Debit called"
	LogMsgCreditCalled         = "Credit called"
	LogMsgDuplicateTransaction = "Idempotency key already applied, returning recorded transaction"
	LogMsgReconcileCalled      = "Reconcile called"
	LogMsgLedgerMismatch       = "Wallet balance does not match ledger sum"
)
