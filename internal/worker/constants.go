package worker

// LogMsgWorkerJobFailed is logged when a worker fails to process a job
const LogMsgWorkerJobFailed = "Worker job failed"

// Log messages for the payment reconciliation worker
const (
	LogMsgReconcileStarting   = "Payment reconciliation starting"
	LogMsgReconcileCompleted  = "Payment reconciliation completed"
	LogMsgReconcileListFailed = "Failed to list pending payment attempts"
	LogMsgReconcilePollFailed = "Failed to poll payment attempt"
)

// Reconciliation defaults
const (
	// DefaultReconcileBatchSize bounds one reconciliation sweep
	DefaultReconcileBatchSize = 50
	// DefaultReconcileMinAge keeps the worker off attempts the initiating
	// request is still polling itself
	DefaultReconcileMinAge = 2 // minutes
)

// Test pool configuration values used in pool_test.go
const (
	TestWorkerCount           = 2
	TestQueueSize             = 10
	TestExpectedJobCount      = 2
	TestWorkerProcessWaitTime = 100 // milliseconds
)
