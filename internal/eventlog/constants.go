package eventlog

// JSON payload field keys
const (
	PayloadKeyUserID = "user_id"
)

// Log messages - service events
const (
	LogMsgEventPayloadNotEncodable = "Event payload not encodable, skipping log"
	LogMsgFailedToLogEvent         = "Failed to log event to database"
	LogMsgEventLogged              = "Event logged to database"
)

// Log messages - cleanup job
const (
	LogMsgCleanupJobStarting  = "Starting audit log cleanup job"
	LogMsgCleanupJobFailed    = "Audit log cleanup failed"
	LogMsgCleanupJobCompleted = "Audit log cleanup completed"
)
