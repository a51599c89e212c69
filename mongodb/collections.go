package mongodb

const (
	CredentialsCollection = "integration_credentials" // one document per platform
	SyncHistoryCollection = "integration_sync_history"
	CountersCollection    = "integration_counters"
)

// syncHistoryCounter is the counters document that hands out history sequence numbers.
const syncHistoryCounter = "sync_history"
