package topics

const (
	// Capturas de SuperOdds (monitor, API e webhook da extensão)
	SuperOddsSnapshots = "superodds_snapshots"

	// DLQ
	SuperOddsSnapshotsDLQ = "superodds_snapshots_dlq"
)

// Canal Redis Pub/Sub com as mudanças detectadas pelo notifier
const ChannelSuperOddsBroadcast = "superodds_broadcast"
