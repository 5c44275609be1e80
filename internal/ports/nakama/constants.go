package nakama

const (
	// RpcSnapshot returns the live match as JSON.
	RpcSnapshot = "a2a_snapshot"
	// RpcHistory returns per-player round history as JSON.
	RpcHistory = "a2a_history"
)

const (
	// NoticeSubject and NoticeCode tag private game notices sent as notifications.
	NoticeSubject = "A2A"
	NoticeCode    = 1100

	// MetricTurnFaults counts turns that crashed a match, tagged by fault kind.
	MetricTurnFaults = "a2a_turn_faults"
	// MetricRosterSize reports the number of players in the active match.
	MetricRosterSize = "a2a_roster_size"
)

const defaultHistoryLimit = 10
