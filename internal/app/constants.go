package app

import "time"

const (
	// MinPlayers is the roster size needed to play rounds.
	MinPlayers = 3
	// HandSize is the number of nouns a player holds at the start of a round.
	HandSize = 7
	// MinSubmissions is the number of nouns a round needs before it can be judged.
	MinSubmissions = 2
)

// Chat commands understood by the engine.
const (
	CommandStart = ".a2a"
	CommandJoin  = ".join"
	CommandLeave = ".leave"
	CommandStats = ".stats"
	CommandEnd   = ".sa2a"
)

// Timings holds the deadlines of each phase.
type Timings struct {
	AwaitPlayers     time.Duration
	ExtraPlayerTime  time.Duration
	Warning          time.Duration
	BetweenRounds    time.Duration
	AwaitSubmissions time.Duration
	AwaitJudgement   time.Duration
}

// DefaultTimings returns the standard phase lengths.
func DefaultTimings() Timings {
	return Timings{
		AwaitPlayers:     120 * time.Second,
		ExtraPlayerTime:  10 * time.Second,
		Warning:          10 * time.Second,
		BetweenRounds:    15 * time.Second,
		AwaitSubmissions: 80 * time.Second,
		AwaitJudgement:   50 * time.Second,
	}
}
