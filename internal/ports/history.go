package ports

import (
	"context"
	"time"
)

// PlayedRound is a judged round as stored in history.
type PlayedRound struct {
	MatchID     string
	Round       uint
	Adjective   string
	Judge       string
	Players     []string
	PlayedNouns map[string]string // nick -> noun
	WinningNoun string
	Winner      string
	PlayedAt    time.Time
}

// PlayerHistory summarizes a player's recorded rounds.
type PlayerHistory struct {
	Nick         string `json:"nick"`
	RoundsPlayed int    `json:"rounds_played"`
	RoundsJudged int    `json:"rounds_judged"`
	RoundsWon    int    `json:"rounds_won"`
}

// RoundRecorder persists judged rounds.
type RoundRecorder interface {
	RecordRound(ctx context.Context, round PlayedRound) error
}

// HistoryReader reads aggregated player history.
type HistoryReader interface {
	// PlayerHistory returns players ordered by rounds won, then nick. limit <= 0 means no limit.
	PlayerHistory(ctx context.Context, limit int) ([]PlayerHistory, error)
}
