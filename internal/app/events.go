package app

import (
	"time"

	"a2a/internal/domain"
)

// EventKind identifies emitted events for dispatch by the engine.
type EventKind string

const (
	EventMessage     EventKind = "message"
	EventNotice      EventKind = "notice"
	EventRoundJudged EventKind = "round_judged"
	EventMatchEnded  EventKind = "match_ended"
)

// Event is an outbound effect of a transition with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // nicks; empty means broadcast
}

type TextPayload struct {
	Text string
}

// RoundJudgedPayload describes a round the judge picked a winner for.
type RoundJudgedPayload struct {
	MatchID     string
	Round       uint
	Adjective   string
	Judge       string
	Players     []string
	Played      []domain.Submission
	WinningNoun string
	Winner      string
	At          time.Time
}

type MatchEndedPayload struct {
	MatchID      string
	RoundsPlayed uint
	Summary      string
}
