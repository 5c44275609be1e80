package domain

import (
	"maps"
	"slices"
	"time"
)

// State represents the lifecycle stage of an A2A match.
type State string

const (
	// StateAwaitingPlayers is the lobby state; the match needs three players before rounds start.
	StateAwaitingPlayers State = "awaiting_players"
	// StateBetweenRounds is the pause before the next adjective is drawn.
	StateBetweenRounds State = "between_rounds"
	// StateAwaitingSubmissions is the state where non-judge players pick a noun from their hand.
	StateAwaitingSubmissions State = "awaiting_submissions"
	// StateAwaitingJudgement is the state where the judge picks the winning noun.
	StateAwaitingJudgement State = "awaiting_judgement"
)

// Submission is a noun played by a player in the current round.
type Submission struct {
	Noun   string
	Player string
}

// Match holds authoritative state for a single A2A match.
// A Match that has been handed to readers is never mutated; transitions work on a Clone.
type Match struct {
	ID    string
	State State

	Adjectives Deck
	Nouns      Deck

	PlayerOrder []string            // active roster; the judge rotates from the front to the back
	Hands       map[string][]string // nick -> nouns, including parked hands of departed players
	Wins        map[string]int      // nick -> rounds won, kept after a player leaves

	Awaiting    []string     // players that still owe a submission this round
	Submissions []Submission // in the order they were received
	Shuffled    []string     // presentation order shown to the judge

	CurrentAdjective string
	CurrentJudge     string
	RoundsPlayed     uint

	Expiration       time.Time
	ExpirationWarned bool
}

// Clone returns a deep copy that can be mutated without affecting m.
func (m *Match) Clone() *Match {
	out := *m
	out.Adjectives = m.Adjectives.clone()
	out.Nouns = m.Nouns.clone()
	out.PlayerOrder = slices.Clone(m.PlayerOrder)
	out.Hands = make(map[string][]string, len(m.Hands))
	for nick, hand := range m.Hands {
		out.Hands[nick] = slices.Clone(hand)
	}
	out.Wins = maps.Clone(m.Wins)
	if out.Wins == nil {
		out.Wins = make(map[string]int)
	}
	out.Awaiting = slices.Clone(m.Awaiting)
	out.Submissions = slices.Clone(m.Submissions)
	out.Shuffled = slices.Clone(m.Shuffled)
	return &out
}

// InRoster reports whether nick is an active player.
func (m *Match) InRoster(nick string) bool {
	return slices.Contains(m.PlayerOrder, nick)
}

// Owes reports whether nick still owes a submission this round.
func (m *Match) Owes(nick string) bool {
	return slices.Contains(m.Awaiting, nick)
}

// SubmitterOf returns the player that submitted noun, if any.
func (m *Match) SubmitterOf(noun string) (string, bool) {
	for _, s := range m.Submissions {
		if s.Noun == noun {
			return s.Player, true
		}
	}
	return "", false
}

// AvailableNouns is the number of nouns that can still be dealt.
func (m *Match) AvailableNouns() int {
	return m.Nouns.Available()
}

// SetDeadline moves the expiration to now+d and re-arms the one-time warning.
func (m *Match) SetDeadline(now time.Time, d time.Duration) {
	m.Expiration = now.Add(d)
	m.ExpirationWarned = false
}

// ClearRound discards the cards of the current round and resets round bookkeeping.
func (m *Match) ClearRound() {
	if m.CurrentAdjective != "" {
		m.Adjectives.Discard(m.CurrentAdjective)
	}
	for _, s := range m.Submissions {
		m.Nouns.Discard(s.Noun)
	}
	m.CurrentAdjective = ""
	m.CurrentJudge = ""
	m.Awaiting = nil
	m.Submissions = nil
	m.Shuffled = nil
}
