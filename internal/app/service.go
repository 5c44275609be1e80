package app

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"a2a/internal/domain"
)

// Service contains A2A use-cases operating on domain state.
type Service struct {
	rng     *rand.Rand
	timings Timings
	newID   func() string
}

// NewService constructs a Service with provided rng or a time-seeded default.
// A zero Timings selects DefaultTimings.
func NewService(rng *rand.Rand, timings Timings) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if timings == (Timings{}) {
		timings = DefaultTimings()
	}
	return &Service{rng: rng, timings: timings, newID: uuid.NewString}
}

var ErrNoMatch = errors.New("no active match")

// errIgnored marks input that has no effect in the current state.
var errIgnored = errors.New("input ignored")

// Result is the outcome of a transition. A nil Match means the match ended.
type Result struct {
	Match  *domain.Match
	Events []Event
}

// Ended reports whether the transition ended the match.
func (r Result) Ended() bool { return r.Match == nil }

// StartMatch builds a match from catalog with starter as its first player.
func (s *Service) StartMatch(catalog domain.Catalog, starter string, now time.Time) (Result, error) {
	catalog = catalog.Distinct()
	if err := catalog.Validate(); err != nil {
		return Result{}, err
	}
	m := &domain.Match{
		ID:         s.newID(),
		State:      domain.StateAwaitingPlayers,
		Adjectives: domain.NewDeck(catalog.Adjectives),
		Nouns:      domain.NewDeck(catalog.Nouns),
		Hands:      make(map[string][]string),
		Wins:       make(map[string]int),
	}
	hand, err := m.Nouns.Draw(s.rng, HandSize)
	if err != nil {
		return Result{}, err
	}
	m.PlayerOrder = []string{starter}
	m.Hands[starter] = hand
	m.Wins[starter] = 0
	m.SetDeadline(now, s.timings.AwaitPlayers)

	t := &turn{Service: s, m: m, now: now}
	t.say("%s has started a game of A2A! Commands: '%s', '%s', '%s', and '%s' (end game). Waiting on 2 more players...",
		starter, CommandJoin, CommandLeave, CommandStats, CommandEnd)
	return Result{Match: m, Events: t.events}, nil
}

// StartFailureText is the channel diagnostic for a match that could not be built.
func StartFailureText(err error) string {
	switch {
	case errors.Is(err, domain.ErrTooFewAdjectives):
		return "Unable to start A2A game: Too few Adjective cards loaded into database."
	case errors.Is(err, domain.ErrTooFewNouns):
		return "Unable to start A2A game: Too few Noun cards loaded into database."
	default:
		return fmt.Sprintf("Unable to start A2A game: %v", err)
	}
}

// Apply feeds one input to m. The input m is never modified: every transition
// runs against a clone, and ignored input returns m itself with no events.
// An error means the turn faulted and the match should be discarded.
func (s *Service) Apply(m *domain.Match, in Input, now time.Time) (Result, error) {
	if m == nil {
		return Result{}, ErrNoMatch
	}
	t := &turn{Service: s, m: m.Clone(), now: now}
	err := s.dispatch(t, in)
	if errors.Is(err, errIgnored) {
		return Result{Match: m}, nil
	}
	if err != nil {
		return Result{Match: m}, err
	}
	if t.ended {
		t.events = append(t.events, Event{
			Kind: EventMatchEnded,
			Payload: MatchEndedPayload{
				MatchID:      t.m.ID,
				RoundsPlayed: t.m.RoundsPlayed,
				Summary:      t.m.Summary(),
			},
		})
		return Result{Events: t.events}, nil
	}
	return Result{Match: t.m, Events: t.events}, nil
}

func (s *Service) dispatch(t *turn, in Input) error {
	if cmd, ok := in.(Command); ok {
		if handled, err := t.universal(cmd); handled {
			return err
		}
	}
	fn, ok := transitions[transitionKey{t.m.State, in.Kind()}]
	if !ok {
		return errIgnored
	}
	return fn(t, in)
}

type transitionKey struct {
	state domain.State
	kind  InputKind
}

type transition func(t *turn, in Input) error

// transitions holds every state-specific handler. Universal commands are handled before lookup.
var transitions map[transitionKey]transition

func init() {
	transitions = map[transitionKey]transition{
		{domain.StateAwaitingPlayers, InputExpiry}:      (*turn).expireLobby,
		{domain.StateBetweenRounds, InputExpiry}:        (*turn).startRound,
		{domain.StateAwaitingSubmissions, InputCommand}: (*turn).submit,
		{domain.StateAwaitingSubmissions, InputExpiry}:  (*turn).expireSubmissions,
		{domain.StateAwaitingJudgement, InputCommand}:   (*turn).judge,
		{domain.StateAwaitingJudgement, InputExpiry}:    (*turn).expireJudgement,
	}
	for _, st := range []domain.State{
		domain.StateAwaitingPlayers,
		domain.StateBetweenRounds,
		domain.StateAwaitingSubmissions,
		domain.StateAwaitingJudgement,
	} {
		transitions[transitionKey{st, InputDeparture}] = (*turn).depart
		transitions[transitionKey{st, InputRename}] = (*turn).rename
	}
}

// turn accumulates the effects of a single transition on a cloned match.
type turn struct {
	*Service
	m      *domain.Match
	now    time.Time
	events []Event
	ended  bool
}

func (t *turn) say(format string, args ...any) {
	t.events = append(t.events, Event{Kind: EventMessage, Payload: TextPayload{Text: fmt.Sprintf(format, args...)}})
}

func (t *turn) tell(nick, format string, args ...any) {
	t.events = append(t.events, Event{
		Kind:       EventNotice,
		Payload:    TextPayload{Text: fmt.Sprintf(format, args...)},
		Recipients: []string{nick},
	})
}

func (t *turn) end() {
	t.ended = true
}

func (t *turn) enter(st domain.State, d time.Duration) {
	t.m.State = st
	t.m.SetDeadline(t.now, d)
}

func (t *turn) toLobby() {
	t.enter(domain.StateAwaitingPlayers, t.timings.AwaitPlayers)
}

func (t *turn) toBreak() {
	t.enter(domain.StateBetweenRounds, t.timings.BetweenRounds)
}

// waitingOn phrases how many players the roster is short of MinPlayers.
func waitingOn(roster int) string {
	need := MinPlayers - roster
	if need <= 1 {
		return "1 more player"
	}
	return fmt.Sprintf("%d more players", need)
}
