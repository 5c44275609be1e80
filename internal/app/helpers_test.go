package app

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"a2a/internal/domain"
)

var t0 = time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC)

func testCatalog(nouns int) domain.Catalog {
	c := domain.Catalog{Adjectives: []string{"Fluffy", "Loud", "Wet"}}
	for i := 1; i <= nouns; i++ {
		c.Nouns = append(c.Nouns, fmt.Sprintf("n%02d", i))
	}
	return c
}

func newTestService(seed int64) *Service {
	svc := NewService(rand.New(rand.NewSource(seed)), DefaultTimings())
	svc.newID = func() string { return "match-1" }
	return svc
}

// harness threads a match through successive transitions the way the engine does.
type harness struct {
	t       *testing.T
	svc     *Service
	m       *domain.Match
	now     time.Time
	catalog domain.Catalog
}

func newHarness(t *testing.T, players ...string) *harness {
	t.Helper()
	h := &harness{t: t, svc: newTestService(1), now: t0, catalog: testCatalog(30)}
	res, err := h.svc.StartMatch(h.catalog, players[0], h.now)
	require.NoError(t, err)
	h.m = res.Match
	for _, p := range players[1:] {
		h.say(p, CommandJoin)
	}
	return h
}

func (h *harness) apply(in Input) Result {
	h.t.Helper()
	res, err := h.svc.Apply(h.m, in, h.now)
	require.NoError(h.t, err)
	h.m = res.Match
	return res
}

func (h *harness) say(nick, text string) Result {
	h.t.Helper()
	return h.apply(Command{Sender: nick, Text: text})
}

// expire advances the clock to the current deadline and fires it.
func (h *harness) expire() Result {
	h.t.Helper()
	h.now = h.m.Expiration
	return h.apply(Expiry{})
}

// roundStarted returns a harness in AwaitingSubmissions with alice judging bob and carol.
func roundStarted(t *testing.T, extra ...string) *harness {
	t.Helper()
	h := newHarness(t, "alice", "bob", "carol")
	for _, p := range extra {
		h.say(p, CommandJoin)
	}
	h.expire()
	require.Equal(t, domain.StateAwaitingSubmissions, h.m.State)
	require.Equal(t, "alice", h.m.CurrentJudge)
	return h
}

func messages(res Result) []string {
	var out []string
	for _, ev := range res.Events {
		if ev.Kind == EventMessage {
			out = append(out, ev.Payload.(TextPayload).Text)
		}
	}
	return out
}

func notices(res Result, nick string) []string {
	var out []string
	for _, ev := range res.Events {
		if ev.Kind == EventNotice && len(ev.Recipients) == 1 && ev.Recipients[0] == nick {
			out = append(out, ev.Payload.(TextPayload).Text)
		}
	}
	return out
}

func eventOf(res Result, kind EventKind) (Event, bool) {
	for _, ev := range res.Events {
		if ev.Kind == kind {
			return ev, true
		}
	}
	return Event{}, false
}
