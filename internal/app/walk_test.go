package app

import (
	"math/rand"
	"slices"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"a2a/internal/domain"
)

// TestRandomWalkConservesCards drives matches with random input and checks the
// card and roster invariants after every transition.
func TestRandomWalkConservesCards(t *testing.T) {
	nicks := []string{"ann", "ben", "cat", "dan", "eve", "fay"}
	catalog := testCatalog(60)

	for seed := int64(1); seed <= 20; seed++ {
		rng := rand.New(rand.NewSource(seed))
		svc := newTestService(seed)
		now := t0
		var m *domain.Match

		for step := 0; step < 400; step++ {
			if m == nil {
				res, err := svc.StartMatch(catalog, nicks[rng.Intn(len(nicks))], now)
				require.NoError(t, err)
				m = res.Match
				continue
			}

			var in Input
			nick := nicks[rng.Intn(len(nicks))]
			switch r := rng.Intn(10); {
			case r < 3:
				in = Command{Sender: nick, Text: CommandJoin}
			case r < 5:
				in = Command{Sender: nick, Text: strconv.Itoa(rng.Intn(9))}
			case r < 6:
				in = Departure{Nick: nick}
			case r < 7:
				in = Rename{Old: nick, New: nicks[rng.Intn(len(nicks))]}
			case r < 8:
				in = Command{Sender: nick, Text: CommandStats}
			default:
				now = m.Expiration
				in = Expiry{}
			}
			now = now.Add(time.Duration(rng.Intn(3)) * time.Second)

			before := m.Clone()
			res, err := svc.Apply(m, in, now)
			require.NoError(t, err, "seed %d step %d input %#v", seed, step, in)
			require.Equal(t, before, m, "input match mutated")
			if res.Ended() {
				m = nil
				continue
			}
			m = res.Match
			checkInvariants(t, m, len(catalog.Adjectives), len(catalog.Nouns))
		}
	}
}

func checkInvariants(t *testing.T, m *domain.Match, adjectives, nouns int) {
	t.Helper()
	require.Equal(t, adjectives, m.AdjectiveCount(), "adjectives")
	require.Equal(t, nouns, m.NounCount(), "nouns")

	seen := map[string]bool{}
	for _, p := range m.PlayerOrder {
		require.False(t, seen[p], "duplicate %s in roster", p)
		seen[p] = true
		require.Contains(t, m.Hands, p)
		require.Contains(t, m.Wins, p)
		require.LessOrEqual(t, len(m.Hands[p]), HandSize)
	}
	for _, p := range m.Awaiting {
		require.True(t, seen[p], "awaiting %s not on roster", p)
	}

	switch m.State {
	case domain.StateAwaitingPlayers, domain.StateBetweenRounds:
		require.Empty(t, m.CurrentAdjective)
		require.Empty(t, m.CurrentJudge)
		require.Empty(t, m.Awaiting)
		require.Empty(t, m.Submissions)
		require.Empty(t, m.Shuffled)
	case domain.StateAwaitingSubmissions:
		require.NotEmpty(t, m.CurrentAdjective)
		require.Empty(t, m.Shuffled)
	case domain.StateAwaitingJudgement:
		require.NotEmpty(t, m.CurrentAdjective)
		require.Empty(t, m.Awaiting)
		require.Len(t, m.Shuffled, len(m.Submissions))
		played := make([]string, len(m.Submissions))
		for i, s := range m.Submissions {
			played[i] = s.Noun
		}
		slices.Sort(played)
		shuffled := slices.Clone(m.Shuffled)
		slices.Sort(shuffled)
		require.Equal(t, played, shuffled)
	}
}
