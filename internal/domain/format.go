package domain

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// SummaryTopN is the number of winners listed in a summary.
const SummaryTopN = 5

// Adjective renders an adjective card for chat.
func Adjective(a string) string { return "*" + a + "*" }

// Noun renders a noun card for chat.
func Noun(n string) string { return `"` + n + `"` }

// NumberedNouns renders nouns as a 1-based pick list: 1) "a", 2) "b".
func NumberedNouns(nouns []string) string {
	parts := make([]string, len(nouns))
	for i, n := range nouns {
		parts[i] = fmt.Sprintf("%d) %s", i+1, Noun(n))
	}
	return strings.Join(parts, ", ")
}

// Standing is one line of the winners table.
type Standing struct {
	Player string
	Wins   int
}

// TopWinners ranks players with at least one win by wins descending, then nick ascending.
func TopWinners(wins map[string]int, n int) []Standing {
	out := make([]Standing, 0, len(wins))
	for p, w := range wins {
		if w > 0 {
			out = append(out, Standing{Player: p, Wins: w})
		}
	}
	slices.SortFunc(out, func(a, b Standing) int {
		if c := cmp.Compare(b.Wins, a.Wins); c != 0 {
			return c
		}
		return cmp.Compare(a.Player, b.Player)
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// Summary renders rounds played and the top winners.
func (m *Match) Summary() string {
	top := TopWinners(m.Wins, SummaryTopN)
	if len(top) == 0 {
		return fmt.Sprintf("Rounds played: %d, Top Winners: None", m.RoundsPlayed)
	}
	parts := make([]string, len(top))
	for i, s := range top {
		parts[i] = fmt.Sprintf("%d. %s (%d)", i+1, s.Player, s.Wins)
	}
	return fmt.Sprintf("Rounds played: %d, Top Winners: %s", m.RoundsPlayed, strings.Join(parts, ", "))
}
