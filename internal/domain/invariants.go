package domain

// NounCount is the number of nouns tracked by the match: deck, discard, every hand
// (parked ones included) and the submissions of the current round.
func (m *Match) NounCount() int {
	n := m.Nouns.Available() + len(m.Submissions)
	for _, hand := range m.Hands {
		n += len(hand)
	}
	return n
}

// AdjectiveCount is the number of adjectives tracked by the match, including the one in play.
func (m *Match) AdjectiveCount() int {
	n := m.Adjectives.Available()
	if m.CurrentAdjective != "" {
		n++
	}
	return n
}
