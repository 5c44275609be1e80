package domain

import (
	"fmt"
	"math/rand"
	"slices"
)

// Deck is a draw pile together with its discard pile.
type Deck struct {
	Cards    []string // drawn from the front
	Discards []string
}

// NewDeck places every catalog card on the discard pile so the first draw shuffles them.
func NewDeck(catalog []string) Deck {
	return Deck{Discards: slices.Clone(catalog)}
}

// Available returns the number of cards that can still be drawn.
func (d *Deck) Available() int {
	return len(d.Cards) + len(d.Discards)
}

// Discard moves cards onto the discard pile.
func (d *Deck) Discard(cards ...string) {
	d.Discards = append(d.Discards, cards...)
}

// Draw removes n cards from the front of the deck, reshuffling the discard pile into the
// deck whenever it runs dry. It fails without drawing anything when fewer than n cards exist.
func (d *Deck) Draw(rng *rand.Rand, n int) ([]string, error) {
	if available := d.Available(); available < n {
		return nil, fmt.Errorf("%w: need %d, have %d", ErrDeckExhausted, n, available)
	}
	drawn := make([]string, 0, n)
	for i := 0; i < n; i++ {
		if len(d.Cards) == 0 {
			d.Cards = Shuffle(rng, d.Discards)
			d.Discards = nil
		}
		drawn = append(drawn, d.Cards[0])
		d.Cards = d.Cards[1:]
	}
	return drawn, nil
}

// DrawOne draws a single card.
func (d *Deck) DrawOne(rng *rand.Rand) (string, error) {
	cards, err := d.Draw(rng, 1)
	if err != nil {
		return "", err
	}
	return cards[0], nil
}

func (d Deck) clone() Deck {
	return Deck{Cards: slices.Clone(d.Cards), Discards: slices.Clone(d.Discards)}
}

// Shuffle returns a uniformly shuffled copy of cards.
func Shuffle(rng *rand.Rand, cards []string) []string {
	out := slices.Clone(cards)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
