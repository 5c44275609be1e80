package domain

import (
	"fmt"
	"slices"
	"strings"
)

const (
	// MinAdjectives is the smallest adjective catalog a match can be built from.
	MinAdjectives = 1
	// MinNouns covers three full hands.
	MinNouns = 21
)

// Catalog is the set of card identifiers a match is dealt from.
type Catalog struct {
	Adjectives []string
	Nouns      []string
}

// Distinct returns a copy with blank and duplicate identifiers removed, preserving first occurrence order.
func (c Catalog) Distinct() Catalog {
	return Catalog{Adjectives: DistinctCards(c.Adjectives), Nouns: DistinctCards(c.Nouns)}
}

// Validate reports whether the catalog is large enough to start a match.
func (c Catalog) Validate() error {
	if len(c.Adjectives) < MinAdjectives {
		return fmt.Errorf("%w: have %d", ErrTooFewAdjectives, len(c.Adjectives))
	}
	if len(c.Nouns) < MinNouns {
		return fmt.Errorf("%w: have %d, need %d", ErrTooFewNouns, len(c.Nouns), MinNouns)
	}
	return nil
}

// DistinctCards trims identifiers and drops blanks and repeats.
func DistinctCards(cards []string) []string {
	seen := make(map[string]struct{}, len(cards))
	out := make([]string, 0, len(cards))
	for _, c := range cards {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return slices.Clip(out)
}
