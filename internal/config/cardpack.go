package config

import (
	"encoding/json"
	"fmt"
	"os"

	"a2a/internal/domain"
)

// CardPack is the JSON layout of an importable card file.
type CardPack struct {
	Adjectives []string `json:"adjectives"`
	Nouns      []string `json:"nouns"`
}

// LoadCardPack reads a card pack from path.
func LoadCardPack(path string) (domain.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("failed to read card pack: %w", err)
	}

	var p CardPack
	if err := json.Unmarshal(data, &p); err != nil {
		return domain.Catalog{}, fmt.Errorf("failed to unmarshal card pack: %w", err)
	}
	return domain.Catalog{Adjectives: p.Adjectives, Nouns: p.Nouns}.Distinct(), nil
}
