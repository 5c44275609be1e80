package ports

import (
	"context"

	"a2a/internal/domain"
)

// CardCatalog defines the interface for reading the card catalog.
type CardCatalog interface {
	// LoadCatalog returns every adjective and noun identifier. It is called once per match start.
	LoadCatalog(ctx context.Context) (domain.Catalog, error)
}
