package catalog

import (
	"context"
	"fmt"

	"skinker-shop/internal/model"

	"github.com/rs/zerolog"
)

// ProductStore persists catalogue products.
type ProductStore interface {
	Upsert(ctx context.Context, products []model.Product) error
}

// Seeder loads a catalogue document and writes it to the product store.
type Seeder struct {
	loader Loader
	store  ProductStore
	logger zerolog.Logger
}

// NewSeeder creates a new catalogue seeder.
func NewSeeder(loader Loader, store ProductStore, logger zerolog.Logger) *Seeder {
	return &Seeder{
		loader: loader,
		store:  store,
		logger: logger.With().Str("component", "catalog-seeder").Logger(),
	}
}

// Seed upserts every product found at path and returns how many were written.
// Running it again with the same document changes nothing.
func (s *Seeder) Seed(ctx context.Context, path string) (int, error) {
	products, err := s.loader.Load(ctx, path)
	if err != nil {
		return 0, fmt.Errorf("failed to load catalogue: %w", err)
	}

	if err := s.store.Upsert(ctx, products); err != nil {
		return 0, fmt.Errorf("failed to store catalogue: %w", err)
	}

	s.logger.Info().
		Str("source", path).
		Int("products", len(products)).
		Msg("catalogue seeded")

	return len(products), nil
}
