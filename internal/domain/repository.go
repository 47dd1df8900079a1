package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// TextCompleter is the external text-completion capability. Components consult
// Available before building a prompt and fall back to deterministic logic on
// any error, so completion failures never escape a pipeline stage.
type TextCompleter interface {
	Available() bool
	Complete(ctx context.Context, prompt string) (string, error)
}

// ProductRepository defines the interface for product persistence.
type ProductRepository interface {
	// Create inserts the product and its price-history entry in one
	// transaction. The generated ID and timestamps are written back to p.
	Create(ctx context.Context, p *Product, h *PriceHistoryEntry) error
	GetByUser(ctx context.Context, userID string) ([]Product, error)
}

// CategoryRepository defines the interface for category persistence.
type CategoryRepository interface {
	GetAll(ctx context.Context) ([]Category, error)
	// Seed inserts categories that are not already present.
	Seed(ctx context.Context, categories []Category) error
}

// PriceHistoryRepository defines the interface for reading observed prices.
type PriceHistoryRepository interface {
	// RecentPrices returns prices recorded after since where the product name
	// is a substring match or the category is equal, newest first.
	RecentPrices(ctx context.Context, productName, category string, since time.Time) ([]float64, error)
}
