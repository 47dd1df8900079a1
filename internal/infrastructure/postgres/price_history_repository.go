package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/gramkart/backend/internal/domain"
)

// priceHistoryRepository implements domain.PriceHistoryRepository on PostgreSQL.
type priceHistoryRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPriceHistoryRepository creates a PostgreSQL-backed price history repository.
func NewPriceHistoryRepository(pool *pgxpool.Pool, logger zerolog.Logger) domain.PriceHistoryRepository {
	return &priceHistoryRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "price-history").Logger(),
	}
}

// RecentPrices returns prices recorded after since where the product name is
// a substring match or the category is equal, newest first.
func (r *priceHistoryRepository) RecentPrices(ctx context.Context, productName, category string, since time.Time) ([]float64, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT price
		FROM price_history
		WHERE (product_name ILIKE '%' || $1 || '%' OR category = $2)
		  AND recorded_at > $3
		ORDER BY recorded_at DESC
	`, productName, category, since)
	if err != nil {
		r.logger.Error().Err(err).Str("product", productName).Msg("failed to query price history")
		return nil, fmt.Errorf("failed to query price history: %w", err)
	}
	defer rows.Close()

	var prices []float64
	for rows.Next() {
		var price float64
		if err := rows.Scan(&price); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan price row")
			return nil, fmt.Errorf("failed to scan price: %w", err)
		}
		prices = append(prices, price)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating price rows")
		return nil, fmt.Errorf("error iterating prices: %w", err)
	}

	return prices, nil
}
