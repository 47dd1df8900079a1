package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/gramkart/backend/internal/domain"
)

// productRepository implements domain.ProductRepository on PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) domain.ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

// Create inserts the product and its price-history entry in one transaction,
// so a catalog entry never exists without its history row.
func (r *productRepository) Create(ctx context.Context, p *domain.Product, h *domain.PriceHistoryEntry) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO products (
			user_id, name, quantity, price, description, category, tags,
			language, suggested_price_min, suggested_price_max, confidence_score
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`,
		p.UserID, p.Name, p.Quantity, p.Price, p.Description, p.Category, p.Tags,
		p.Language, p.SuggestedPriceMin, p.SuggestedPriceMax, p.ConfidenceScore,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("name", p.Name).Msg("failed to insert product")
		return fmt.Errorf("failed to insert product: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO price_history (product_name, category, price, location, source)
		VALUES ($1, $2, $3, $4, $5)
	`, h.ProductName, h.Category, h.Price, h.Location, h.Source)
	if err != nil {
		r.logger.Error().Err(err).Str("name", h.ProductName).Msg("failed to insert price history entry")
		return fmt.Errorf("failed to insert price history entry: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		r.logger.Error().Err(err).Msg("failed to commit transaction")
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetByUser retrieves all products for a user, newest first.
func (r *productRepository) GetByUser(ctx context.Context, userID string) ([]domain.Product, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, name, quantity, price, description, category, tags,
		       language, suggested_price_min, suggested_price_max, confidence_score,
		       created_at, updated_at
		FROM products
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		err := rows.Scan(
			&p.ID, &p.UserID, &p.Name, &p.Quantity, &p.Price, &p.Description,
			&p.Category, &p.Tags, &p.Language, &p.SuggestedPriceMin,
			&p.SuggestedPriceMax, &p.ConfidenceScore, &p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}
