package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/gramkart/backend/internal/domain"
)

// categoryRepository implements domain.CategoryRepository on PostgreSQL.
type categoryRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCategoryRepository creates a PostgreSQL-backed category repository.
func NewCategoryRepository(pool *pgxpool.Pool, logger zerolog.Logger) domain.CategoryRepository {
	return &categoryRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "category").Logger(),
	}
}

// GetAll returns every category in insertion order, so keyword-score ties
// resolve the same way on every load.
func (r *categoryRepository) GetAll(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT name, COALESCE(parent_category, ''), keywords
		FROM categories
		ORDER BY id
	`)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query categories")
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.Name, &c.ParentCategory, &c.Keywords); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan category row")
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating category rows")
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

// Seed inserts categories that are not already present.
func (r *categoryRepository) Seed(ctx context.Context, categories []domain.Category) error {
	for _, c := range categories {
		var parent interface{}
		if c.ParentCategory != "" {
			parent = c.ParentCategory
		}

		_, err := r.pool.Exec(ctx, `
			INSERT INTO categories (name, parent_category, keywords)
			VALUES ($1, $2, $3)
			ON CONFLICT (name) DO NOTHING
		`, c.Name, parent, c.Keywords)
		if err != nil {
			r.logger.Error().Err(err).Str("category", c.Name).Msg("failed to seed category")
			return fmt.Errorf("failed to seed category %s: %w", c.Name, err)
		}
	}

	r.logger.Debug().Int("count", len(categories)).Msg("categories seeded")
	return nil
}
