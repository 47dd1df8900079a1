package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/gramkart/backend/internal/domain"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

// stubCompleter is a scripted TextCompleter.
type stubCompleter struct {
	available  bool
	response   string
	err        error
	calls      int
	lastPrompt string
}

func (s *stubCompleter) Available() bool { return s.available }

func (s *stubCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	s.calls++
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

// stubCategoryRepo serves a fixed category list.
type stubCategoryRepo struct {
	categories []domain.Category
	err        error
}

func (s *stubCategoryRepo) GetAll(ctx context.Context) ([]domain.Category, error) {
	return s.categories, s.err
}

func (s *stubCategoryRepo) Seed(ctx context.Context, categories []domain.Category) error {
	return nil
}

// stubHistoryRepo serves fixed historical prices and counts lookups.
type stubHistoryRepo struct {
	prices []float64
	err    error
	calls  int
}

func (s *stubHistoryRepo) RecentPrices(ctx context.Context, productName, category string, since time.Time) ([]float64, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return append([]float64(nil), s.prices...), nil
}

// stubProductRepo records created products in memory.
type stubProductRepo struct {
	products  []domain.Product
	histories []domain.PriceHistoryEntry
	nextID    int64
	err       error
}

func (s *stubProductRepo) Create(ctx context.Context, p *domain.Product, h *domain.PriceHistoryEntry) error {
	if s.err != nil {
		return s.err
	}
	s.nextID++
	p.ID = s.nextID
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	s.products = append(s.products, *p)
	s.histories = append(s.histories, *h)
	return nil
}

func (s *stubProductRepo) GetByUser(ctx context.Context, userID string) ([]domain.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []domain.Product
	for _, p := range s.products {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

// stubCache stores values as-is without TTL handling.
type stubCache struct {
	data map[string]interface{}
}

func newStubCache() *stubCache {
	return &stubCache{data: make(map[string]interface{})}
}

func (s *stubCache) Get(ctx context.Context, key string) (interface{}, error) {
	v, ok := s.data[key]
	if !ok {
		return nil, domain.ErrCacheMiss
	}
	return v, nil
}

func (s *stubCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	s.data[key] = value
	return nil
}

func (s *stubCache) Delete(ctx context.Context, key string) error {
	delete(s.data, key)
	return nil
}

func (s *stubCache) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := s.data[key]
	return ok, nil
}

// testCategories mirrors the seeded keyword table.
func testCategories() []domain.Category {
	return []domain.Category{
		{Name: "Vegetables", Keywords: []string{"tomato", "onion", "potato", "carrot", "cabbage", "beans", "peas"}},
		{Name: "Fruits", Keywords: []string{"apple", "banana", "orange", "mango", "grapes", "pomegranate"}},
		{Name: "Grains & Cereals", Keywords: []string{"rice", "wheat", "corn", "barley", "millet", "quinoa"}},
		{Name: "Dairy Products", Keywords: []string{"milk", "cheese", "butter", "yogurt", "cream", "ghee"}},
		{Name: "Handicrafts", Keywords: []string{"pottery", "textiles", "jewelry", "woodwork", "metalwork"}},
	}
}
