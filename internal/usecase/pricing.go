package usecase

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/gramkart/backend/internal/domain"
)

const (
	// historyWindow is the rolling window of price-history rows considered.
	historyWindow = 30 * 24 * time.Hour

	// defaultSuggestionTTL caches a computed suggestion for one hour.
	defaultSuggestionTTL = time.Hour

	// coldStartConfidence is reported when no historical or market prices exist.
	coldStartConfidence = 0.3

	// maxSampleConfidence saturates at nine or more price samples.
	maxSampleConfidence = 0.9
)

// marketPrice maps a known product-name substring to representative price
// points. This stands in for a real market-data integration; the slice keeps
// lookup order deterministic.
type marketPrice struct {
	product string
	prices  []float64
}

var mockMarketPrices = []marketPrice{
	{"tomato", []float64{30, 35, 40}},
	{"onion", []float64{25, 30, 35}},
	{"potato", []float64{20, 25, 30}},
	{"rice", []float64{40, 50, 60}},
	{"wheat", []float64{25, 30, 35}},
	{"milk", []float64{50, 55, 60}},
}

var quantityMagnitudeRegex = regexp.MustCompile(`\d+(?:\.\d+)?`)

// PriceEngine suggests a min/max/suggested price range from persisted price
// history plus the mock market table, cached with a wall-clock TTL.
type PriceEngine struct {
	history domain.PriceHistoryRepository
	cache   domain.CacheRepository
	ttl     time.Duration
	logger  zerolog.Logger
}

// NewPriceEngine creates a price engine. A zero ttl selects the one-hour default.
func NewPriceEngine(history domain.PriceHistoryRepository, cache domain.CacheRepository, ttl time.Duration, logger zerolog.Logger) *PriceEngine {
	if ttl == 0 {
		ttl = defaultSuggestionTTL
	}
	return &PriceEngine{
		history: history,
		cache:   cache,
		ttl:     ttl,
		logger:  logger.With().Str("component", "price-engine").Logger(),
	}
}

// Suggest returns a price range for the product. quantity defaults to "1kg".
// Flow: check cache -> combine history and market prices -> compute range -> cache.
func (e *PriceEngine) Suggest(ctx context.Context, productName, category, quantity string) (domain.PriceSuggestion, error) {
	if quantity == "" {
		quantity = "1kg"
	}

	cacheKey := fmt.Sprintf("price:%s:%s:%s", strings.ToLower(productName), strings.ToLower(category), strings.ToLower(quantity))
	if cached, err := e.fromCache(ctx, cacheKey); err == nil {
		return cached, nil
	}

	since := time.Now().Add(-historyWindow)
	historical, err := e.history.RecentPrices(ctx, productName, category, since)
	if err != nil {
		return domain.PriceSuggestion{}, fmt.Errorf("failed to load price history: %w", err)
	}

	combined := append(historical, marketPrices(productName)...)
	suggestion := computeRange(combined, quantity)

	if err := e.cache.Set(ctx, cacheKey, suggestion, e.ttl); err != nil {
		e.logger.Warn().Err(err).Str("key", cacheKey).Msg("failed to cache price suggestion")
	}

	return suggestion, nil
}

// marketPrices returns the mock market price points whose product key is a
// substring of the lowercased name, or nil.
func marketPrices(productName string) []float64 {
	nameLower := strings.ToLower(productName)
	for _, m := range mockMarketPrices {
		if strings.Contains(nameLower, m.product) {
			return m.prices
		}
	}
	return nil
}

// computeRange derives min/max/suggested from the combined price list, scaled
// by the quantity multiplier. An empty list falls back to a unit base price.
func computeRange(prices []float64, quantity string) domain.PriceSuggestion {
	if len(prices) == 0 {
		base := basePriceForQuantity(quantity)
		return domain.PriceSuggestion{
			MinPrice:       round2(base * 0.8),
			MaxPrice:       round2(base * 1.2),
			SuggestedPrice: round2(base),
			Confidence:     coldStartConfidence,
		}
	}

	minPrice, maxPrice, sum := prices[0], prices[0], 0.0
	for _, p := range prices {
		if p < minPrice {
			minPrice = p
		}
		if p > maxPrice {
			maxPrice = p
		}
		sum += p
	}
	mean := sum / float64(len(prices))

	multiplier := quantityMultiplier(quantity)
	confidence := float64(len(prices)) / 10
	if confidence > maxSampleConfidence {
		confidence = maxSampleConfidence
	}

	return domain.PriceSuggestion{
		MinPrice:       round2(minPrice * multiplier),
		MaxPrice:       round2(maxPrice * multiplier),
		SuggestedPrice: round2(mean * multiplier),
		Confidence:     confidence,
	}
}

// basePriceForQuantity is the cold-start base price derived from the unit
// token alone. The "kg" check must precede "g" because it contains it.
func basePriceForQuantity(quantity string) float64 {
	q := strings.ToLower(quantity)
	switch {
	case strings.Contains(q, "kg"):
		return 30.0
	case strings.Contains(q, "g"):
		return 5.0
	case strings.Contains(q, "l"):
		return 25.0
	case strings.Contains(q, "pc"), strings.Contains(q, "piece"):
		return 10.0
	default:
		return 20.0
	}
}

// quantityMultiplier scales per-kg prices to the requested quantity. Grams
// convert to kg; one piece is treated as 0.1 kg-equivalent.
func quantityMultiplier(quantity string) float64 {
	m := quantityMagnitudeRegex.FindString(quantity)
	if m == "" {
		return 1.0
	}
	magnitude, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 1.0
	}

	q := strings.ToLower(quantity)
	switch {
	case strings.Contains(q, "kg"):
		return magnitude
	case strings.Contains(q, "g"):
		return magnitude / 1000
	case strings.Contains(q, "l"):
		return magnitude
	case strings.Contains(q, "pc"), strings.Contains(q, "piece"):
		return magnitude * 0.1
	default:
		return magnitude
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// fromCache retrieves a previously computed suggestion. The cache JSON-round-
// trips stored values, so entries come back as maps.
func (e *PriceEngine) fromCache(ctx context.Context, key string) (domain.PriceSuggestion, error) {
	value, err := e.cache.Get(ctx, key)
	if err != nil {
		return domain.PriceSuggestion{}, err
	}

	switch v := value.(type) {
	case domain.PriceSuggestion:
		return v, nil
	case map[string]interface{}:
		return suggestionFromMap(v), nil
	default:
		return domain.PriceSuggestion{}, domain.ErrCacheMiss
	}
}

// suggestionFromMap converts a JSON-decoded cache entry back to a suggestion.
func suggestionFromMap(data map[string]interface{}) domain.PriceSuggestion {
	var s domain.PriceSuggestion
	if v, ok := data["min_price"].(float64); ok {
		s.MinPrice = v
	}
	if v, ok := data["max_price"].(float64); ok {
		s.MaxPrice = v
	}
	if v, ok := data["suggested_price"].(float64); ok {
		s.SuggestedPrice = v
	}
	if v, ok := data["confidence"].(float64); ok {
		s.Confidence = v
	}
	return s
}
