package domain

import "time"

// Product is a persisted catalog entry owned by a seller.
type Product struct {
	ID                int64     `json:"id"`
	UserID            string    `json:"user_id"`
	Name              string    `json:"name"`
	Quantity          string    `json:"quantity"`
	Price             float64   `json:"price"`
	Description       string    `json:"description"`
	Category          string    `json:"category"`
	Tags              []string  `json:"tags"`
	Language          string    `json:"language"`
	SuggestedPriceMin float64   `json:"suggested_price_min"`
	SuggestedPriceMax float64   `json:"suggested_price_max"`
	ConfidenceScore   float64   `json:"confidence_score"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Category groups products by a keyword list used for rule-based matching.
type Category struct {
	Name           string   `json:"name"`
	ParentCategory string   `json:"parent_category,omitempty"`
	Keywords       []string `json:"keywords"`
}

// PriceHistoryEntry is one observed price point, appended on every product add
// and consumed as a rolling 30-day window by the price engine.
type PriceHistoryEntry struct {
	ID          int64     `json:"id"`
	ProductName string    `json:"product_name"`
	Category    string    `json:"category"`
	Price       float64   `json:"price"`
	Location    string    `json:"location"`
	Source      string    `json:"source"`
	RecordedAt  time.Time `json:"recorded_at"`
}

// PriceSuggestion is a market-derived price range.
// Invariant: MinPrice <= SuggestedPrice <= MaxPrice.
type PriceSuggestion struct {
	MinPrice       float64 `json:"min_price"`
	MaxPrice       float64 `json:"max_price"`
	SuggestedPrice float64 `json:"suggested_price"`
	Confidence     float64 `json:"confidence"`
}

// Entities holds the structured fields extracted from a free-text command.
// Price is a pointer so a missing price is distinguishable from zero.
type Entities struct {
	ProductName string   `json:"product_name"`
	Quantity    string   `json:"quantity"`
	Price       *float64 `json:"price"`
	Confidence  float64  `json:"confidence"`
}
