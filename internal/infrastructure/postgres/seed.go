package postgres

import "github.com/gramkart/backend/internal/domain"

// DefaultCategories returns the ten categories seeded at startup.
func DefaultCategories() []domain.Category {
	return []domain.Category{
		{Name: "Vegetables", Keywords: []string{"tomato", "onion", "potato", "carrot", "cabbage", "beans", "peas"}},
		{Name: "Fruits", Keywords: []string{"apple", "banana", "orange", "mango", "grapes", "pomegranate"}},
		{Name: "Grains & Cereals", Keywords: []string{"rice", "wheat", "corn", "barley", "millet", "quinoa"}},
		{Name: "Dairy Products", Keywords: []string{"milk", "cheese", "butter", "yogurt", "cream", "ghee"}},
		{Name: "Spices & Herbs", Keywords: []string{"turmeric", "chili", "coriander", "cumin", "garam masala"}},
		{Name: "Handicrafts", Keywords: []string{"pottery", "textiles", "jewelry", "woodwork", "metalwork"}},
		{Name: "Clothing & Textiles", Keywords: []string{"saree", "kurta", "dupatta", "shawl", "fabric"}},
		{Name: "Household Items", Keywords: []string{"soap", "oil", "detergent", "cleaning supplies"}},
		{Name: "Snacks & Beverages", Keywords: []string{"biscuits", "namkeen", "tea", "coffee", "juice"}},
		{Name: "Personal Care", Keywords: []string{"shampoo", "toothpaste", "face cream", "hair oil"}},
	}
}
