package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/gramkart/backend/config"
	"github.com/gramkart/backend/internal/domain"
	"github.com/gramkart/backend/internal/infrastructure/cache"
	"github.com/gramkart/backend/internal/usecase"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type memProductRepo struct {
	products []domain.Product
	nextID   int64
}

func (r *memProductRepo) Create(ctx context.Context, p *domain.Product, h *domain.PriceHistoryEntry) error {
	r.nextID++
	p.ID = r.nextID
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	r.products = append(r.products, *p)
	return nil
}

func (r *memProductRepo) GetByUser(ctx context.Context, userID string) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range r.products {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

type memCategoryRepo struct {
	categories []domain.Category
}

func (r *memCategoryRepo) GetAll(ctx context.Context) ([]domain.Category, error) {
	return r.categories, nil
}

func (r *memCategoryRepo) Seed(ctx context.Context, categories []domain.Category) error {
	return nil
}

type memHistoryRepo struct{}

func (r *memHistoryRepo) RecentPrices(ctx context.Context, productName, category string, since time.Time) ([]float64, error) {
	return nil, nil
}

func testRouterConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:           "8080",
			Environment:    "test",
			AllowedOrigins: []string{"*"},
		},
		RateLimit: config.RateLimitConfig{PerIP: 0},
	}
}

func setupTestRouter(t *testing.T) (*gin.Engine, *memProductRepo) {
	t.Helper()

	products := &memProductRepo{}
	categories := &memCategoryRepo{categories: []domain.Category{
		{Name: "Vegetables", Keywords: []string{"tomato", "onion", "potato", "carrot", "cabbage", "beans", "peas"}},
		{Name: "Fruits", Keywords: []string{"apple", "banana", "orange", "mango", "grapes", "pomegranate"}},
		{Name: "Grains & Cereals", Keywords: []string{"rice", "wheat", "corn", "barley", "millet", "quinoa"}},
	}}

	suggestionCache := cache.NewMemoryCache(time.Minute)
	t.Cleanup(suggestionCache.Close)

	logger := zerolog.Nop()

	categorizer, err := usecase.NewCategorizer(context.Background(), categories, nil, logger)
	if err != nil {
		t.Fatalf("NewCategorizer: %v", err)
	}

	catalog := usecase.NewCatalogService(
		usecase.NewTextNormalizer(),
		usecase.NewIntentClassifier(),
		usecase.NewEntityExtractor(nil, logger),
		categorizer,
		usecase.NewPriceEngine(&memHistoryRepo{}, suggestionCache, time.Minute, logger),
		usecase.NewDescriptionGenerator(nil, logger),
		products,
		categories,
		logger,
	)

	handler := NewHandler(catalog, nil, logger)
	return SetupRouter(testRouterConfig(), handler, logger), products
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var decoded map[string]interface{}
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &decoded); err != nil {
			t.Fatalf("decode response %q: %v", w.Body.String(), err)
		}
	}
	return w, decoded
}

func TestHealthCheck(t *testing.T) {
	router, _ := setupTestRouter(t)

	w, body := doJSON(t, router, http.MethodGet, "/api/health", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if body["status"] != "healthy" {
		t.Errorf("status field = %v, want healthy", body["status"])
	}
	if body["ai_available"] != false {
		t.Errorf("ai_available = %v, want false", body["ai_available"])
	}
	if body["timestamp"] == nil {
		t.Error("timestamp missing")
	}
}

func TestAddProductEndpoint(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		router, products := setupTestRouter(t)

		w, body := doJSON(t, router, http.MethodPost, "/api/add-product", map[string]interface{}{
			"user_id":      "farmer-1",
			"product_name": "tomatoes",
			"quantity":     "2kg",
			"price":        70,
			"language":     "en",
		})

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
		}
		if body["success"] != true {
			t.Errorf("success = %v", body["success"])
		}
		if body["product_id"] != 1.0 {
			t.Errorf("product_id = %v, want 1", body["product_id"])
		}

		product, ok := body["product"].(map[string]interface{})
		if !ok {
			t.Fatalf("product field = %v", body["product"])
		}
		if product["category"] != "Vegetables" {
			t.Errorf("category = %v, want Vegetables", product["category"])
		}
		if product["description"] == "" {
			t.Error("description is empty")
		}
		if len(products.products) != 1 {
			t.Errorf("persisted products = %d, want 1", len(products.products))
		}
	})

	t.Run("missing product name", func(t *testing.T) {
		router, _ := setupTestRouter(t)

		w, body := doJSON(t, router, http.MethodPost, "/api/add-product", map[string]interface{}{
			"user_id": "farmer-1",
		})

		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", w.Code)
		}
		if body["error"] != "Product name is required" {
			t.Errorf("error = %v", body["error"])
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		router, _ := setupTestRouter(t)

		req := httptest.NewRequest(http.MethodPost, "/api/add-product", bytes.NewReader([]byte("{not json")))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", w.Code)
		}
	})

	t.Run("anonymous user default", func(t *testing.T) {
		router, products := setupTestRouter(t)

		w, _ := doJSON(t, router, http.MethodPost, "/api/add-product", map[string]interface{}{
			"product_name": "onions",
			"price":        25,
		})

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
		}
		if products.products[0].UserID != "anonymous" {
			t.Errorf("UserID = %q, want anonymous", products.products[0].UserID)
		}
	})
}

func TestProcessVoiceEndpoint(t *testing.T) {
	t.Run("add product command", func(t *testing.T) {
		router, products := setupTestRouter(t)

		w, body := doJSON(t, router, http.MethodPost, "/api/process-voice", map[string]interface{}{
			"text":     "Add 1kg tomatoes for ₹30",
			"language": "en",
			"user_id":  "farmer-1",
		})

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
		}
		if body["success"] != true {
			t.Errorf("success = %v", body["success"])
		}
		if body["product_id"] != 1.0 {
			t.Errorf("product_id = %v, want 1", body["product_id"])
		}
		if len(products.products) != 1 {
			t.Fatalf("persisted products = %d, want 1", len(products.products))
		}
		if products.products[0].Price != 30 {
			t.Errorf("Price = %v, want 30", products.products[0].Price)
		}
	})

	t.Run("price inquiry command", func(t *testing.T) {
		router, _ := setupTestRouter(t)

		w, body := doJSON(t, router, http.MethodPost, "/api/process-voice", map[string]interface{}{
			"text":    "price of tomatoes",
			"user_id": "farmer-1",
		})

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
		}
		suggestions, ok := body["price_suggestions"].(map[string]interface{})
		if !ok {
			t.Fatalf("price_suggestions = %v", body["price_suggestions"])
		}
		if suggestions["suggested_price"] != 35.0 {
			t.Errorf("suggested_price = %v, want 35", suggestions["suggested_price"])
		}
		if body["category"] != "Vegetables" {
			t.Errorf("category = %v, want Vegetables", body["category"])
		}
	})

	t.Run("echo for other intents", func(t *testing.T) {
		router, _ := setupTestRouter(t)

		w, body := doJSON(t, router, http.MethodPost, "/api/process-voice", map[string]interface{}{
			"text":    "delete the old listing",
			"user_id": "farmer-1",
		})

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
		}
		result, ok := body["result"].(map[string]interface{})
		if !ok {
			t.Fatalf("result = %v", body["result"])
		}
		if result["intent"] != "delete_product" {
			t.Errorf("intent = %v, want delete_product", result["intent"])
		}
	})

	t.Run("missing text", func(t *testing.T) {
		router, _ := setupTestRouter(t)

		w, body := doJSON(t, router, http.MethodPost, "/api/process-voice", map[string]interface{}{
			"user_id": "farmer-1",
		})

		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", w.Code)
		}
		if body["error"] != "No text provided" {
			t.Errorf("error = %v", body["error"])
		}
	})

	t.Run("no extractable product name", func(t *testing.T) {
		router, _ := setupTestRouter(t)

		w, _ := doJSON(t, router, http.MethodPost, "/api/process-voice", map[string]interface{}{
			"text":    "add ₹30",
			"user_id": "farmer-1",
		})

		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", w.Code)
		}
	})
}

func TestGetPriceSuggestionEndpoint(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		router, _ := setupTestRouter(t)

		w, body := doJSON(t, router, http.MethodPost, "/api/get-price-suggestion", map[string]interface{}{
			"product_name": "tomatoes",
			"quantity":     "1kg",
		})

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
		}
		if body["category"] != "Vegetables" {
			t.Errorf("category = %v, want auto-resolved Vegetables", body["category"])
		}
		suggestions, ok := body["price_suggestions"].(map[string]interface{})
		if !ok {
			t.Fatalf("price_suggestions = %v", body["price_suggestions"])
		}
		if suggestions["min_price"] != 30.0 || suggestions["max_price"] != 40.0 {
			t.Errorf("range = %v", suggestions)
		}
	})

	t.Run("missing product name", func(t *testing.T) {
		router, _ := setupTestRouter(t)

		w, _ := doJSON(t, router, http.MethodPost, "/api/get-price-suggestion", map[string]interface{}{})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", w.Code)
		}
	})
}

func TestCategorizeProductEndpoint(t *testing.T) {
	router, _ := setupTestRouter(t)

	w, body := doJSON(t, router, http.MethodPost, "/api/categorize-product", map[string]interface{}{
		"product_name": "organic tomatoes",
	})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if body["category"] != "Vegetables" {
		t.Errorf("category = %v, want Vegetables", body["category"])
	}
	tags, ok := body["tags"].([]interface{})
	if !ok {
		t.Fatalf("tags = %v", body["tags"])
	}
	if len(tags) == 0 {
		t.Error("tags are empty")
	}
	confidence, ok := body["confidence"].(float64)
	if !ok || confidence <= 0 || confidence > 1 {
		t.Errorf("confidence = %v, want (0, 1]", body["confidence"])
	}
}

func TestGenerateDescriptionEndpoint(t *testing.T) {
	router, _ := setupTestRouter(t)

	w, body := doJSON(t, router, http.MethodPost, "/api/generate-description", map[string]interface{}{
		"product_name": "tomatoes",
		"category":     "Vegetables",
		"price":        30,
		"quantity":     "1kg",
	})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	description, _ := body["description"].(string)
	if description == "" {
		t.Error("description is empty")
	}
	if body["language"] != "en" {
		t.Errorf("language = %v, want default en", body["language"])
	}
}

func TestGetCategoriesEndpoint(t *testing.T) {
	router, _ := setupTestRouter(t)

	w, body := doJSON(t, router, http.MethodGet, "/api/get-categories", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	categories, ok := body["categories"].([]interface{})
	if !ok {
		t.Fatalf("categories = %v", body["categories"])
	}
	if len(categories) != 3 {
		t.Errorf("len(categories) = %d, want 3", len(categories))
	}
}

func TestGetUserProductsEndpoint(t *testing.T) {
	router, _ := setupTestRouter(t)

	if w, _ := doJSON(t, router, http.MethodPost, "/api/add-product", map[string]interface{}{
		"user_id":      "farmer-1",
		"product_name": "tomatoes",
		"price":        30,
	}); w.Code != http.StatusOK {
		t.Fatalf("seed add-product status = %d", w.Code)
	}

	t.Run("returns the user's products", func(t *testing.T) {
		w, body := doJSON(t, router, http.MethodGet, "/api/get-products/farmer-1", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		products, ok := body["products"].([]interface{})
		if !ok {
			t.Fatalf("products = %v", body["products"])
		}
		if len(products) != 1 {
			t.Errorf("len(products) = %d, want 1", len(products))
		}
	})

	t.Run("unknown user gets an empty array", func(t *testing.T) {
		w, body := doJSON(t, router, http.MethodGet, "/api/get-products/nobody", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		products, ok := body["products"].([]interface{})
		if !ok {
			t.Fatalf("products must be an array, got %v", body["products"])
		}
		if len(products) != 0 {
			t.Errorf("len(products) = %d, want 0", len(products))
		}
	})
}

func TestRequestIDHeader(t *testing.T) {
	router, _ := setupTestRouter(t)

	t.Run("generated when absent", func(t *testing.T) {
		w, _ := doJSON(t, router, http.MethodGet, "/api/health", nil)
		if w.Header().Get("X-Request-ID") == "" {
			t.Error("X-Request-ID header missing")
		}
	})

	t.Run("echoed when provided", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		req.Header.Set("X-Request-ID", "caller-id-1")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if got := w.Header().Get("X-Request-ID"); got != "caller-id-1" {
			t.Errorf("X-Request-ID = %q, want caller-id-1", got)
		}
	})
}

func TestCORS(t *testing.T) {
	router, _ := setupTestRouter(t)

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/add-product", nil)
		req.Header.Set("Origin", "https://app.example.com")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusNoContent {
			t.Fatalf("status = %d, want 204", w.Code)
		}
		if w.Header().Get("Access-Control-Allow-Origin") != "https://app.example.com" {
			t.Errorf("Allow-Origin = %q", w.Header().Get("Access-Control-Allow-Origin"))
		}
	})

	t.Run("origin echoed on simple requests", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		req.Header.Set("Origin", "https://app.example.com")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Header().Get("Access-Control-Allow-Origin") != "https://app.example.com" {
			t.Errorf("Allow-Origin = %q", w.Header().Get("Access-Control-Allow-Origin"))
		}
	})
}

func TestRateLimit(t *testing.T) {
	products := &memProductRepo{}
	categories := &memCategoryRepo{}
	logger := zerolog.Nop()

	categorizer, err := usecase.NewCategorizer(context.Background(), categories, nil, logger)
	if err != nil {
		t.Fatalf("NewCategorizer: %v", err)
	}

	suggestionCache := cache.NewMemoryCache(time.Minute)
	t.Cleanup(suggestionCache.Close)

	catalog := usecase.NewCatalogService(
		usecase.NewTextNormalizer(),
		usecase.NewIntentClassifier(),
		usecase.NewEntityExtractor(nil, logger),
		categorizer,
		usecase.NewPriceEngine(&memHistoryRepo{}, suggestionCache, time.Minute, logger),
		usecase.NewDescriptionGenerator(nil, logger),
		products,
		categories,
		logger,
	)

	cfg := testRouterConfig()
	cfg.RateLimit.PerIP = 2
	router := SetupRouter(cfg, NewHandler(catalog, nil, logger), logger)

	codes := make([]int, 3)
	for i := range codes {
		w, _ := doJSON(t, router, http.MethodGet, "/api/health", nil)
		codes[i] = w.Code
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Errorf("first two requests = %v, want 200s", codes[:2])
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Errorf("third request = %d, want 429", codes[2])
	}
}
