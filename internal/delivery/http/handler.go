package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/gramkart/backend/internal/domain"
	"github.com/gramkart/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	catalog   *usecase.CatalogService
	completer domain.TextCompleter
	logger    zerolog.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(catalog *usecase.CatalogService, completer domain.TextCompleter, logger zerolog.Logger) *Handler {
	return &Handler{
		catalog:   catalog,
		completer: completer,
		logger:    logger.With().Str("component", "http-handler").Logger(),
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	aiAvailable := h.completer != nil && h.completer.Available()
	c.JSON(http.StatusOK, gin.H{
		"status":       "healthy",
		"timestamp":    time.Now().Format(time.RFC3339),
		"ai_available": aiAvailable,
	})
}

type processVoiceRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
	UserID   string `json:"user_id"`
}

// ProcessVoice runs the NLP pipeline on command text and routes by intent.
func (h *Handler) ProcessVoice(c *gin.Context) {
	var req processVoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No text provided"})
		return
	}
	if req.UserID == "" {
		req.UserID = "anonymous"
	}

	result, err := h.catalog.ProcessVoice(c.Request.Context(), req.Text, req.Language, req.UserID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	switch {
	case result.Add != nil:
		c.JSON(http.StatusOK, gin.H{
			"success":    true,
			"message":    result.Message,
			"product_id": result.Add.ProductID,
			"product":    result.Add.Product,
		})
	case result.Price != nil:
		c.JSON(http.StatusOK, gin.H{
			"success":           true,
			"message":           result.Message,
			"product_name":      result.Price.ProductName,
			"category":          result.Price.Category,
			"quantity":          result.Price.Quantity,
			"price_suggestions": result.Price.PriceSuggestions,
		})
	default:
		c.JSON(http.StatusOK, gin.H{
			"message": result.Message,
			"result":  result.Command,
		})
	}
}

type addProductRequest struct {
	UserID      string  `json:"user_id"`
	ProductName string  `json:"product_name"`
	Quantity    string  `json:"quantity"`
	Price       float64 `json:"price"`
	Language    string  `json:"language"`
}

// AddProduct persists a product with AI enrichment.
func (h *Handler) AddProduct(c *gin.Context) {
	var req addProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.ProductName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Product name is required"})
		return
	}
	if req.UserID == "" {
		req.UserID = "anonymous"
	}

	result, err := h.catalog.AddProduct(c.Request.Context(), usecase.AddProductInput{
		UserID:      req.UserID,
		ProductName: req.ProductName,
		Quantity:    req.Quantity,
		Price:       req.Price,
		Language:    req.Language,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"product_id": result.ProductID,
		"product":    result.Product,
	})
}

type priceSuggestionRequest struct {
	ProductName string `json:"product_name"`
	Category    string `json:"category"`
	Quantity    string `json:"quantity"`
}

// GetPriceSuggestion returns a market-derived price range for a product.
func (h *Handler) GetPriceSuggestion(c *gin.Context) {
	var req priceSuggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.ProductName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Product name is required"})
		return
	}

	result, err := h.catalog.GetPriceSuggestion(c.Request.Context(), req.ProductName, req.Category, req.Quantity)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":           true,
		"product_name":      result.ProductName,
		"category":          result.Category,
		"quantity":          result.Quantity,
		"price_suggestions": result.PriceSuggestions,
	})
}

type categorizeRequest struct {
	ProductName string `json:"product_name"`
}

// CategorizeProduct assigns a category and tags to a product name.
func (h *Handler) CategorizeProduct(c *gin.Context) {
	var req categorizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.ProductName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Product name is required"})
		return
	}

	category, tags, confidence, err := h.catalog.CategorizeProduct(c.Request.Context(), req.ProductName)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if tags == nil {
		tags = []string{}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"product_name": req.ProductName,
		"category":     category,
		"tags":         tags,
		"confidence":   confidence,
	})
}

type generateDescriptionRequest struct {
	ProductName string  `json:"product_name"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Quantity    string  `json:"quantity"`
	Language    string  `json:"language"`
}

// GenerateDescription produces a localized marketing description.
func (h *Handler) GenerateDescription(c *gin.Context) {
	var req generateDescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.ProductName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Product name is required"})
		return
	}
	language := req.Language
	if language == "" {
		language = "en"
	}

	description, err := h.catalog.GenerateDescription(c.Request.Context(), req.ProductName, req.Category, req.Price, req.Quantity, language)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"product_name": req.ProductName,
		"description":  description,
		"language":     language,
	})
}

// GetCategories lists all categories with their keywords.
func (h *Handler) GetCategories(c *gin.Context) {
	categories, err := h.catalog.GetCategories(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	if categories == nil {
		categories = []domain.Category{}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"categories": categories,
	})
}

// GetUserProducts lists all products owned by a user.
func (h *Handler) GetUserProducts(c *gin.Context) {
	userID := c.Param("user_id")

	products, err := h.catalog.GetUserProducts(c.Request.Context(), userID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if products == nil {
		products = []domain.Product{}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"products": products,
	})
}

// writeError maps domain errors to HTTP status codes. Validation failures are
// the caller's fault; everything else is a 500.
func (h *Handler) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, domain.ErrInvalidRequest) || errors.Is(err, domain.ErrNoProductName) {
		status = http.StatusBadRequest
	}

	h.logger.Error().Err(err).Int("status", status).Str("path", c.FullPath()).Msg("request failed")
	c.JSON(status, gin.H{"error": err.Error()})
}
