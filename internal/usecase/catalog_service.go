package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/gramkart/backend/internal/domain"
)

const (
	defaultQuantity = "1kg"
	defaultLanguage = "en"

	historyLocation = "local"
	historySource   = "user_input"
)

// AddProductInput carries the fields of an add-product request.
type AddProductInput struct {
	UserID      string
	ProductName string
	Quantity    string
	Price       float64
	Language    string
}

// ProductSummary is the enriched product payload returned after an add.
type ProductSummary struct {
	Name             string                 `json:"name"`
	Quantity         string                 `json:"quantity"`
	Price            float64                `json:"price"`
	Description      string                 `json:"description"`
	Category         string                 `json:"category"`
	Tags             []string               `json:"tags"`
	PriceSuggestions domain.PriceSuggestion `json:"price_suggestions"`
	ConfidenceScore  float64                `json:"confidence_score"`
}

// AddProductResult is the outcome of a successful add-product operation.
type AddProductResult struct {
	ProductID int64          `json:"product_id"`
	Product   ProductSummary `json:"product"`
}

// PriceInquiryResult is the outcome of a price-suggestion lookup.
type PriceInquiryResult struct {
	ProductName      string                 `json:"product_name"`
	Category         string                 `json:"category"`
	Quantity         string                 `json:"quantity"`
	PriceSuggestions domain.PriceSuggestion `json:"price_suggestions"`
}

// VoiceCommand echoes the NLP analysis of a voice command.
type VoiceCommand struct {
	Intent       domain.Intent   `json:"intent"`
	Entities     domain.Entities `json:"entities"`
	OriginalText string          `json:"original_text"`
	CleanedText  string          `json:"cleaned_text"`
	Language     string          `json:"language"`
	Confidence   float64         `json:"confidence"`
}

// VoiceResult is the intent-specific outcome of processing a voice command.
// Exactly one of Add, Price or Command is set, matching the Intent.
type VoiceResult struct {
	Intent  domain.Intent
	Message string
	Add     *AddProductResult
	Price   *PriceInquiryResult
	Command *VoiceCommand
}

// CatalogService orchestrates the processing pipeline: normalize, classify,
// extract, categorize, price, describe, persist.
type CatalogService struct {
	normalizer   *TextNormalizer
	intents      *IntentClassifier
	extractor    *EntityExtractor
	categorizer  *Categorizer
	prices       *PriceEngine
	descriptions *DescriptionGenerator
	products     domain.ProductRepository
	categories   domain.CategoryRepository
	logger       zerolog.Logger
}

// NewCatalogService wires the pipeline stages together.
func NewCatalogService(
	normalizer *TextNormalizer,
	intents *IntentClassifier,
	extractor *EntityExtractor,
	categorizer *Categorizer,
	prices *PriceEngine,
	descriptions *DescriptionGenerator,
	products domain.ProductRepository,
	categories domain.CategoryRepository,
	logger zerolog.Logger,
) *CatalogService {
	return &CatalogService{
		normalizer:   normalizer,
		intents:      intents,
		extractor:    extractor,
		categorizer:  categorizer,
		prices:       prices,
		descriptions: descriptions,
		products:     products,
		categories:   categories,
		logger:       logger.With().Str("component", "catalog-service").Logger(),
	}
}

// ProcessVoice runs the full pipeline on free-form command text and routes by
// detected intent. Add-product commands are persisted; price inquiries return
// a suggestion; other intents echo the analysis.
func (s *CatalogService) ProcessVoice(ctx context.Context, text, language, userID string) (*VoiceResult, error) {
	if language == "" {
		language = defaultLanguage
	}

	cleaned := s.normalizer.Normalize(text)
	intent := s.intents.Classify(cleaned)
	entities := s.extractor.Extract(ctx, cleaned, language)

	s.logger.Info().
		Str("intent", string(intent)).
		Str("user_id", userID).
		Str("language", language).
		Msg("voice command processed")

	switch intent {
	case domain.IntentAddProduct:
		return s.addFromEntities(ctx, entities, userID, language)
	case domain.IntentPriceInquiry:
		return s.priceFromEntities(ctx, entities)
	default:
		return &VoiceResult{
			Intent:  intent,
			Message: "Command processed successfully",
			Command: &VoiceCommand{
				Intent:       intent,
				Entities:     entities,
				OriginalText: text,
				CleanedText:  cleaned,
				Language:     language,
				Confidence:   entities.Confidence,
			},
		}, nil
	}
}

// addFromEntities persists a product built from extracted entities. A missing
// price is filled with the engine's suggested price.
func (s *CatalogService) addFromEntities(ctx context.Context, entities domain.Entities, userID, language string) (*VoiceResult, error) {
	if entities.ProductName == "" {
		return nil, domain.ErrNoProductName
	}

	quantity := entities.Quantity
	if quantity == "" {
		quantity = defaultQuantity
	}

	price := 0.0
	if entities.Price != nil {
		price = *entities.Price
	}
	if price == 0 {
		category, _ := s.categorizer.Categorize(entities.ProductName)
		suggestion, err := s.prices.Suggest(ctx, entities.ProductName, category, quantity)
		if err != nil {
			return nil, err
		}
		price = suggestion.SuggestedPrice
	}

	result, err := s.AddProduct(ctx, AddProductInput{
		UserID:      userID,
		ProductName: entities.ProductName,
		Quantity:    quantity,
		Price:       price,
		Language:    language,
	})
	if err != nil {
		return nil, err
	}

	return &VoiceResult{
		Intent:  domain.IntentAddProduct,
		Message: fmt.Sprintf("Product %q added successfully!", entities.ProductName),
		Add:     result,
	}, nil
}

// priceFromEntities resolves a category for the extracted product and returns
// a price suggestion.
func (s *CatalogService) priceFromEntities(ctx context.Context, entities domain.Entities) (*VoiceResult, error) {
	if entities.ProductName == "" {
		return nil, domain.ErrNoProductName
	}

	quantity := entities.Quantity
	if quantity == "" {
		quantity = defaultQuantity
	}

	inquiry, err := s.GetPriceSuggestion(ctx, entities.ProductName, "", quantity)
	if err != nil {
		return nil, err
	}

	return &VoiceResult{
		Intent:  domain.IntentPriceInquiry,
		Message: fmt.Sprintf("Price suggestions for %s", entities.ProductName),
		Price:   inquiry,
	}, nil
}

// AddProduct enriches and persists a product: categorize, suggest a price
// range, generate a description, then write the product row and its
// price-history entry in one transaction.
func (s *CatalogService) AddProduct(ctx context.Context, in AddProductInput) (*AddProductResult, error) {
	if in.ProductName == "" {
		return nil, domain.ErrInvalidRequest
	}
	if in.Quantity == "" {
		in.Quantity = defaultQuantity
	}
	if in.Language == "" {
		in.Language = defaultLanguage
	}

	category, tags, confidence := s.categorizer.CategorizeProduct(ctx, in.ProductName)

	suggestion, err := s.prices.Suggest(ctx, in.ProductName, category, in.Quantity)
	if err != nil {
		return nil, err
	}

	description := s.descriptions.Generate(ctx, in.ProductName, category, in.Price, in.Quantity, in.Language)

	product := &domain.Product{
		UserID:            in.UserID,
		Name:              in.ProductName,
		Quantity:          in.Quantity,
		Price:             in.Price,
		Description:       description,
		Category:          category,
		Tags:              tags,
		Language:          in.Language,
		SuggestedPriceMin: suggestion.MinPrice,
		SuggestedPriceMax: suggestion.MaxPrice,
		ConfidenceScore:   confidence,
	}
	history := &domain.PriceHistoryEntry{
		ProductName: in.ProductName,
		Category:    category,
		Price:       in.Price,
		Location:    historyLocation,
		Source:      historySource,
	}

	if err := s.products.Create(ctx, product, history); err != nil {
		return nil, fmt.Errorf("failed to save product: %w", err)
	}

	s.logger.Info().
		Int64("product_id", product.ID).
		Str("category", category).
		Str("user_id", in.UserID).
		Msg("product added")

	return &AddProductResult{
		ProductID: product.ID,
		Product: ProductSummary{
			Name:             in.ProductName,
			Quantity:         in.Quantity,
			Price:            in.Price,
			Description:      description,
			Category:         category,
			Tags:             tags,
			PriceSuggestions: suggestion,
			ConfidenceScore:  confidence,
		},
	}, nil
}

// GetPriceSuggestion returns a price range, auto-resolving the category when
// it is absent or General.
func (s *CatalogService) GetPriceSuggestion(ctx context.Context, productName, category, quantity string) (*PriceInquiryResult, error) {
	if productName == "" {
		return nil, domain.ErrInvalidRequest
	}
	if quantity == "" {
		quantity = defaultQuantity
	}
	if category == "" || category == GeneralCategory {
		category, _ = s.categorizer.Categorize(productName)
	}

	suggestion, err := s.prices.Suggest(ctx, productName, category, quantity)
	if err != nil {
		return nil, err
	}

	return &PriceInquiryResult{
		ProductName:      productName,
		Category:         category,
		Quantity:         quantity,
		PriceSuggestions: suggestion,
	}, nil
}

// CategorizeProduct categorizes a product name and generates tags.
func (s *CatalogService) CategorizeProduct(ctx context.Context, productName string) (string, []string, float64, error) {
	if productName == "" {
		return "", nil, 0, domain.ErrInvalidRequest
	}
	category, tags, confidence := s.categorizer.CategorizeProduct(ctx, productName)
	return category, tags, confidence, nil
}

// GenerateDescription generates a marketing description.
func (s *CatalogService) GenerateDescription(ctx context.Context, productName, category string, price float64, quantity, language string) (string, error) {
	if productName == "" {
		return "", domain.ErrInvalidRequest
	}
	if category == "" {
		category = GeneralCategory
	}
	if quantity == "" {
		quantity = defaultQuantity
	}
	if language == "" {
		language = defaultLanguage
	}
	return s.descriptions.Generate(ctx, productName, category, price, quantity, language), nil
}

// GetCategories lists all known categories with their keywords.
func (s *CatalogService) GetCategories(ctx context.Context) ([]domain.Category, error) {
	return s.categories.GetAll(ctx)
}

// GetUserProducts lists all products owned by the user, newest first.
func (s *CatalogService) GetUserProducts(ctx context.Context, userID string) ([]domain.Product, error) {
	return s.products.GetByUser(ctx, userID)
}
