package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/gramkart/backend/internal/domain"
)

// GeneralCategory is assigned when no keyword scores above zero.
const GeneralCategory = "General"

// confidenceBoost is added to the best normalized keyword score. It is an
// additive floor for rule-based matches, not a probability adjustment.
const confidenceBoost = 0.3

// maxGeneratedTags caps the number of tags taken from a completion response.
const maxGeneratedTags = 5

// starterTags are the category-specific fallback tags.
var starterTags = map[string][]string{
	"Vegetables":     {"fresh", "healthy", "local"},
	"Fruits":         {"fresh", "sweet", "nutritious"},
	"Handicrafts":    {"handmade", "traditional", "unique"},
	"Dairy Products": {"fresh", "nutritious", "daily"},
}

// premiumWords in a product name add a "premium" fallback tag.
var premiumWords = []string{"premium", "quality", "best"}

// Categorizer scores product names against category keyword lists and
// generates search tags. The keyword table is cached in memory at
// construction; call Reload after the categories table changes.
type Categorizer struct {
	repo      domain.CategoryRepository
	completer domain.TextCompleter
	logger    zerolog.Logger

	mu         sync.RWMutex
	categories []domain.Category
}

// NewCategorizer creates a categorizer and loads the keyword table.
func NewCategorizer(ctx context.Context, repo domain.CategoryRepository, completer domain.TextCompleter, logger zerolog.Logger) (*Categorizer, error) {
	c := &Categorizer{
		repo:      repo,
		completer: completer,
		logger:    logger.With().Str("component", "categorizer").Logger(),
	}
	if err := c.Reload(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// Reload replaces the in-memory keyword table from the repository.
func (c *Categorizer) Reload(ctx context.Context) error {
	categories, err := c.repo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load categories: %w", err)
	}

	c.mu.Lock()
	c.categories = categories
	c.mu.Unlock()

	c.logger.Debug().Int("count", len(categories)).Msg("category keyword table loaded")
	return nil
}

// CategorizeProduct returns the best category, generated tags and a
// confidence score for the product name.
func (c *Categorizer) CategorizeProduct(ctx context.Context, productName string) (string, []string, float64) {
	category, confidence := c.Categorize(productName)
	tags := c.GenerateTags(ctx, productName, category)
	return category, tags, confidence
}

// Categorize scores the product name against every category's keyword list
// (matched keywords / total keywords, case-insensitive substring match).
// The strictly highest score wins; ties keep the first-seen category. A zero
// best score yields the General category.
func (c *Categorizer) Categorize(productName string) (string, float64) {
	nameLower := strings.ToLower(productName)

	c.mu.RLock()
	defer c.mu.RUnlock()

	bestCategory := GeneralCategory
	bestScore := 0.0

	for _, category := range c.categories {
		if len(category.Keywords) == 0 {
			continue
		}

		matched := 0
		for _, keyword := range category.Keywords {
			if strings.Contains(nameLower, strings.ToLower(keyword)) {
				matched++
			}
		}

		score := float64(matched) / float64(len(category.Keywords))
		if score > bestScore {
			bestScore = score
			bestCategory = category.Name
		}
	}

	return bestCategory, clampConfidence(bestScore + confidenceBoost)
}

// GenerateTags produces 3-5 search tags. The completion path is truncated to
// maxGeneratedTags; any failure falls back to deterministic starter tags.
func (c *Categorizer) GenerateTags(ctx context.Context, productName, category string) []string {
	if c.completer == nil || !c.completer.Available() {
		return fallbackTags(productName, category)
	}

	response, err := c.completer.Complete(ctx, buildTagPrompt(productName, category))
	if err != nil {
		c.logger.Warn().Err(err).Msg("completion tag generation failed, using fallback tags")
		return fallbackTags(productName, category)
	}

	var tags []string
	if err := json.Unmarshal([]byte(stripCodeFence(response)), &tags); err != nil {
		c.logger.Warn().Err(err).Msg("completion tag response was not a JSON array, using fallback tags")
		return fallbackTags(productName, category)
	}

	if len(tags) > maxGeneratedTags {
		tags = tags[:maxGeneratedTags]
	}
	return tags
}

func buildTagPrompt(productName, category string) string {
	return fmt.Sprintf(`Generate 3-5 relevant tags for the product %q in category %q.
Tags should be useful for search and organization.
Return as a JSON array of strings.
Example: ["fresh", "organic", "local", "seasonal"]`, productName, category)
}

// fallbackTags combines category starter tags with product-name checks and
// removes duplicates.
func fallbackTags(productName, category string) []string {
	tags := append([]string(nil), starterTags[category]...)

	nameLower := strings.ToLower(productName)
	if strings.Contains(nameLower, "organic") {
		tags = append(tags, "organic")
	}
	for _, word := range premiumWords {
		if strings.Contains(nameLower, word) {
			tags = append(tags, "premium")
			break
		}
	}

	return dedupeTags(tags)
}

func dedupeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	var out []string
	for _, tag := range tags {
		if !seen[tag] {
			seen[tag] = true
			out = append(out, tag)
		}
	}
	return out
}

// clampConfidence keeps confidence scores inside [0, 1].
func clampConfidence(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
