package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gramkart/backend/internal/domain"
)

// fallbackConfidence is reported by the regex path regardless of how many
// fields were found.
const fallbackConfidence = 0.6

// Price patterns tried in order; the first match wins.
var pricePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)₹\s*(\d+(?:\.\d{2})?)`),
	regexp.MustCompile(`(?i)(\d+(?:\.\d{2})?)\s*rupees?`),
	regexp.MustCompile(`(?i)rs\s*(\d+(?:\.\d{2})?)`),
	regexp.MustCompile(`(?i)(\d+(?:\.\d{2})?)\s*rs`),
}

// Quantity patterns: compact unit tokens first, then verbose spellings.
var quantityPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d+(?:\.\d+)?\s*(?:kg|g|l|ml|pc|pcs|dozen|box|packet))`),
	regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:kilo|kilogram|gram|liter|litre|piece|pieces)`),
}

// priceStripRegex removes any matched price substring before deriving the
// product name.
var priceStripRegex = regexp.MustCompile(`(?i)₹\s*\d+(?:\.\d{2})?|\d+(?:\.\d{2})?\s*(?:rupees?|rs)`)

// commandVerbs are stripped from the remaining text when deriving the product name
var commandVerbs = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\badd\b`),
	regexp.MustCompile(`(?i)\bcreate\b`),
	regexp.MustCompile(`(?i)\bnew\b`),
	regexp.MustCompile(`(?i)\binsert\b`),
	regexp.MustCompile(`(?i)\bupdate\b`),
	regexp.MustCompile(`(?i)\bedit\b`),
}

// EntityExtractor pulls product name, quantity and price out of command text.
// The text-completion capability is the primary path; any failure there falls
// back to deterministic regex extraction, so Extract never returns an error.
type EntityExtractor struct {
	completer domain.TextCompleter
	logger    zerolog.Logger
}

// NewEntityExtractor creates a new entity extractor
func NewEntityExtractor(completer domain.TextCompleter, logger zerolog.Logger) *EntityExtractor {
	return &EntityExtractor{
		completer: completer,
		logger:    logger.With().Str("component", "entity-extractor").Logger(),
	}
}

// Extract returns the entities found in text. language is forwarded to the
// completion prompt only; the fallback path ignores it.
func (e *EntityExtractor) Extract(ctx context.Context, text, language string) domain.Entities {
	if e.completer == nil || !e.completer.Available() {
		return e.extractWithRules(text)
	}

	response, err := e.completer.Complete(ctx, buildExtractionPrompt(text))
	if err != nil {
		e.logger.Warn().Err(err).Msg("completion extraction failed, using rule-based fallback")
		return e.extractWithRules(text)
	}

	var entities domain.Entities
	if err := json.Unmarshal([]byte(stripCodeFence(response)), &entities); err != nil {
		e.logger.Warn().Err(err).Msg("completion response was not valid JSON, using rule-based fallback")
		return e.extractWithRules(text)
	}

	return entities
}

// buildExtractionPrompt asks for the four entity fields as a bare JSON object.
func buildExtractionPrompt(text string) string {
	return fmt.Sprintf(`Extract product information from this text: %q

Return a JSON object with these fields:
- product_name: string (product name)
- quantity: string (amount/quantity with unit)
- price: number (price in rupees, extract number only)
- confidence: number (confidence score 0-1)

If any information is missing, set it to null.
Example: {"product_name": "tomatoes", "quantity": "1kg", "price": 50, "confidence": 0.9}`, text)
}

// extractWithRules is the deterministic regex path.
func (e *EntityExtractor) extractWithRules(text string) domain.Entities {
	entities := domain.Entities{Confidence: fallbackConfidence}

	for _, p := range pricePatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				entities.Price = &v
			}
			break
		}
	}

	for _, p := range quantityPatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			entities.Quantity = strings.TrimSpace(m[1])
			break
		}
	}

	entities.ProductName = deriveProductName(text, entities)

	return entities
}

// deriveProductName removes the matched price and quantity substrings plus
// command verbs, leaving the product name. Empty results stay empty.
func deriveProductName(text string, entities domain.Entities) string {
	remainder := text

	if entities.Price != nil {
		remainder = priceStripRegex.ReplaceAllString(remainder, "")
	}
	if entities.Quantity != "" {
		quantityRegex := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(entities.Quantity))
		remainder = quantityRegex.ReplaceAllString(remainder, "")
	}
	for _, verb := range commandVerbs {
		remainder = verb.ReplaceAllString(remainder, "")
	}

	return strings.TrimSpace(remainder)
}

// stripCodeFence unwraps a markdown code block that completion models often
// put around JSON output.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
