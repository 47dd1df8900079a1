package usecase

import (
	"strings"

	"github.com/gramkart/backend/internal/domain"
)

// intentRule maps a keyword set to an intent. Rules are evaluated in order and
// the first rule with any keyword present wins.
type intentRule struct {
	intent   domain.Intent
	keywords []string
}

var intentRules = []intentRule{
	{domain.IntentAddProduct, []string{"add", "create", "new", "insert"}},
	{domain.IntentUpdateProduct, []string{"update", "edit", "modify", "change"}},
	{domain.IntentDeleteProduct, []string{"delete", "remove", "cancel"}},
	{domain.IntentSearchProduct, []string{"search", "find", "show", "list"}},
	{domain.IntentPriceInquiry, []string{"price", "cost", "rate", "market"}},
	{domain.IntentCategorize, []string{"category", "type", "classify"}},
}

// IntentClassifier maps normalized command text to one of the fixed intents.
type IntentClassifier struct{}

// NewIntentClassifier creates a new intent classifier
func NewIntentClassifier() *IntentClassifier {
	return &IntentClassifier{}
}

// Classify returns the intent for the given text. It is a total function:
// text matching no keyword set defaults to add_product.
func (c *IntentClassifier) Classify(text string) domain.Intent {
	lower := strings.ToLower(text)

	for _, rule := range intentRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.intent
			}
		}
	}

	return domain.IntentAddProduct
}
