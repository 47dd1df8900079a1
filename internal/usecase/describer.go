package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gramkart/backend/internal/domain"
)

// languageNames maps supported language codes to the name used in prompts.
var languageNames = map[string]string{
	"en": "English",
	"hi": "Hindi",
	"ta": "Tamil",
	"te": "Telugu",
	"kn": "Kannada",
	"ml": "Malayalam",
	"gu": "Gujarati",
	"mr": "Marathi",
	"bn": "Bengali",
	"or": "Odia",
	"pa": "Punjabi",
}

const defaultTemplateKey = "default"

// descriptionTemplates hold the per-language, per-category fallback templates.
// Placeholders: {name}, {quantity}, {price}. Languages without a table degrade
// to English; categories without a template use the language default.
var descriptionTemplates = map[string]map[string]string{
	"en": {
		"Vegetables":       "Fresh and crisp {name}, straight from the farm! Perfect for your daily cooking needs. Get {quantity} for just ₹{price}.",
		"Fruits":           "Sweet and juicy {name}, handpicked for the best quality! Rich in vitamins and perfect for the whole family. {quantity} for ₹{price}.",
		"Handicrafts":      "Beautiful handcrafted {name}, made with traditional techniques and love! A perfect addition to your home. Available for ₹{price}.",
		defaultTemplateKey: "Premium quality {name} at an affordable price! Get {quantity} for just ₹{price}. Fresh, genuine, and value for money!",
	},
	"hi": {
		"Vegetables":       "ताज़ी और कुरकुरी {name}, सीधे खेत से! आपकी रोज़ाना खाना पकाने की ज़रूरतों के लिए बिल्कुल सही। सिर्फ ₹{price} में {quantity} पाएं।",
		"Fruits":           "मीठे और रसीले {name}, सबसे अच्छी गुणवत्ता के लिए हाथ से चुने गए! विटामिन से भरपूर और पूरे परिवार के लिए सही। ₹{price} में {quantity}।",
		"Handicrafts":      "सुंदर हस्तनिर्मित {name}, पारंपरिक तकनीकों और प्रेम से बनाया गया! आपके घर के लिए एक बेहतरीन जोड़। ₹{price} में उपलब्ध।",
		defaultTemplateKey: "प्रीमियम गुणवत्ता {name} किफायती कीमत पर! सिर्फ ₹{price} में {quantity} पाएं। ताज़ा, असली, और पैसे की कीमत!",
	},
	"ta": {
		"Vegetables":       "புதிய மற்றும் மிருதுவான {name}, நேரடியாக பண்ணையிலிருந்து! உங்கள் தினசரி சமையல் தேவைகளுக்கு சரியானது। வெறும் ₹{price} க்கு {quantity} பெறுங்கள்.",
		"Fruits":           "இனிப்பு மற்றும் சுவையான {name}, சிறந்த தரத்திற்காக கையால் தேர்ந்தெடுக்கப்பட்டது! வைட்டமின்கள் நிறைந்தது மற்றும் முழு குடும்பத்திற்கும் சரியானது। ₹{price} க்கு {quantity}.",
		"Handicrafts":      "அழகான கைவினைப்பொருள் {name}, பாரம்பரிய நுட்பங்கள் மற்றும் அன்புடன் செய்யப்பட்டது! உங்கள் வீட்டிற்கு ஒரு சிறந்த சேர்க்கை। ₹{price} க்கு கிடைக்கிறது.",
		defaultTemplateKey: "மிக உயர்ந்த தரம் {name} மலிவான விலையில்! வெறும் ₹{price} க்கு {quantity} பெறுங்கள். புதிய, உண்மையான, மற்றும் பணத்திற்கு மதிப்பு!",
	},
}

// DescriptionGenerator produces a one-paragraph marketing description, via the
// text-completion capability or fixed per-language templates.
type DescriptionGenerator struct {
	completer domain.TextCompleter
	logger    zerolog.Logger
}

// NewDescriptionGenerator creates a new description generator
func NewDescriptionGenerator(completer domain.TextCompleter, logger zerolog.Logger) *DescriptionGenerator {
	return &DescriptionGenerator{
		completer: completer,
		logger:    logger.With().Str("component", "description-generator").Logger(),
	}
}

// Generate returns a marketing description for the product in the given
// language. Completion failures fall back to the deterministic templates.
func (g *DescriptionGenerator) Generate(ctx context.Context, productName, category string, price float64, quantity, language string) string {
	if g.completer == nil || !g.completer.Available() {
		return templateDescription(productName, category, price, quantity, language)
	}

	response, err := g.completer.Complete(ctx, buildDescriptionPrompt(productName, category, price, quantity, language))
	if err != nil {
		g.logger.Warn().Err(err).Msg("completion description failed, using template fallback")
		return templateDescription(productName, category, price, quantity, language)
	}

	description := strings.TrimSpace(response)
	description = strings.TrimPrefix(description, `"`)
	description = strings.TrimSuffix(description, `"`)
	return description
}

func buildDescriptionPrompt(productName, category string, price float64, quantity, language string) string {
	languageName, ok := languageNames[language]
	if !ok {
		languageName = "English"
	}

	return fmt.Sprintf(`Create an appealing product description for a %s product called %q.
Price: ₹%s for %s
Language: %s

Make it:
1. Attractive to customers
2. Highlighting quality and freshness
3. Suitable for small sellers (farmers/artisans/kirana stores)
4. 2-3 sentences maximum
5. Include emotional appeal

Write in %s language.`, strings.ToLower(category), productName, formatPrice(price), quantity, languageName, languageName)
}

// templateDescription fills the fixed fallback template for the language and
// category. It is deterministic for identical inputs.
func templateDescription(productName, category string, price float64, quantity, language string) string {
	langTemplates, ok := descriptionTemplates[language]
	if !ok {
		langTemplates = descriptionTemplates["en"]
	}

	template, ok := langTemplates[category]
	if !ok {
		template = langTemplates[defaultTemplateKey]
	}

	return strings.NewReplacer(
		"{name}", productName,
		"{quantity}", quantity,
		"{price}", formatPrice(price),
	).Replace(template)
}

// formatPrice renders a price without trailing zeros ("30", "32.5").
func formatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', -1, 64)
}
