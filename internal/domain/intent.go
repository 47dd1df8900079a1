package domain

// Intent is the coarse action a user command requests.
type Intent string

const (
	IntentAddProduct    Intent = "add_product"
	IntentUpdateProduct Intent = "update_product"
	IntentDeleteProduct Intent = "delete_product"
	IntentSearchProduct Intent = "search_product"
	IntentPriceInquiry  Intent = "price_inquiry"
	IntentCategorize    Intent = "categorize"
)
