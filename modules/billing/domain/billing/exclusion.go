package billing

import "strings"

// Transaction source channels with billing relevance.
const (
	// SourceBulkImport marks records imported from provider settlement
	// files; the provider already paid the partner directly.
	SourceBulkImport = "bulk_import"

	// CategoryInsurance is the direct-payment insurance category.
	CategoryInsurance = "insurance"
)

// Whitelist maps category type to the product names that remain billable
// for employees with a direct-payment regulatory registration. Product
// names match case-insensitively after trimming.
type Whitelist map[string][]string

// defaultWhitelist covers products settled through the agency even for
// registered intermediaries.
var defaultWhitelist = Whitelist{
	"bank": {
		"Bauspar",
		"Baufinanzierung",
	},
	"real_estate": {
		"Maklercourtage",
	},
}

func (w Whitelist) allows(categoryType, productName string) bool {
	products, ok := w[normalize(categoryType)]
	if !ok {
		return false
	}
	needle := normalize(productName)
	for _, p := range products {
		if normalize(p) == needle {
			return true
		}
	}
	return false
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ShouldExclude decides whether a transaction is excluded from billing.
// Rules run in fixed priority, first match wins:
//
//  1. bulk-import source: always excluded.
//  2. insurance category: always excluded.
//  3. direct-payment registration: everything excluded except
//     whitelisted (category, product) pairs.
//
// Manual-billing transactions never reach this function; the caller
// checks the override first.
func ShouldExclude(categoryType, productName string, hasDirectPaymentRegistration bool, source string) bool {
	return ShouldExcludeWith(defaultWhitelist, categoryType, productName, hasDirectPaymentRegistration, source)
}

// ShouldExcludeWith is ShouldExclude against a caller-supplied whitelist.
func ShouldExcludeWith(whitelist Whitelist, categoryType, productName string, hasDirectPaymentRegistration bool, source string) bool {
	if normalize(source) == SourceBulkImport {
		return true
	}
	if normalize(categoryType) == CategoryInsurance {
		return true
	}
	if hasDirectPaymentRegistration && normalize(categoryType) != "" {
		return !whitelist.allows(categoryType, productName)
	}
	return false
}
