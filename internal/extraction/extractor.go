package extraction

import (
	"regexp"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// LineItem is a single extracted product with its price.
type LineItem struct {
	Product  string
	Category string
	Price    decimal.Decimal
}

// Currency token patterns, tried in order. Group 1 captures the amount.
var pricePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)£\s*(\d+(?:,\d{3})*(?:\.\d{2})?)`),
	regexp.MustCompile(`(?i)(\d+(?:,\d{3})*(?:\.\d{2})?)\s*(?:pounds?|gbp)`),
	regexp.MustCompile(`(?i)(?:price|cost|total|amount):\s*£?\s*(\d+(?:,\d{3})*(?:\.\d{2})?)`),
	regexp.MustCompile(`(?i)(\d+(?:,\d{3})*(?:\.\d{2})?)\s*(?:each|per\s*item)`),
	regexp.MustCompile(`(?i)(?:rrp|retail):\s*£?\s*(\d+(?:,\d{3})*(?:\.\d{2})?)`),
}

var bundleKeyword = regexp.MustCompile(`(?i)\b(?:bundle|set|package|collection)\b`)

// Extract parses a free-text description into a non-empty ordered list of
// line items. Pure function of the input string.
func Extract(description string) []LineItem {
	if strings.TrimSpace(description) == "" {
		return []LineItem{{Product: FallbackProduct, Category: CategoryOther, Price: decimal.Zero}}
	}

	matched := matchSignatures(strings.ToLower(description))
	prices := extractPrices(description)

	if len(matched) == 0 {
		price := decimal.Zero
		if len(prices) > 0 {
			price = prices[0]
		}
		return []LineItem{{Product: FallbackProduct, Category: CategoryOther, Price: price}}
	}

	return pairProductsWithPrices(matched, prices, description)
}

// TotalValue returns the sum of all extracted line-item prices.
func TotalValue(description string) decimal.Decimal {
	total := decimal.Zero
	for _, item := range Extract(description) {
		total = total.Add(item.Price)
	}
	return total
}

// matchSignatures walks the catalog in order and collects every matching
// signature. The generic sofa entry is suppressed when a specific variant
// already matched, so "Corner Sofa - Aldis" yields Aldis and not the
// catch-all.
func matchSignatures(lower string) []signature {
	var matched []signature
	sawSpecificSofa := false

	for _, sig := range catalog {
		if sig.genericSofa && sawSpecificSofa {
			continue
		}
		for _, pat := range sig.patterns {
			if !pat.re.MatchString(lower) {
				continue
			}
			if pat.unless != nil && pat.unless.MatchString(lower) {
				continue
			}
			matched = append(matched, sig)
			if sig.specificSofa {
				sawSpecificSofa = true
			}
			break
		}
	}
	return matched
}

// extractPrices finds every positive monetary amount, deduplicated and
// sorted descending.
func extractPrices(description string) []decimal.Decimal {
	seen := make(map[string]struct{})
	var prices []decimal.Decimal

	for _, re := range pricePatterns {
		for _, match := range re.FindAllStringSubmatch(description, -1) {
			raw := strings.ReplaceAll(match[1], ",", "")
			d, err := decimal.NewFromString(raw)
			if err != nil || !d.IsPositive() {
				continue
			}
			key := d.String()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			prices = append(prices, d)
		}
	}

	sort.Slice(prices, func(i, j int) bool { return prices[i].GreaterThan(prices[j]) })
	return prices
}

// pairProductsWithPrices applies the legacy matching rules.
func pairProductsWithPrices(matched []signature, prices []decimal.Decimal, description string) []LineItem {
	items := make([]LineItem, 0, len(matched))

	switch {
	case len(prices) >= len(matched):
		// Exact match pairs in order; surplus prices assign highest-first,
		// which is the same loop because prices are sorted descending.
		for i, sig := range matched {
			items = append(items, LineItem{Product: sig.product, Category: sig.category, Price: prices[i]})
		}

	case len(prices) == 1 || (len(prices) > 1 && bundleKeyword.MatchString(description)):
		// Bundle: more products than prices with one aggregate total (or an
		// explicit bundle keyword when several amounts appear). The total is
		// split evenly across all matched products. Division happens in
		// decimal with the remainder pennies on the first item so the line
		// items sum back to the exact total.
		total := decimal.Zero
		for _, price := range prices {
			total = total.Add(price)
		}
		n := int64(len(matched))
		share := total.Div(decimal.NewFromInt(n)).RoundDown(2)
		first := total.Sub(share.Mul(decimal.NewFromInt(n - 1)))
		for i, sig := range matched {
			price := share
			if i == 0 {
				price = first
			}
			items = append(items, LineItem{Product: sig.product, Category: sig.category, Price: price})
		}

	default:
		// More products than prices and no bundle hint: assign what we have
		// in order, the rest get zero.
		for i, sig := range matched {
			price := decimal.Zero
			if i < len(prices) {
				price = prices[i]
			}
			items = append(items, LineItem{Product: sig.product, Category: sig.category, Price: price})
		}
	}

	return items
}
