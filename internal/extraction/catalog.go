// Package extraction parses free-text product descriptions into structured
// line items. It replicates the legacy spreadsheet's extraction rules and
// must stay deterministic: identical descriptions always produce identical
// output, regardless of upload order.
package extraction

import "regexp"

// Category labels used across the catalog and reports.
const (
	CategorySofa        = "Sofa"
	CategoryFurniture   = "Furniture"
	CategoryAppliance   = "Appliance"
	CategoryElectronics = "Electronics"
	CategoryOutdoor     = "Outdoor"
	CategoryKitchen     = "Kitchen"
	CategoryOther       = "Other"
)

// FallbackProduct is emitted when no signature matches a description.
const FallbackProduct = "Other"

// pattern is a single matching rule. Go's regexp has no lookahead, so the
// legacy exclusions ("bed" but not "bed room") are expressed as a separate
// unless expression that vetoes the match.
type pattern struct {
	re     *regexp.Regexp
	unless *regexp.Regexp
}

func p(expr string) pattern {
	return pattern{re: regexp.MustCompile(expr)}
}

func pUnless(expr, unlessExpr string) pattern {
	return pattern{re: regexp.MustCompile(expr), unless: regexp.MustCompile(unlessExpr)}
}

// signature identifies one product in the catalog.
type signature struct {
	product  string
	category string
	patterns []pattern
	// specificSofa marks the named sofa variants that must win over the
	// generic sofa signature.
	specificSofa bool
	// genericSofa marks the catch-all sofa signature, suppressed whenever a
	// specific variant matched.
	genericSofa bool
}

// catalog is the ordered signature list. Ordering is significant: specific
// named variants come before generic catch-alls of the same family, and the
// generic sofa signature is last.
var catalog = []signature{
	{product: "Aldis", category: CategorySofa, specificSofa: true, patterns: []pattern{
		p(`\baldis\b`), p(`aldis\s*sofa`), p(`sofa\s*aldis`),
	}},
	{product: "Kyle", category: CategorySofa, specificSofa: true, patterns: []pattern{
		p(`\bkyle\b`), p(`kyle\s*sofa`), p(`sofa\s*kyle`),
	}},
	{product: "Hamilton", category: CategorySofa, specificSofa: true, patterns: []pattern{
		p(`\bhamilton\b`), p(`hamilton\s*sofa`), p(`sofa\s*hamilton`),
	}},
	{product: "Lawson", category: CategorySofa, specificSofa: true, patterns: []pattern{
		p(`\blawson\b`), p(`lawson\s*sofa`), p(`sofa\s*lawson`),
	}},
	{product: "Lucy", category: CategorySofa, specificSofa: true, patterns: []pattern{
		p(`\blucy\b`), p(`lucy\s*sofa`), p(`sofa\s*lucy`),
	}},
	{product: "Roma", category: CategorySofa, specificSofa: true, patterns: []pattern{
		p(`\broma\b`), p(`roma\s*sofa`), p(`sofa\s*roma`),
	}},
	{product: "Rattan", category: CategoryFurniture, patterns: []pattern{
		p(`\brattan\b`), p(`rattan\s*furniture`), p(`rattan\s*set`),
	}},
	{product: "Bed", category: CategoryFurniture, patterns: []pattern{
		pUnless(`\bbed\b`, `\bbed\s+room\b`), p(`\bmattress\b`), p(`\bdivan\b`), p(`bed\s*frame`),
	}},
	{product: "Dining set", category: CategoryFurniture, patterns: []pattern{
		p(`dining\s*set`), p(`dining\s*table`), p(`dining\s*chairs`), p(`table\s*and\s*chairs`),
	}},
	{product: "Cooker", category: CategoryAppliance, patterns: []pattern{
		p(`\bcooker\b`), p(`\boven\b`), p(`\bhob\b`), p(`\brange\b`), p(`cooking\s*range`),
	}},
	{product: "Fridge freezer", category: CategoryAppliance, patterns: []pattern{
		p(`fridge\s*freezer`), p(`fridge\s*/\s*freezer`), p(`refrigerator`), p(`american\s*style\s*fridge`),
	}},
	{product: "Washer dryer", category: CategoryAppliance, patterns: []pattern{
		p(`washer\s*dryer`), p(`washer\s*/\s*dryer`), p(`washing\s*machine`), p(`\bwasher\b`),
	}},
	{product: "Dish washer", category: CategoryAppliance, patterns: []pattern{
		p(`dish\s*washer`), p(`dishwasher`), p(`dish\s*washing\s*machine`),
	}},
	{product: "Microwave", category: CategoryAppliance, patterns: []pattern{
		p(`\bmicrowave\b`), p(`micro\s*wave`),
	}},
	{product: "TV", category: CategoryElectronics, patterns: []pattern{
		p(`\btv\b`), p(`\btelevision\b`), p(`smart\s*tv`), p(`\d+"\s*tv`), p(`tv\s*\d+"`),
	}},
	{product: "Console", category: CategoryElectronics, patterns: []pattern{
		p(`\bplaystation\b`), p(`\bps\d\b`), p(`\bxbox\b`), p(`\bnintendo\b`),
		p(`gaming\s*console`), p(`games\s*console`),
	}},
	{product: "Laptop", category: CategoryElectronics, patterns: []pattern{
		p(`\blaptop\b`), p(`\bnotebook\b`), p(`\bmacbook\b`), p(`\bchromebook\b`),
	}},
	{product: "Vacuum", category: CategoryElectronics, patterns: []pattern{
		p(`\bvacuum\b`), p(`\bhoover\b`), pUnless(`\bdyson\b`, `\bdyson\s+hair\b`), p(`vacuum\s*cleaner`),
	}},
	{product: "Hot tub", category: CategoryOutdoor, patterns: []pattern{
		p(`hot\s*tub`), p(`spa\s*pool`), p(`jacuzzi`), p(`inflatable\s*spa`),
	}},
	{product: "BBQ", category: CategoryOutdoor, patterns: []pattern{
		p(`\bbbq\b`), p(`\bbarbecue\b`), pUnless(`\bgrill\b`, `\bgrill\s+pan\b`),
		p(`charcoal\s*grill`), p(`gas\s*grill`),
	}},
	{product: "Air fryer", category: CategoryKitchen, patterns: []pattern{
		p(`air\s*fryer`), p(`airfryer`), p(`air\s*fry`),
	}},
	{product: "Ninja products", category: CategoryKitchen, patterns: []pattern{
		p(`\bninja\b`), p(`ninja\s*foodi`), p(`ninja\s*air\s*fryer`),
	}},
	{product: "Kitchen Bundle", category: CategoryKitchen, patterns: []pattern{
		p(`kitchen\s*bundle`), p(`appliance\s*bundle`), p(`kitchen\s*set`), p(`appliance\s*package`),
	}},
	{product: "Sofa - other", category: CategorySofa, genericSofa: true, patterns: []pattern{
		p(`\bsofa\b`), p(`\bcouch\b`), p(`\bsettee\b`), p(`corner\s*sofa`), p(`recliner\s*sofa`),
	}},
}

// Categories returns the known category labels in display order.
func Categories() []string {
	return []string{
		CategorySofa, CategoryFurniture, CategoryAppliance,
		CategoryElectronics, CategoryOutdoor, CategoryKitchen, CategoryOther,
	}
}

// CategoryOf returns the category a product belongs to, CategoryOther for
// unknown products.
func CategoryOf(product string) string {
	for _, sig := range catalog {
		if sig.product == product {
			return sig.category
		}
	}
	return CategoryOther
}
