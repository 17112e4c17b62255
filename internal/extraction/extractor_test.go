package extraction

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestExtractSpecificSofaBeatsGenericSignature(t *testing.T) {
	items := Extract(`Corner Sofa – Aldis £1,299.99`)
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d: %v", len(items), items)
	}
	if items[0].Product != "Aldis" {
		t.Fatalf("expected Aldis, got %q", items[0].Product)
	}
	if items[0].Category != CategorySofa {
		t.Fatalf("expected Sofa category, got %q", items[0].Category)
	}
	if !items[0].Price.Equal(dec("1299.99")) {
		t.Fatalf("expected 1299.99, got %s", items[0].Price)
	}
}

func TestExtractSinglePriceMatchesExactly(t *testing.T) {
	cases := map[string]struct {
		product string
		price   string
	}{
		"Washing machine £349.00":              {"Washer dryer", "349"},
		"55\" TV for the living room, £479.99": {"TV", "479.99"},
		"Tower air fryer RRP: 199.99":          {"Air fryer", "199.99"},
		"Double divan bed 650 pounds":          {"Bed", "650"},
		"Hot tub total: £3,200.00":             {"Hot tub", "3200"},
	}
	for desc, want := range cases {
		items := Extract(desc)
		if len(items) != 1 {
			t.Fatalf("%q: expected 1 item, got %v", desc, items)
		}
		if items[0].Product != want.product {
			t.Fatalf("%q: expected product %q, got %q", desc, want.product, items[0].Product)
		}
		if !items[0].Price.Equal(dec(want.price)) {
			t.Fatalf("%q: expected price %s, got %s", desc, want.price, items[0].Price)
		}
	}
}

func TestExtractAirFryerBeforeNinjaCatchAll(t *testing.T) {
	// "Ninja air fryer" matches both signatures; catalog order puts
	// Air fryer first and both products are reported.
	items := Extract("Ninja air fryer £149.99 and carry case £20.00")
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %v", items)
	}
	if items[0].Product != "Air fryer" || items[1].Product != "Ninja products" {
		t.Fatalf("unexpected ordering: %v", items)
	}
	// Higher price pairs with the first product.
	if !items[0].Price.Equal(dec("149.99")) || !items[1].Price.Equal(dec("20")) {
		t.Fatalf("unexpected price pairing: %v", items)
	}
}

func TestExtractNoSignatureFallsBackToOther(t *testing.T) {
	items := Extract("Garden gnome £45.00")
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %v", items)
	}
	if items[0].Product != FallbackProduct || items[0].Category != CategoryOther {
		t.Fatalf("expected Other fallback, got %v", items[0])
	}
	if !items[0].Price.Equal(dec("45")) {
		t.Fatalf("expected 45, got %s", items[0].Price)
	}
}

func TestExtractNoSignatureNoPriceIsZeroOther(t *testing.T) {
	items := Extract("some unrelated note")
	if len(items) != 1 || items[0].Product != FallbackProduct || !items[0].Price.IsZero() {
		t.Fatalf("expected zero-priced Other, got %v", items)
	}
}

func TestExtractEmptyDescriptionIsZeroOther(t *testing.T) {
	for _, desc := range []string{"", "   "} {
		items := Extract(desc)
		if len(items) != 1 || items[0].Product != FallbackProduct || !items[0].Price.IsZero() {
			t.Fatalf("Extract(%q): expected zero-priced Other, got %v", desc, items)
		}
	}
}

func TestExtractBundleSplitsSingleTotalEvenly(t *testing.T) {
	items := Extract("Fridge freezer, washing machine and microwave £900.00")
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %v", items)
	}
	want := dec("300")
	total := decimal.Zero
	for _, item := range items {
		if !item.Price.Equal(want) {
			t.Fatalf("expected even split of 300, got %v", items)
		}
		total = total.Add(item.Price)
	}
	if !total.Equal(dec("900")) {
		t.Fatalf("expected items to sum to 900, got %s", total)
	}
}

func TestExtractBundleRemainderKeepsExactSum(t *testing.T) {
	// 1000 over 3 products cannot split evenly in pennies; the first item
	// absorbs the remainder and the sum stays exact.
	items := Extract("Cooker, dishwasher and microwave £1,000.00")
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %v", items)
	}
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Price)
	}
	if !total.Equal(dec("1000")) {
		t.Fatalf("expected exact sum 1000, got %s", total)
	}
	if !items[0].Price.Equal(dec("333.34")) {
		t.Fatalf("expected first share 333.34, got %s", items[0].Price)
	}
	if !items[1].Price.Equal(dec("333.33")) || !items[2].Price.Equal(dec("333.33")) {
		t.Fatalf("expected 333.33 shares, got %v", items)
	}
}

func TestExtractEqualCountsPairInOrder(t *testing.T) {
	items := Extract("TV £500.00 and PlayStation £400.00")
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %v", items)
	}
	if items[0].Product != "TV" || !items[0].Price.Equal(dec("500")) {
		t.Fatalf("unexpected first item: %v", items[0])
	}
	if items[1].Product != "Console" || !items[1].Price.Equal(dec("400")) {
		t.Fatalf("unexpected second item: %v", items[1])
	}
}

func TestExtractMoreProductsThanPricesWithoutBundleHint(t *testing.T) {
	// Two amounts, three products, no bundle keyword: amounts assign in
	// descending order and the last product gets zero.
	items := Extract("Sofa £800.00, bed £300.00 plus free vacuum")
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %v", items)
	}
	if !items[0].Price.Equal(dec("800")) || !items[1].Price.Equal(dec("300")) || !items[2].Price.IsZero() {
		t.Fatalf("unexpected price assignment: %v", items)
	}
}

func TestExtractBedDoesNotMatchBedroom(t *testing.T) {
	items := Extract("Bed room furniture £200.00")
	if items[0].Product == "Bed" {
		t.Fatalf("bed room must not match the Bed signature: %v", items)
	}
}

func TestExtractDeduplicatesRepeatedAmounts(t *testing.T) {
	items := Extract("Sofa £500.00 was £500.00")
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %v", items)
	}
	if !items[0].Price.Equal(dec("500")) {
		t.Fatalf("expected 500, got %s", items[0].Price)
	}
}

func TestExtractIsDeterministic(t *testing.T) {
	desc := "Corner sofa and 50\" TV bundle £1,500.00"
	first := Extract(desc)
	for i := 0; i < 10; i++ {
		again := Extract(desc)
		if len(again) != len(first) {
			t.Fatalf("non-deterministic length on run %d", i)
		}
		for j := range first {
			if first[j].Product != again[j].Product || !first[j].Price.Equal(again[j].Price) {
				t.Fatalf("non-deterministic output on run %d: %v vs %v", i, first, again)
			}
		}
	}
}

func TestTotalValueSumsLineItems(t *testing.T) {
	got := TotalValue("TV £500.00 and PlayStation £400.00")
	if !got.Equal(dec("900")) {
		t.Fatalf("expected 900, got %s", got)
	}
}

func TestCategoryOfKnownAndUnknownProducts(t *testing.T) {
	if CategoryOf("Aldis") != CategorySofa {
		t.Fatalf("expected Aldis in Sofa category")
	}
	if CategoryOf("Microwave") != CategoryAppliance {
		t.Fatalf("expected Microwave in Appliance category")
	}
	if CategoryOf("nonsense") != CategoryOther {
		t.Fatalf("expected unknown product in Other category")
	}
}
