package parsing

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// tier3Cap bounds how many items may already be accepted before the loosest
// pattern stops firing, so footer or legal text with a trailing number
// cannot flood the parse.
const tier3Cap = 20

// skipMarkers mark header/footer noise; lines containing any of them are
// never considered for line items.
var skipMarkers = []string{"TOTAL", "TAX", "SUBTOTAL", "STORE", "DATE", "RECEIPT"}

var (
	// "qty x name $price"
	qtyNamePricePattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*[xX]\s+(.+?)\s+\$?(\d*\.?\d+)$`)
	// "name qty $price"
	nameQtyPricePattern = regexp.MustCompile(`^(.+?)\s+(\d+(?:\.\d+)?)\s+\$?(\d*\.?\d+)$`)
	// "name $price"
	namePricePattern = regexp.MustCompile(`^(.+?)\s+\$?(\d*\.?\d+)$`)
)

// lineTier attempts to read one receipt line. accepted is how many items the
// current parse has produced so far, for tiers that cap themselves.
type lineTier func(line string, accepted int) (ReceiptLine, bool)

// tiers are tried in order per line; the first match wins and later tiers
// are not consulted for that line.
var tiers = []lineTier{matchQtyNamePrice, matchNameQtyPrice, matchNamePrice}

// ExtractLines runs the tier cascade over every non-noise line. Lines
// matching no tier are dropped silently.
func ExtractLines(lines []string) []ReceiptLine {
	items := make([]ReceiptLine, 0)

	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" || containsAny(strings.ToUpper(line), skipMarkers) {
			continue
		}
		for _, tier := range tiers {
			if item, ok := tier(line, len(items)); ok {
				items = append(items, item)
				break
			}
		}
	}

	return items
}

func matchQtyNamePrice(line string, _ int) (ReceiptLine, bool) {
	m := qtyNamePricePattern.FindStringSubmatch(line)
	if m == nil {
		return ReceiptLine{}, false
	}
	qty, err := decimal.NewFromString(m[1])
	if err != nil {
		return ReceiptLine{}, false
	}
	price, err := decimal.NewFromString(m[3])
	if err != nil {
		return ReceiptLine{}, false
	}
	return newLine(m[2], qty, price), true
}

func matchNameQtyPrice(line string, _ int) (ReceiptLine, bool) {
	m := nameQtyPricePattern.FindStringSubmatch(line)
	if m == nil {
		return ReceiptLine{}, false
	}
	qty, err := decimal.NewFromString(m[2])
	if err != nil {
		return ReceiptLine{}, false
	}
	price, err := decimal.NewFromString(m[3])
	if err != nil {
		return ReceiptLine{}, false
	}
	return newLine(m[1], qty, price), true
}

func matchNamePrice(line string, accepted int) (ReceiptLine, bool) {
	if accepted >= tier3Cap {
		return ReceiptLine{}, false
	}
	m := namePricePattern.FindStringSubmatch(line)
	if m == nil {
		return ReceiptLine{}, false
	}
	price, err := decimal.NewFromString(m[2])
	if err != nil {
		return ReceiptLine{}, false
	}
	return newLine(m[1], decimal.NewFromInt(1), price), true
}

func newLine(name string, qty, price decimal.Decimal) ReceiptLine {
	total := qty.Mul(price)
	return ReceiptLine{
		Name:      strings.TrimSpace(name),
		Qty:       qty,
		Unit:      "ea",
		UnitPrice: &price,
		LineTotal: &total,
	}
}
