package parsing

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// numberPattern matches one numeric token: optional integer digits, optional
// decimal point, digits.
var numberPattern = regexp.MustCompile(`\d*\.?\d+`)

var vendorMarkers = []string{"STORE", "MARKET", "SHOP", "CO.", "INC.", "LLC"}

// ExtractHeader scans the lines once and fills the receipt-level fields.
// Vendor and date keep their first match; subtotal, tax and total keep the
// last, since receipts list subtotal before the authoritative total and
// both lines contain "TOTAL".
func ExtractHeader(lines []string) ReceiptHeader {
	var h ReceiptHeader

	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		upper := strings.ToUpper(line)

		if h.Vendor == nil && containsAny(upper, vendorMarkers) {
			v := line
			h.Vendor = &v
		}
		if h.Date == nil && looksLikeDate(line) {
			d := line
			h.Date = &d
		}
		if strings.Contains(upper, "TOTAL") || strings.Contains(upper, "AMOUNT") {
			if n := lastNumber(line); n != nil {
				h.Total = n
			}
		}
		if strings.Contains(upper, "TAX") {
			if n := lastNumber(line); n != nil {
				h.Tax = n
			}
		}
		if strings.Contains(upper, "SUBTOTAL") {
			if n := lastNumber(line); n != nil {
				h.Subtotal = n
			}
		}
	}

	return h
}

// looksLikeDate reports whether a line carries at least one digit and one
// separator a date would use. Intentionally loose: it can capture item
// lines, and that behavior is kept as-is.
func looksLikeDate(line string) bool {
	return strings.ContainsAny(line, "0123456789") && strings.ContainsAny(line, "/- ")
}

func containsAny(upper string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(upper, m) {
			return true
		}
	}
	return false
}

// lastNumber returns the last numeric token on the line, or nil when the
// line has none.
func lastNumber(line string) *decimal.Decimal {
	tokens := numberPattern.FindAllString(line, -1)
	if len(tokens) == 0 {
		return nil
	}
	n, err := decimal.NewFromString(tokens[len(tokens)-1])
	if err != nil {
		return nil
	}
	return &n
}
