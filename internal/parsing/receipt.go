package parsing

import "github.com/shopspring/decimal"

func init() {
	// Receipt numerics go over the wire as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// ReceiptHeader holds the receipt-level fields found during extraction.
// A nil field means the field was not found, not zero.
type ReceiptHeader struct {
	Vendor   *string          `json:"vendor"`
	Date     *string          `json:"date"` // free text, not parsed into a timestamp
	Subtotal *decimal.Decimal `json:"subtotal"`
	Tax      *decimal.Decimal `json:"tax"`
	Total    *decimal.Decimal `json:"total"`
}

// ReceiptLine is a single purchased item read off the receipt. Supplier,
// Batch and Expiry are reserved for richer sources; the heuristics never
// fill them.
type ReceiptLine struct {
	Name      string           `json:"name"`
	Qty       decimal.Decimal  `json:"qty"`
	Unit      string           `json:"unit"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
	LineTotal *decimal.Decimal `json:"line_total"`
	Supplier  *string          `json:"supplier"`
	Batch     *string          `json:"batch"`
	Expiry    *string          `json:"expiry"`
}

// ParsedReceipt is the structured result of one parse: one header plus the
// line items in order of appearance. Duplicate items are not merged.
type ParsedReceipt struct {
	Header ReceiptHeader `json:"header"`
	Lines  []ReceiptLine `json:"lines"`
}
