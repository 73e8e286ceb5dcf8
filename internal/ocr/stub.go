package ocr

// stubText is the canned transcription the stub backend hands out for every
// document. It exercises the full parse path: vendor, date, items, totals.
const stubText = `WHOLE FOODS MARKET
123 Main St, Boulder, CO 80301
01/15/2024

Organic All-Purpose Flour 2 $4.99
Active Dry Yeast 1 $2.49
Extra Virgin Olive Oil 1 $12.99
Himalayan Pink Salt 1 $8.99
Custom Gift Boxes 10 $0.75

Subtotal: $42.25
Tax: $3.42
Total: $45.67`

// Stub is a trivial Extractor that ignores its input and returns canned
// receipt text. It is the default backend so the service runs without any
// external vision model configured.
type Stub struct{}

// NewStub creates a new Stub extractor.
func NewStub() *Stub {
	return &Stub{}
}

// ExtractText returns the canned receipt text.
func (s *Stub) ExtractText(data []byte, contentType string) (string, error) {
	return stubText, nil
}

// Close is a no-op.
func (s *Stub) Close() error {
	return nil
}
