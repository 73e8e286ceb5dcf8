package ocr

// Extractor turns a submitted receipt document into plain text. The parsing
// core consumes the text and never depends on which implementation produced
// it.
type Extractor interface {
	// ExtractText transcribes an image or PDF into receipt text
	ExtractText(data []byte, contentType string) (string, error)
	// Close releases backend resources
	Close() error
}
