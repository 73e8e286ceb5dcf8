package ocr

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	"image/png"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/gen2brain/heic"
)

// transcribePrompt is the shared prompt for the vision backends.
const transcribePrompt = `You are transcribing a receipt or invoice document. Read every piece of text in the image and write it out as plain text, one receipt line per output line, preserving the top-to-bottom order of the document.

Important:
- Transcribe exactly what is printed, including store name, date, item lines, subtotal, tax and total
- Keep each printed line on its own output line
- Do not summarize, interpret, or reformat amounts
- Do not add any commentary before or after the transcription
- Do not use markdown code blocks`

// normalizeToPNG renders PDFs and decodes HEIC or standard image formats so
// the vision models always receive PNG bytes.
func normalizeToPNG(data []byte, contentType string) ([]byte, error) {
	mime := strings.ToLower(strings.TrimSpace(contentType))
	switch {
	case mime == "application/pdf":
		return renderPDFPage(data)
	case mime == "image/png" && !isHEIC(data):
		return data, nil
	default:
		return decodeToPNG(data, mime)
	}
}

// renderPDFPage rasterizes the first page. Receipts are effectively single
// page documents.
func renderPDFPage(data []byte) ([]byte, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("opening pdf: %w", err)
	}
	defer doc.Close()

	img, err := doc.Image(0)
	if err != nil {
		return nil, fmt.Errorf("rendering pdf page: %w", err)
	}

	return encodePNG(img)
}

func decodeToPNG(data []byte, mime string) ([]byte, error) {
	var img image.Image
	var err error

	// Go's image package does not know HEIC/HEIF, the formats iPhones write.
	if isHEIC(data) || strings.Contains(mime, "heic") || strings.Contains(mime, "heif") {
		img, err = heic.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decoding heic image: %w", err)
		}
	} else {
		img, _, err = image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decoding image: %w", err)
		}
	}

	return encodePNG(img)
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding png: %w", err)
	}
	return buf.Bytes(), nil
}

// isHEIC sniffs the ftyp box brands HEIC/HEIF containers start with.
func isHEIC(data []byte) bool {
	if len(data) < 12 || string(data[4:8]) != "ftyp" {
		return false
	}
	switch string(data[8:12]) {
	case "heic", "heif", "mif1", "msf1":
		return true
	}
	return false
}
