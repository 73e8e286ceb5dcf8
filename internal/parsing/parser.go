package parsing

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Parser extracts a structured receipt from raw text. Header and line-item
// extraction run as two independent passes over the same line split; no
// state is shared between them, so a Parser is safe for concurrent use.
type Parser struct{}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse splits the text into lines once and runs both extraction passes.
// A mostly-empty result is a valid outcome, not an error; the only fatal
// condition is input that is not valid UTF-8.
func (p *Parser) Parse(text string) (*ParsedReceipt, error) {
	if !utf8.ValidString(text) {
		return nil, fmt.Errorf("receipt text is not valid UTF-8")
	}

	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	return &ParsedReceipt{
		Header: ExtractHeader(lines),
		Lines:  ExtractLines(lines),
	}, nil
}
