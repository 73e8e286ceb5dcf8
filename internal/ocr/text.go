package ocr

import "strings"

// cleanModelText strips markdown fences vision models like to wrap their
// transcriptions in, returning bare receipt text.
func cleanModelText(text string) string {
	text = strings.TrimSpace(text)
	for _, prefix := range []string{"```text", "```plaintext", "```"} {
		if strings.HasPrefix(text, prefix) {
			text = strings.TrimPrefix(text, prefix)
			break
		}
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}
