// Package snippet produces bounded-length plain-text excerpts from raw
// markdown content. The same transform is applied regardless of which search
// mode found the document, so result presentation stays uniform.
package snippet

import (
	"regexp"
	"strings"
)

// Ellipsis is appended when the cleaned content exceeds the length limit.
const Ellipsis = "..."

// The passes run in order: fenced code blocks go first so their contents
// never leak into later passes, and images before links because image syntax
// embeds link syntax.
var (
	fencedCodeRe = regexp.MustCompile("(?s)```.*?```")
	imageRe      = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	linkRe       = regexp.MustCompile(`\[([^\]]*)\]\(([^)]*)\)`)
	inlineCodeRe = regexp.MustCompile("`([^`]*)`")
	headingRe    = regexp.MustCompile(`(?m)^#{1,6}[ \t]*`)
	boldRe       = regexp.MustCompile(`(?s)(\*\*|__)(.*?)(\*\*|__)`)
	italicRe     = regexp.MustCompile(`(?s)([*_])(.*?)([*_])`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// Extract strips markdown syntax from content and returns a plain-text
// excerpt of at most maxLength characters, with Ellipsis appended when the
// cleaned text was truncated. The limit counts runes, not bytes, so
// multi-byte content is never cut mid-character. Malformed markdown degrades
// gracefully to whatever text survives the passes; Extract never fails.
func Extract(content string, maxLength int) string {
	text := fencedCodeRe.ReplaceAllString(content, " ")
	text = imageRe.ReplaceAllString(text, " ")
	text = linkRe.ReplaceAllString(text, "$1")
	text = inlineCodeRe.ReplaceAllString(text, "$1")
	text = headingRe.ReplaceAllString(text, "")
	text = boldRe.ReplaceAllString(text, "$2")
	text = italicRe.ReplaceAllString(text, "$2")

	text = whitespaceRe.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)

	runes := []rune(text)
	if len(runes) <= maxLength {
		return text
	}
	return string(runes[:maxLength]) + Ellipsis
}
