// Package frontmatter parses YAML frontmatter from markdown source files.
package frontmatter

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Delimiter separates frontmatter from the markdown body.
const Delimiter = "---"

// ErrNoFrontmatter indicates the file does not start with a frontmatter block.
var ErrNoFrontmatter = errors.New("no frontmatter block")

// Meta holds the fields a document's frontmatter can carry.
type Meta struct {
	Title       string    `yaml:"title"`
	Slug        string    `yaml:"slug"`
	Description string    `yaml:"description"`
	Published   bool      `yaml:"published"`
	Unlisted    bool      `yaml:"unlisted"`
	Date        time.Time `yaml:"date"`
}

// Parse splits a markdown file into its frontmatter metadata and body.
// The file must begin with a "---" line; the block ends at the next one.
func Parse(source string) (*Meta, string, error) {
	rest, found := strings.CutPrefix(source, Delimiter+"\n")
	if !found {
		// Tolerate CRLF line endings from files edited on Windows.
		rest, found = strings.CutPrefix(source, Delimiter+"\r\n")
		if !found {
			return nil, "", ErrNoFrontmatter
		}
	}

	block, body, found := cutClosingDelimiter(rest)
	if !found {
		return nil, "", fmt.Errorf("%w: unterminated block", ErrNoFrontmatter)
	}

	var meta Meta
	if err := yaml.Unmarshal([]byte(block), &meta); err != nil {
		return nil, "", fmt.Errorf("parse frontmatter: %w", err)
	}

	return &meta, strings.TrimLeft(body, "\r\n"), nil
}

// cutClosingDelimiter finds the closing "---" line and splits around it.
func cutClosingDelimiter(s string) (block, body string, found bool) {
	for _, sep := range []string{"\n" + Delimiter + "\n", "\n" + Delimiter + "\r\n"} {
		if block, body, found = strings.Cut(s, sep); found {
			return block, body, true
		}
	}

	// The closing delimiter may be the last line of the file.
	for _, suffix := range []string{"\n" + Delimiter, "\n" + Delimiter + "\r"} {
		if block, ok := strings.CutSuffix(s, suffix); ok {
			return block, "", true
		}
	}

	return "", "", false
}
