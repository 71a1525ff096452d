// Package richtext defines the block-based document model used by the lesson
// editor and converts it to plain text for embedding.
package richtext

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
)

// Block type identifiers understood by the editor.
const (
	BlockParagraph  = "paragraph"
	BlockHeading    = "heading"
	BlockBulletItem = "bullet_item"
	BlockNumberItem = "number_item"
	BlockQuote      = "quote"
	BlockMarkdown   = "markdown"
	BlockImage      = "image"
	BlockDivider    = "divider"
)

// Run is an inline text run with optional formatting marks.
type Run struct {
	Text   string `json:"text"`
	Bold   bool   `json:"bold,omitempty"`
	Italic bool   `json:"italic,omitempty"`
	Code   bool   `json:"code,omitempty"`
}

// Block is one node of the document tree. Only the text runs (and the raw
// source of markdown blocks) contribute to the flattened output; other
// properties like image URLs are skipped.
type Block struct {
	Type     string   `json:"type"`
	Runs     []Run    `json:"runs,omitempty"`
	Source   string   `json:"source,omitempty"` // raw markdown for BlockMarkdown
	URL      string   `json:"url,omitempty"`    // for BlockImage
	Level    int      `json:"level,omitempty"`  // for BlockHeading
	Children []*Block `json:"children,omitempty"`
}

// Document is an ordered tree of typed blocks.
type Document struct {
	Blocks []*Block `json:"blocks"`
}

// Parse decodes a JSON-encoded document. An empty string decodes to an empty
// document rather than an error so callers can treat missing content as
// "nothing to flatten".
func Parse(raw string) (*Document, error) {
	if strings.TrimSpace(raw) == "" {
		return &Document{}, nil
	}
	doc := &Document{}
	if err := json.Unmarshal([]byte(raw), doc); err != nil {
		return nil, errors.Wrap(err, "failed to parse richtext document")
	}
	return doc, nil
}

// PlainText flattens the document to plain text by concatenating inline text
// runs in document order. Blocks are separated by newlines; non-text block
// properties are skipped.
func (d *Document) PlainText() string {
	if d == nil || len(d.Blocks) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, block := range d.Blocks {
		flattenBlock(&sb, block)
	}
	return strings.TrimSpace(sb.String())
}

func flattenBlock(sb *strings.Builder, block *Block) {
	if block == nil {
		return
	}

	var line strings.Builder
	switch block.Type {
	case BlockMarkdown:
		line.WriteString(flattenMarkdown(block.Source))
	default:
		for _, run := range block.Runs {
			line.WriteString(run.Text)
		}
	}

	if text := strings.TrimSpace(line.String()); text != "" {
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	for _, child := range block.Children {
		flattenBlock(sb, child)
	}
}

// Truncate truncates text to at most maxLen runes.
func Truncate(text string, maxLen int) string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	return string(runes[:maxLen])
}
