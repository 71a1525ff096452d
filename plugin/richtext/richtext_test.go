package richtext

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEmpty(t *testing.T) {
	for _, raw := range []string{"", "   ", "\n"} {
		doc, err := Parse(raw)
		require.NoError(t, err)
		assert.Empty(t, doc.Blocks)
		assert.Equal(t, "", doc.PlainText())
	}
}

func TestParseInvalidJSON(t *testing.T) {
	_, err := Parse("{not json")
	assert.Error(t, err)
}

func TestPlainTextFlattensRunsInOrder(t *testing.T) {
	doc, err := Parse(`{
		"blocks": [
			{"type": "heading", "level": 1, "runs": [{"text": "Fractions"}]},
			{"type": "paragraph", "runs": [{"text": "Compare ", "bold": true}, {"text": "unlike denominators."}]},
			{"type": "bullet_item", "runs": [{"text": "Use fraction strips"}]}
		]
	}`)
	require.NoError(t, err)

	assert.Equal(t, "Fractions\nCompare unlike denominators.\nUse fraction strips", doc.PlainText())
}

func TestPlainTextSkipsNonTextProperties(t *testing.T) {
	doc, err := Parse(`{
		"blocks": [
			{"type": "image", "url": "https://example.com/chart.png"},
			{"type": "divider"},
			{"type": "paragraph", "runs": [{"text": "After the image."}]}
		]
	}`)
	require.NoError(t, err)

	text := doc.PlainText()
	assert.Equal(t, "After the image.", text)
	assert.False(t, strings.Contains(text, "example.com"))
}

func TestPlainTextNestedChildren(t *testing.T) {
	doc, err := Parse(`{
		"blocks": [
			{"type": "bullet_item", "runs": [{"text": "Parent"}], "children": [
				{"type": "bullet_item", "runs": [{"text": "Child"}]}
			]}
		]
	}`)
	require.NoError(t, err)

	assert.Equal(t, "Parent\nChild", doc.PlainText())
}

func TestPlainTextMarkdownBlock(t *testing.T) {
	doc, err := Parse(`{
		"blocks": [
			{"type": "markdown", "source": "# Objectives\n\nStudents will *compare* fractions."}
		]
	}`)
	require.NoError(t, err)

	text := doc.PlainText()
	assert.True(t, strings.Contains(text, "Objectives"))
	assert.True(t, strings.Contains(text, "compare"))
	assert.False(t, strings.Contains(text, "#"))
	assert.False(t, strings.Contains(text, "*"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 5))
	assert.Equal(t, "ab", Truncate("abc", 2))

	// Rune-safe: multibyte characters are never split.
	truncated := Truncate(strings.Repeat("课", 10), 4)
	assert.Equal(t, strings.Repeat("课", 4), truncated)
}
