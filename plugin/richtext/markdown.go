package richtext

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"
)

// flattenMarkdown extracts the plain text of a markdown fragment by walking
// the goldmark AST and collecting text segments, dropping all markup.
func flattenMarkdown(source string) string {
	if strings.TrimSpace(source) == "" {
		return ""
	}

	src := []byte(source)
	parser := goldmark.New().Parser()
	root := parser.Parse(gmtext.NewReader(src))

	var sb strings.Builder
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Text:
			sb.Write(node.Segment.Value(src))
			if node.SoftLineBreak() || node.HardLineBreak() {
				sb.WriteString(" ")
			}
		case *ast.AutoLink:
			sb.Write(node.URL(src))
		case *ast.Paragraph, *ast.Heading, *ast.ListItem:
			if sb.Len() > 0 {
				sb.WriteString(" ")
			}
		}
		return ast.WalkContinue, nil
	})

	return strings.Join(strings.Fields(sb.String()), " ")
}
