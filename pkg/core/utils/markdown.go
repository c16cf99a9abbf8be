package utils

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// CleanMarkdown trims whitespace and strips an outer ```markdown fence.
func CleanMarkdown(input string) string {
	cleaned := strings.TrimSpace(input)
	if !strings.HasPrefix(cleaned, "```") || !strings.HasSuffix(cleaned, "```") || len(cleaned) < 6 {
		return cleaned
	}
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimPrefix(cleaned, "```markdown")
	cleaned = strings.TrimPrefix(cleaned, "```")
	return strings.TrimSpace(cleaned)
}

// CountHeadings parses input with goldmark and counts headings per level.
func CountHeadings(input string) map[int]int {
	src := []byte(input)
	doc := goldmark.DefaultParser().Parse(text.NewReader(src))

	counts := make(map[int]int)
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if h, ok := n.(*ast.Heading); ok && entering {
			counts[h.Level]++
		}
		return ast.WalkContinue, nil
	})
	return counts
}
