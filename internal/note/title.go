// Package note extracts display titles from markdown notes.
package note

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v2"
)

var frontmatterPattern = regexp.MustCompile(`(?s)^---\s*\n(.*?)\n---`)

// DisplayTitle returns the human title for a markdown file: the
// frontmatter title when present, otherwise the first heading,
// otherwise the file name without its extension.
func DisplayTitle(fileName string, source []byte) string {
	if title := frontmatterTitle(source); title != "" {
		return title
	}
	if title := firstHeading(source); title != "" {
		return title
	}
	return strings.TrimSuffix(fileName, filepath.Ext(fileName))
}

func frontmatterTitle(source []byte) string {
	m := frontmatterPattern.FindSubmatch(source)
	if m == nil {
		return ""
	}

	var data struct {
		Title string `yaml:"title"`
	}
	if err := yaml.Unmarshal(m[1], &data); err != nil {
		return ""
	}
	return strings.TrimSpace(data.Title)
}

func firstHeading(source []byte) string {
	document := goldmark.DefaultParser().Parse(text.NewReader(source))

	var title string
	ast.Walk(document, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if h, ok := n.(*ast.Heading); ok {
			title = strings.TrimSpace(string(h.Text(source)))
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	return title
}
