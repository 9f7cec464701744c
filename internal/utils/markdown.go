package utils

import (
	"bytes"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	mdParser = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
		),
	)
	policy = bluemonday.UGCPolicy()
)

func init() {
	policy.AllowImages()
	policy.AddTargetBlankToFullyQualifiedLinks(true)
	policy.RequireNoReferrerOnLinks(true)
}

// RenderMarkdown converts user text to sanitised HTML.
func RenderMarkdown(source string) template.HTML {
	if source == "" {
		return ""
	}
	out := getMarkdownCache().GetOrCompute(source, func() string {
		var buf bytes.Buffer
		if err := mdParser.Convert([]byte(source), &buf); err != nil {
			// Fall back to escaped plain text.
			return template.HTMLEscapeString(source)
		}
		sanitized := policy.SanitizeBytes(buf.Bytes())
		return string(EnhanceHTMLContent(string(sanitized)))
	})
	return template.HTML(out)
}
