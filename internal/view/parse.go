package view

import (
	"bytes"
	"fmt"
	"mime"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"golang.org/x/net/html"
)

const (
	ContentTypeHTML     = "text/html"
	ContentTypeMarkdown = "text/markdown"
	ContentTypePlain    = "text/plain"
)

// Source is a document as handed to the registry.
type Source struct {
	URL         string
	ContentType string
	Body        string
}

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.Table),
)

// MediaType normalises a Content-Type value, defaulting to text/html.
func MediaType(contentType string) (string, error) {
	if strings.TrimSpace(contentType) == "" {
		return ContentTypeHTML, nil
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", fmt.Errorf("invalid content type %q: %w", contentType, err)
	}
	switch mediaType {
	case ContentTypeHTML, "application/xhtml+xml":
		return ContentTypeHTML, nil
	case ContentTypeMarkdown, "text/x-markdown":
		return ContentTypeMarkdown, nil
	case ContentTypePlain:
		return ContentTypePlain, nil
	}
	return "", fmt.Errorf("unsupported content type %q", mediaType)
}

// Parse builds the document tree for src. Markdown is rendered to HTML
// first; plain text is placed in a <pre> block.
func Parse(src Source) (*html.Node, error) {
	mediaType, err := MediaType(src.ContentType)
	if err != nil {
		return nil, err
	}

	body := src.Body
	switch mediaType {
	case ContentTypeMarkdown:
		var buf bytes.Buffer
		if err := markdown.Convert([]byte(src.Body), &buf); err != nil {
			return nil, fmt.Errorf("failed to render markdown: %w", err)
		}
		body = "<!DOCTYPE html><html><head></head><body>" + buf.String() + "</body></html>"
	case ContentTypePlain:
		// The parser drops one newline right after <pre>, so a body that
		// starts with one keeps it.
		body = "<!DOCTYPE html><html><head></head><body><pre>\n" + html.EscapeString(src.Body) + "</pre></body></html>"
	}

	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}
	return doc, nil
}
