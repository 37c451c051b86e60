// Package htmlutil extracts readable text from HTML pages.
package htmlutil

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/happyhackingspace/dil/internal/textutil"
)

// LoadHTML parses HTML bytes into a goquery Document.
func LoadHTML(r io.Reader) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(r)
}

// LoadHTMLString parses HTML string into a goquery Document.
func LoadHTMLString(htmlStr string) (*goquery.Document, error) {
	return LoadHTML(strings.NewReader(htmlStr))
}

// skipped elements never hold prose.
var skipped = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
	"svg":      true,
	"head":     true,
}

// VisibleText returns the text content under root, skipping script-like
// elements. Block boundaries are joined with a single space.
func VisibleText(root *goquery.Selection) string {
	var parts []string
	var visit func(n *html.Node)
	visit = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if trimmed := strings.TrimSpace(n.Data); trimmed != "" {
				parts = append(parts, textutil.NormalizeWhitespaces(trimmed))
			}
			return
		case html.ElementNode:
			if skipped[n.Data] {
				return
			}
		case html.CommentNode:
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	for _, n := range root.Nodes {
		visit(n)
	}
	return strings.Join(parts, " ")
}

// LooksLikeHTML reports whether content appears to be an HTML document or
// fragment rather than plain text.
func LooksLikeHTML(content string) bool {
	head := strings.ToLower(strings.TrimSpace(content))
	if len(head) > 512 {
		head = head[:512]
	}
	for _, marker := range []string{"<!doctype html", "<html", "<body", "<p>", "<div", "<p "} {
		if strings.Contains(head, marker) {
			return true
		}
	}
	return false
}

// ExtractText returns the visible text of HTML content, or content itself
// when it is plain text.
func ExtractText(content string) (string, error) {
	if !LooksLikeHTML(content) {
		return content, nil
	}
	doc, err := LoadHTMLString(content)
	if err != nil {
		return "", err
	}
	return VisibleText(doc.Selection), nil
}
