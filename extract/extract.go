// Package extract reduces an HTML document to normalized plain text.
//
// The reduction is deliberately literal: script and style contents are
// pruned, text nodes are concatenated depth-first with sibling results joined
// by a newline, and finally every run of two spaces and every CR, LF or CRLF
// is deleted. Newlines therefore vanish instead of becoming spaces.
package extract

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/hupe1980/taskrouter/core"
)

// ErrMissingBody is returned when the document has no body element.
var ErrMissingBody = core.ErrMissingBody

var collapse = regexp.MustCompile(` {2}|\r\n|\n|\r`)

// Text extracts normalized plain text from an HTML document.
func Text(doc string) (string, error) {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	body := findBody(root)
	// The parser synthesizes a body for documents that never had one; trailing
	// whitespace after </html> lands there as a text node.
	if body == nil || (isBlank(body) && !hasBodyTag(doc)) {
		return "", ErrMissingBody
	}

	prune(body)
	return Normalize(innerText(body)), nil
}

// Normalize applies the literal collapse rule: runs of two spaces and line
// breaks are removed.
func Normalize(s string) string { return collapse.ReplaceAllString(s, "") }

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Body {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}

// isBlank reports whether n holds nothing but whitespace text.
func isBlank(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			if strings.TrimSpace(c.Data) != "" {
				return false
			}
		case html.CommentNode:
		default:
			return false
		}
	}
	return true
}

// hasBodyTag reports whether the source contains an explicit <body> start tag.
func hasBodyTag(doc string) bool {
	z := html.NewTokenizer(strings.NewReader(doc))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return false
		case html.StartTagToken, html.SelfClosingTagToken:
			if name, _ := z.TagName(); string(name) == "body" {
				return true
			}
		}
	}
}

// prune removes every descendant of script and style elements. The child
// list is snapshotted before any removal.
func prune(n *html.Node) {
	children := childList(n)
	if isScriptOrStyle(n) {
		for _, c := range children {
			n.RemoveChild(c)
		}
		return
	}
	for _, c := range children {
		prune(c)
	}
}

func childList(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return out
}

func isScriptOrStyle(n *html.Node) bool {
	return n.Type == html.ElementNode && (n.DataAtom == atom.Script || n.DataAtom == atom.Style)
}

// innerText concatenates text depth-first, joining sibling results with a
// newline. Comments and other node kinds contribute an empty string.
func innerText(n *html.Node) string {
	children := childList(n)
	parts := make([]string, len(children))
	for i, c := range children {
		switch c.Type {
		case html.TextNode:
			parts[i] = c.Data
		case html.ElementNode:
			parts[i] = innerText(c)
		}
	}
	return strings.Join(parts, "\n")
}
