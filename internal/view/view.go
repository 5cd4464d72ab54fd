// Package view builds HTML as a tree of nodes. Text and attribute values are
// escaped when the tree is rendered, never concatenated into markup.
package view

import (
	"bytes"
	"io"
	"net/url"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Node is an HTML node of the tree.
type Node = html.Node

// Part is something that can be applied to an element: an attribute or a child.
type Part interface {
	apply(n *html.Node)
}

type attrPart html.Attribute

func (a attrPart) apply(n *html.Node) {
	n.Attr = append(n.Attr, html.Attribute(a))
}

type nodePart struct {
	node *html.Node
}

func (p nodePart) apply(n *html.Node) {
	if p.node != nil {
		n.AppendChild(p.node)
	}
}

type group []Part

func (g group) apply(n *html.Node) {
	for _, p := range g {
		if p != nil {
			p.apply(n)
		}
	}
}

// El creates an element with the given attributes and children.
func El(tag string, parts ...Part) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	group(parts).apply(n)
	return n
}

// Text creates a text node.
func Text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// T adds a text child.
func T(s string) Part {
	return nodePart{Text(s)}
}

// N adds an existing node as a child. A nil node is skipped.
func N(n *html.Node) Part {
	return nodePart{n}
}

// Nodes adds several children.
func Nodes(nodes ...*html.Node) Part {
	g := make(group, 0, len(nodes))
	for _, n := range nodes {
		g = append(g, nodePart{n})
	}
	return g
}

// Parts groups several parts into one.
func Parts(parts ...Part) Part {
	return group(parts)
}

// If returns part when cond holds, nothing otherwise.
func If(cond bool, part Part) Part {
	if !cond {
		return nil
	}
	return part
}

// Attr sets an attribute.
func Attr(key, val string) Part {
	return attrPart{Key: key, Val: val}
}

// Class sets the class attribute.
func Class(classes ...string) Part {
	return Attr("class", strings.Join(classes, " "))
}

// Href sets the href attribute.
func Href(target string) Part {
	return Attr("href", target)
}

// Map builds one node per item.
func Map[T any](items []T, fn func(T) *html.Node) Part {
	g := make(group, 0, len(items))
	for _, item := range items {
		g = append(g, nodePart{fn(item)})
	}
	return g
}

// Div is shorthand for El("div", ...).
func Div(parts ...Part) *html.Node { return El("div", parts...) }

// Span is shorthand for El("span", ...).
func Span(parts ...Part) *html.Node { return El("span", parts...) }

// Li is shorthand for El("li", ...).
func Li(parts ...Part) *html.Node { return El("li", parts...) }

// Empty renders the inline placeholder used for missing or failed sections.
func Empty(message string) *html.Node {
	return Div(Class("empty"), T(message))
}

// Muted renders secondary text.
func Muted(s string) *html.Node {
	return Span(Class("muted"), T(s))
}

// ExternalLink renders a link opening in a new tab. A target that is not an
// http(s) URL or a relative reference is rendered as plain text.
func ExternalLink(target, label string) *html.Node {
	target, ok := SafeURL(target)
	if !ok {
		return Span(Class("unsafe-link"), T(label))
	}
	return El("a", Href(target), Attr("target", "_blank"), Attr("rel", "noreferrer"), T(label))
}

// SafeURL reports whether raw may be used as a link target, returning it
// trimmed. Only http, https and scheme-less references are allowed.
func SafeURL(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	switch strings.ToLower(u.Scheme) {
	case "", "http", "https":
		return raw, true
	default:
		return "", false
	}
}

// Render writes the tree rooted at n.
func Render(w io.Writer, n *html.Node) error {
	return html.Render(w, n)
}

// RenderString renders n to a string. Rendering into memory cannot fail for
// trees built by this package.
func RenderString(n *html.Node) string {
	var buf bytes.Buffer
	_ = html.Render(&buf, n)
	return buf.String()
}

// Truncate shortens s to at most n runes.
func Truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
