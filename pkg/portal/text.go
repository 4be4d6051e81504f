package portal

import (
	"strings"

	"golang.org/x/net/html"
)

// maxLocatorMarkup bounds how much page markup is sent to the model when
// locating an element.
const maxLocatorMarkup = 20000

// PageText converts page HTML to plain text: scripts, styles and hidden
// machinery are dropped, block elements become line breaks, and runs of
// blank lines are collapsed.
func PageText(rawHTML string) string {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return ""
	}

	var builder strings.Builder
	collectText(doc, &builder)
	return NormalizeText(builder.String())
}

func collectText(n *html.Node, builder *strings.Builder) {
	if n.Type == html.CommentNode {
		return
	}
	if n.Type == html.ElementNode && isNoiseElement(n.Data) {
		return
	}
	if n.Type == html.TextNode {
		text := strings.TrimSpace(n.Data)
		if text != "" {
			builder.WriteString(text)
			builder.WriteByte(' ')
		}
		return
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, builder)
	}

	if n.Type == html.ElementNode && isBlockElement(n.Data) {
		builder.WriteByte('\n')
	}
}

// CompactHTML reduces page markup for LLM consumption: noise elements are
// removed and only interactable tags keep their identifying attributes.
// The result is truncated to maxLen bytes.
func CompactHTML(rawHTML string, maxLen int) string {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return truncate(rawHTML, maxLen)
	}

	var builder strings.Builder
	compactNode(doc, &builder)
	return truncate(builder.String(), maxLen)
}

func compactNode(n *html.Node, builder *strings.Builder) {
	switch n.Type {
	case html.CommentNode:
		return
	case html.ElementNode:
		if isNoiseElement(n.Data) {
			return
		}
		if isInteractable(n.Data) {
			builder.WriteByte('<')
			builder.WriteString(n.Data)
			for _, attr := range n.Attr {
				if isIdentifyingAttr(attr.Key) {
					builder.WriteString(` ` + attr.Key + `="` + attr.Val + `"`)
				}
			}
			builder.WriteByte('>')
		}
	case html.TextNode:
		text := strings.TrimSpace(n.Data)
		if text != "" {
			builder.WriteString(text)
			builder.WriteByte(' ')
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		compactNode(c, builder)
	}

	if n.Type == html.ElementNode {
		if isInteractable(n.Data) {
			builder.WriteString("</" + n.Data + ">")
		}
		if isBlockElement(n.Data) {
			builder.WriteByte('\n')
		}
	}
}

// NormalizeText trims trailing spaces per line and collapses runs of
// blank lines into a single one.
func NormalizeText(text string) string {
	lines := strings.Split(text, "\n")
	var out []string
	blank := false
	for _, line := range lines {
		line = strings.TrimRight(strings.TrimLeft(line, " \t"), " \t")
		if line == "" {
			blank = true
			continue
		}
		if blank && len(out) > 0 {
			out = append(out, "")
		}
		blank = false
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

func truncate(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}

func isNoiseElement(tag string) bool {
	switch strings.ToLower(tag) {
	case "script", "style", "noscript", "head", "iframe", "svg", "meta", "link":
		return true
	}
	return false
}

func isBlockElement(tag string) bool {
	switch strings.ToLower(tag) {
	case "p", "div", "tr", "li", "br", "table", "h1", "h2", "h3", "h4", "h5", "h6", "form", "section":
		return true
	}
	return false
}

func isInteractable(tag string) bool {
	switch strings.ToLower(tag) {
	case "a", "button", "input", "select", "option", "textarea", "form", "label":
		return true
	}
	return false
}

func isIdentifyingAttr(key string) bool {
	switch strings.ToLower(key) {
	case "id", "name", "href", "value", "type", "title", "onclick", "class":
		return true
	}
	return false
}
