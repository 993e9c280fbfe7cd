package pipeline

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// droppedElements are removed with their content from rendered Markdown.
// Printing needs no scripts or embedded frames.
var droppedElements = map[atom.Atom]bool{
	atom.Script: true,
	atom.Iframe: true,
	atom.Object: true,
	atom.Embed:  true,
	atom.Frame:  true,
}

// cleanFragment post-processes goldmark's body fragment, which may carry raw
// HTML from the Markdown source. Scripts, frames and on* handlers are dropped.
// Relative img[src] and a[href] destinations are resolved against dir when dir
// is not empty, the same way linkResolver treats Markdown links.
func cleanFragment(fragment, dir string) (string, error) {
	body := &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return "", err
	}

	var buf strings.Builder
	for _, n := range nodes {
		if n.Type == html.ElementNode && droppedElements[n.DataAtom] {
			continue
		}
		cleanNode(n, dir)
		if err := html.Render(&buf, n); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

func cleanNode(n *html.Node, dir string) {
	if n.Type == html.ElementNode {
		attrs := n.Attr[:0]
		for _, a := range n.Attr {
			if strings.HasPrefix(strings.ToLower(a.Key), "on") {
				continue
			}
			if dir != "" && ((n.DataAtom == atom.Img && a.Key == "src") || (n.DataAtom == atom.A && a.Key == "href")) {
				a.Val = string(resolveDestination(dir, []byte(a.Val)))
			}
			attrs = append(attrs, a)
		}
		n.Attr = attrs
	}

	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.ElementNode && droppedElements[c.DataAtom] {
			n.RemoveChild(c)
		} else {
			cleanNode(c, dir)
		}
		c = next
	}
}
