package docx

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

type htmlOptions struct {
	keepEmpty bool
}

type HTMLOption func(*htmlOptions)

// KeepEmptyParagraphs renders blank paragraphs as empty <p> elements instead of dropping them.
func KeepEmptyParagraphs() HTMLOption {
	return func(o *htmlOptions) {
		o.keepEmpty = true
	}
}

var styleElements = map[Style]atom.Atom{
	StyleTitle:    atom.H1,
	StyleHeading1: atom.H1,
	StyleHeading2: atom.H2,
	StyleHeading3: atom.H3,
}

// ToHTML renders the document body as an HTML fragment. Headings map to
// h1-h3, every other paragraph to p, and bold runs to strong.
func ToHTML(doc Document, opts ...HTMLOption) (string, error) {
	o := &htmlOptions{}
	for _, opt := range opts {
		opt(o)
	}

	var buf bytes.Buffer
	for _, p := range doc.Paragraphs {
		if p.IsEmpty() && !o.keepEmpty {
			continue
		}
		if err := html.Render(&buf, paragraphNode(p)); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

func paragraphNode(p Paragraph) *html.Node {
	a, ok := styleElements[p.Style]
	if !ok {
		a = atom.P
	}
	node := element(a)
	for _, r := range p.Runs {
		parent := node
		if r.Bold {
			parent = element(atom.Strong)
			node.AppendChild(parent)
		}
		for i, line := range strings.Split(r.Text, "\n") {
			if i > 0 {
				parent.AppendChild(element(atom.Br))
			}
			if line != "" {
				parent.AppendChild(&html.Node{Type: html.TextNode, Data: line})
			}
		}
	}
	return node
}

func element(a atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
}
