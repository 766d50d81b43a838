// Package docx writes and reads the small subset of WordprocessingML used for
// generated plan documents: styled paragraphs made of plain or bold runs.
package docx

import (
	"strings"
	"time"
)

type Style string

const (
	StyleNormal   Style = ""
	StyleTitle    Style = "Title"
	StyleHeading1 Style = "Heading1"
	StyleHeading2 Style = "Heading2"
	StyleHeading3 Style = "Heading3"
)

const MimeType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// Run is a span of text sharing formatting. Size is in half-points (24 = 12pt).
type Run struct {
	Text string
	Bold bool
	Size int
}

type Paragraph struct {
	Style Style
	// SpacingAfter is in twentieths of a point.
	SpacingAfter int
	Runs         []Run
}

func (p Paragraph) Text() string {
	var b strings.Builder
	for _, r := range p.Runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

// IsEmpty reports whether the paragraph carries no visible text.
func (p Paragraph) IsEmpty() bool {
	return strings.TrimSpace(p.Text()) == ""
}

type Properties struct {
	Title      string
	Creator    string
	Identifier string
	Created    time.Time
}

type Document struct {
	Properties Properties
	Paragraphs []Paragraph
}

func (d *Document) Add(paragraphs ...Paragraph) {
	d.Paragraphs = append(d.Paragraphs, paragraphs...)
}

// Text returns the plain text of the document, one line per paragraph.
func (d Document) Text() string {
	lines := make([]string, 0, len(d.Paragraphs))
	for _, p := range d.Paragraphs {
		lines = append(lines, p.Text())
	}
	return strings.Join(lines, "\n")
}

// NewParagraph builds a single run paragraph.
func NewParagraph(text string, bold bool, size int) Paragraph {
	return Paragraph{Runs: []Run{{Text: text, Bold: bold, Size: size}}}
}

// Empty is a blank spacer paragraph.
func Empty() Paragraph {
	return Paragraph{}
}
