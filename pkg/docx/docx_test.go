package docx_test

import (
	"archive/zip"
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gabriel-vasile/mimetype"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/ipr/pkg/docx"
)

func sampleDocument() docx.Document {
	doc := docx.Document{
		Properties: docx.Properties{
			Title:      "Plan",
			Creator:    "ipr",
			Identifier: "4b7f0b0e-4d62-4d1e-9a55-1d7b1b8f3c1a",
			Created:    time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		},
	}
	doc.Add(
		docx.Paragraph{
			Style:        docx.StyleTitle,
			SpacingAfter: 300,
			Runs:         []docx.Run{{Text: "Individual development plan", Bold: true, Size: 36}},
		},
		docx.Paragraph{Runs: []docx.Run{
			{Text: "Employee: ", Bold: true, Size: 24},
			{Text: "Ann <Lee> & co", Size: 24},
		}},
		docx.Empty(),
		docx.Paragraph{Style: docx.StyleHeading2, SpacingAfter: 100, Runs: []docx.Run{{Text: "General"}}},
		docx.NewParagraph("  indented line", false, 24),
		docx.NewParagraph("first\nsecond", false, 0),
	)
	return doc
}

func TestMarshal_RoundTrip(t *testing.T) {
	t.Parallel()

	doc := sampleDocument()
	data, err := docx.Marshal(doc)
	require.NoError(t, err)

	got, err := docx.Parse(data)
	require.NoError(t, err)
	require.Equal(t, doc.Properties.Title, got.Properties.Title)
	require.Equal(t, doc.Properties.Identifier, got.Properties.Identifier)
	require.True(t, doc.Properties.Created.Equal(got.Properties.Created))

	require.Len(t, got.Paragraphs, len(doc.Paragraphs))
	for i := range doc.Paragraphs {
		require.Equal(t, doc.Paragraphs[i].Style, got.Paragraphs[i].Style, "paragraph %d", i)
		require.Equal(t, doc.Paragraphs[i].SpacingAfter, got.Paragraphs[i].SpacingAfter, "paragraph %d", i)
		require.Equal(t, doc.Paragraphs[i].Text(), got.Paragraphs[i].Text(), "paragraph %d", i)
	}
	require.Equal(t, []docx.Run{
		{Text: "Employee: ", Bold: true, Size: 24},
		{Text: "Ann <Lee> & co", Size: 24},
	}, got.Paragraphs[1].Runs)
	require.True(t, got.Paragraphs[2].IsEmpty())
}

func TestMarshal_IsDetectedAsDocx(t *testing.T) {
	t.Parallel()

	data, err := docx.Marshal(sampleDocument())
	require.NoError(t, err)
	require.True(t, mimetype.Detect(data).Is(docx.MimeType), mimetype.Detect(data).String())
}

func TestMarshal_PartOrder(t *testing.T) {
	t.Parallel()

	data, err := docx.Marshal(sampleDocument())
	require.NoError(t, err)
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	require.Equal(t, []string{
		"[Content_Types].xml",
		"word/document.xml",
		"word/styles.xml",
		"word/_rels/document.xml.rels",
		"_rels/.rels",
		"docProps/core.xml",
	}, names)
}

func TestParse_RejectsNonDocx(t *testing.T) {
	t.Parallel()

	_, err := docx.Parse([]byte("plain text"))
	require.ErrorIs(t, err, docx.ErrNotDocx)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("readme.txt")
	require.NoError(t, err)
	_, err = f.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = docx.Parse(buf.Bytes())
	require.ErrorIs(t, err, docx.ErrNotDocx)
}

func TestToHTML(t *testing.T) {
	t.Parallel()

	out, err := docx.ToHTML(sampleDocument())
	require.NoError(t, err)

	dom, err := goquery.NewDocumentFromReader(strings.NewReader(out))
	require.NoError(t, err)

	require.Equal(t, "Individual development plan", dom.Find("h1 strong").Text())
	require.Equal(t, "General", dom.Find("h2").Text())
	require.Equal(t, "Employee: ", dom.Find("p strong").First().Text())
	require.Contains(t, dom.Find("p").First().Text(), "Ann <Lee> & co")
	require.Equal(t, 1, dom.Find("p br").Length())
	require.Equal(t, 3, dom.Find("p").Length(), "empty paragraphs are dropped")
	require.Contains(t, out, "&lt;Lee&gt;")
}

func TestToHTML_KeepEmptyParagraphs(t *testing.T) {
	t.Parallel()

	out, err := docx.ToHTML(sampleDocument(), docx.KeepEmptyParagraphs())
	require.NoError(t, err)

	dom, err := goquery.NewDocumentFromReader(strings.NewReader(out))
	require.NoError(t, err)
	require.Equal(t, 4, dom.Find("p").Length())
}

type failingWriter struct{ after int }

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.after <= 0 {
		return 0, errors.New("disk full")
	}
	w.after--
	return len(p), nil
}

func TestWrite_ReportsOnlyRealFailures(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, docx.Write(&buf, sampleDocument()))
	require.NotZero(t, buf.Len())

	err := docx.Write(&failingWriter{}, sampleDocument())
	require.Error(t, err)
	require.Contains(t, err.Error(), "disk full")
}
