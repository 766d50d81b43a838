package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
)

var ErrNotDocx = errors.New("not a word document")

const maxPartSize = 32 << 20

// Parse decodes a .docx package held in memory.
func Parse(data []byte) (Document, error) {
	return Read(bytes.NewReader(data), int64(len(data)))
}

// Read decodes the paragraphs and core properties of a .docx package.
func Read(r io.ReaderAt, size int64) (Document, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return Document{}, errors.Wrap(ErrNotDocx, err.Error())
	}
	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
	}

	mainPart := "word/document.xml"
	if target, ok := officeDocumentTarget(files); ok {
		mainPart = target
	}
	main, ok := files[mainPart]
	if !ok {
		return Document{}, ErrNotDocx
	}

	var doc Document
	paragraphs, err := readParagraphs(main)
	if err != nil {
		return Document{}, errors.Wrapf(err, "read %s", mainPart)
	}
	doc.Paragraphs = paragraphs

	if core, ok := files["docProps/core.xml"]; ok {
		props, err := readProperties(core)
		if err != nil {
			return Document{}, errors.Wrap(err, "read core properties")
		}
		doc.Properties = props
	}
	return doc, nil
}

func openPart(f *zip.File) (io.ReadCloser, io.Reader, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, nil, err
	}
	return rc, io.LimitReader(rc, maxPartSize), nil
}

func officeDocumentTarget(files map[string]*zip.File) (string, bool) {
	f, ok := files["_rels/.rels"]
	if !ok {
		return "", false
	}
	rc, r, err := openPart(f)
	if err != nil {
		return "", false
	}
	defer rc.Close()

	var rels struct {
		Relationships []struct {
			Type   string `xml:"Type,attr"`
			Target string `xml:"Target,attr"`
		} `xml:"Relationship"`
	}
	if err := xml.NewDecoder(r).Decode(&rels); err != nil {
		return "", false
	}
	for _, rel := range rels.Relationships {
		if strings.HasSuffix(rel.Type, "/officeDocument") {
			return strings.TrimPrefix(path.Clean("/"+rel.Target), "/"), true
		}
	}
	return "", false
}

func readParagraphs(f *zip.File) ([]Paragraph, error) {
	rc, r, err := openPart(f)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var (
		paragraphs []Paragraph
		para       *Paragraph
		run        *Run
		inText     bool
		inRunProps bool
	)
	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				para = &Paragraph{}
			case "pStyle":
				if para != nil {
					para.Style = Style(attr(t, "val"))
				}
			case "spacing":
				if para != nil && run == nil {
					para.SpacingAfter, _ = strconv.Atoi(attr(t, "after"))
				}
			case "r":
				if para != nil {
					run = &Run{}
				}
			case "rPr":
				inRunProps = run != nil
			case "b":
				if inRunProps {
					run.Bold = isOn(t)
				}
			case "sz":
				if inRunProps {
					run.Size, _ = strconv.Atoi(attr(t, "val"))
				}
			case "t":
				inText = run != nil
			case "br", "cr":
				if run != nil {
					run.Text += "\n"
				}
			case "tab":
				if run != nil && !inRunProps {
					run.Text += "\t"
				}
			}
		case xml.CharData:
			if inText {
				run.Text += string(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "rPr":
				inRunProps = false
			case "r":
				if para != nil && run != nil {
					para.Runs = appendRun(para.Runs, *run)
				}
				run = nil
			case "p":
				if para != nil {
					paragraphs = append(paragraphs, *para)
				}
				para = nil
			}
		}
	}
	return paragraphs, nil
}

// appendRun merges a run into the previous one when the formatting matches.
func appendRun(runs []Run, r Run) []Run {
	if n := len(runs); n > 0 && runs[n-1].Bold == r.Bold && runs[n-1].Size == r.Size {
		runs[n-1].Text += r.Text
		return runs
	}
	return append(runs, r)
}

func attr(el xml.StartElement, local string) string {
	for _, a := range el.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

func isOn(el xml.StartElement) bool {
	switch attr(el, "val") {
	case "0", "false", "off":
		return false
	default:
		return true
	}
}

func readProperties(f *zip.File) (Properties, error) {
	rc, r, err := openPart(f)
	if err != nil {
		return Properties{}, err
	}
	defer rc.Close()

	var core struct {
		Title      string `xml:"title"`
		Creator    string `xml:"creator"`
		Identifier string `xml:"identifier"`
		Created    string `xml:"created"`
	}
	if err := xml.NewDecoder(r).Decode(&core); err != nil {
		return Properties{}, err
	}
	props := Properties{
		Title:      core.Title,
		Creator:    core.Creator,
		Identifier: core.Identifier,
	}
	if created, err := time.Parse(time.RFC3339, strings.TrimSpace(core.Created)); err == nil {
		props.Created = created
	}
	return props, nil
}
