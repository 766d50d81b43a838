package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
)

const (
	nsW       = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsRel     = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsCT      = "http://schemas.openxmlformats.org/package/2006/content-types"
	nsCore    = "http://schemas.openxmlformats.org/package/2006/metadata/core-properties"
	nsDC      = "http://purl.org/dc/elements/1.1/"
	nsDCTerms = "http://purl.org/dc/terms/"
	nsXSI     = "http://www.w3.org/2001/XMLSchema-instance"

	relOfficeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relStyles         = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	relCoreProps      = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
)

type xmlDocument struct {
	XMLName xml.Name `xml:"w:document"`
	XmlnsW  string   `xml:"xmlns:w,attr"`
	Body    xmlBody  `xml:"w:body"`
}

type xmlBody struct {
	Paragraphs []xmlParagraph `xml:"w:p"`
}

type xmlParagraph struct {
	PPr  *xmlPPr  `xml:"w:pPr,omitempty"`
	Runs []xmlRun `xml:"w:r"`
}

type xmlPPr struct {
	Style   *xmlVal     `xml:"w:pStyle,omitempty"`
	Spacing *xmlSpacing `xml:"w:spacing,omitempty"`
}

type xmlVal struct {
	Val string `xml:"w:val,attr"`
}

type xmlSpacing struct {
	After int `xml:"w:after,attr"`
}

type xmlRun struct {
	RPr   *xmlRPr   `xml:"w:rPr,omitempty"`
	Break *struct{} `xml:"w:br,omitempty"`
	Text  *xmlText  `xml:"w:t,omitempty"`
}

type xmlRPr struct {
	Bold   *struct{} `xml:"w:b,omitempty"`
	Size   *xmlVal   `xml:"w:sz,omitempty"`
	SizeCS *xmlVal   `xml:"w:szCs,omitempty"`
}

type xmlText struct {
	Space string `xml:"xml:space,attr,omitempty"`
	Value string `xml:",chardata"`
}

type xmlRelationships struct {
	XMLName       xml.Name          `xml:"Relationships"`
	Xmlns         string            `xml:"xmlns,attr"`
	Relationships []xmlRelationship `xml:"Relationship"`
}

type xmlRelationship struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}

type xmlContentTypes struct {
	XMLName   xml.Name      `xml:"Types"`
	Xmlns     string        `xml:"xmlns,attr"`
	Defaults  []xmlDefault  `xml:"Default"`
	Overrides []xmlOverride `xml:"Override"`
}

type xmlDefault struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type xmlOverride struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type xmlCoreProperties struct {
	XMLName    xml.Name     `xml:"cp:coreProperties"`
	XmlnsCP    string       `xml:"xmlns:cp,attr"`
	XmlnsDC    string       `xml:"xmlns:dc,attr"`
	XmlnsTerms string       `xml:"xmlns:dcterms,attr"`
	XmlnsXSI   string       `xml:"xmlns:xsi,attr"`
	Title      string       `xml:"dc:title,omitempty"`
	Creator    string       `xml:"dc:creator,omitempty"`
	Identifier string       `xml:"dc:identifier,omitempty"`
	Created    *xmlW3CDTime `xml:"dcterms:created,omitempty"`
}

type xmlW3CDTime struct {
	Type  string `xml:"xsi:type,attr"`
	Value string `xml:",chardata"`
}

const stylesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:styles xmlns:w="` + nsW + `">
<w:docDefaults><w:rPrDefault><w:rPr><w:sz w:val="22"/><w:szCs w:val="22"/></w:rPr></w:rPrDefault></w:docDefaults>
<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/><w:qFormat/></w:style>
<w:style w:type="paragraph" w:styleId="Title"><w:name w:val="Title"/><w:basedOn w:val="Normal"/><w:next w:val="Normal"/><w:qFormat/><w:rPr><w:sz w:val="56"/></w:rPr></w:style>
<w:style w:type="paragraph" w:styleId="Heading1"><w:name w:val="heading 1"/><w:basedOn w:val="Normal"/><w:next w:val="Normal"/><w:qFormat/><w:pPr><w:outlineLvl w:val="0"/></w:pPr><w:rPr><w:b/><w:sz w:val="32"/></w:rPr></w:style>
<w:style w:type="paragraph" w:styleId="Heading2"><w:name w:val="heading 2"/><w:basedOn w:val="Normal"/><w:next w:val="Normal"/><w:qFormat/><w:pPr><w:outlineLvl w:val="1"/></w:pPr><w:rPr><w:b/><w:sz w:val="26"/></w:rPr></w:style>
<w:style w:type="paragraph" w:styleId="Heading3"><w:name w:val="heading 3"/><w:basedOn w:val="Normal"/><w:next w:val="Normal"/><w:qFormat/><w:pPr><w:outlineLvl w:val="2"/></w:pPr><w:rPr><w:b/><w:sz w:val="24"/></w:rPr></w:style>
</w:styles>`

// Marshal encodes the document as a .docx package.
func Marshal(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write encodes the document as a .docx package into w.
// The content types part and the main document come first so that content
// sniffers recognise the archive as a Word document.
func Write(w io.Writer, doc Document) error {
	zw := zip.NewWriter(w)

	parts := []struct {
		name  string
		build func() ([]byte, error)
	}{
		{"[Content_Types].xml", contentTypesXML},
		{"word/document.xml", func() ([]byte, error) { return documentXML(doc) }},
		{"word/styles.xml", func() ([]byte, error) { return []byte(stylesXML), nil }},
		{"word/_rels/document.xml.rels", documentRelsXML},
		{"_rels/.rels", packageRelsXML},
		{"docProps/core.xml", func() ([]byte, error) { return corePropertiesXML(doc.Properties) }},
	}
	for _, part := range parts {
		data, err := part.build()
		if err != nil {
			return errors.Wrapf(err, "build %s", part.name)
		}
		f, err := zw.Create(part.name)
		if err != nil {
			return errors.Wrapf(err, "create %s", part.name)
		}
		if _, err := f.Write(data); err != nil {
			return errors.Wrapf(err, "write %s", part.name)
		}
	}
	if err := zw.Close(); err != nil {
		return errors.Wrap(err, "close archive")
	}
	return nil
}

func documentXML(doc Document) ([]byte, error) {
	out := xmlDocument{XmlnsW: nsW}
	out.Body.Paragraphs = make([]xmlParagraph, 0, len(doc.Paragraphs))
	for _, p := range doc.Paragraphs {
		out.Body.Paragraphs = append(out.Body.Paragraphs, toXMLParagraph(p))
	}
	return marshalPart(out)
}

func toXMLParagraph(p Paragraph) xmlParagraph {
	var xp xmlParagraph
	if p.Style != StyleNormal || p.SpacingAfter > 0 {
		xp.PPr = &xmlPPr{}
		if p.Style != StyleNormal {
			xp.PPr.Style = &xmlVal{Val: string(p.Style)}
		}
		if p.SpacingAfter > 0 {
			xp.PPr.Spacing = &xmlSpacing{After: p.SpacingAfter}
		}
	}
	for _, r := range p.Runs {
		var rpr *xmlRPr
		if r.Bold || r.Size > 0 {
			rpr = &xmlRPr{}
			if r.Bold {
				rpr.Bold = &struct{}{}
			}
			if r.Size > 0 {
				size := strconv.Itoa(r.Size)
				rpr.Size = &xmlVal{Val: size}
				rpr.SizeCS = &xmlVal{Val: size}
			}
		}
		// Line breaks inside a run become <w:br/> followed by the next line.
		for i, line := range strings.Split(r.Text, "\n") {
			xr := xmlRun{RPr: rpr, Text: &xmlText{Space: "preserve", Value: line}}
			if i > 0 {
				xr.Break = &struct{}{}
			}
			xp.Runs = append(xp.Runs, xr)
		}
	}
	return xp
}

func contentTypesXML() ([]byte, error) {
	return marshalPart(xmlContentTypes{
		Xmlns: nsCT,
		Defaults: []xmlDefault{
			{Extension: "rels", ContentType: "application/vnd.openxmlformats-package.relationships+xml"},
			{Extension: "xml", ContentType: "application/xml"},
		},
		Overrides: []xmlOverride{
			{PartName: "/word/document.xml", ContentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"},
			{PartName: "/word/styles.xml", ContentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"},
			{PartName: "/docProps/core.xml", ContentType: "application/vnd.openxmlformats-package.core-properties+xml"},
		},
	})
}

func packageRelsXML() ([]byte, error) {
	return marshalPart(xmlRelationships{
		Xmlns: nsRel,
		Relationships: []xmlRelationship{
			{ID: "rId1", Type: relOfficeDocument, Target: "word/document.xml"},
			{ID: "rId2", Type: relCoreProps, Target: "docProps/core.xml"},
		},
	})
}

func documentRelsXML() ([]byte, error) {
	return marshalPart(xmlRelationships{
		Xmlns: nsRel,
		Relationships: []xmlRelationship{
			{ID: "rId1", Type: relStyles, Target: "styles.xml"},
		},
	})
}

func corePropertiesXML(p Properties) ([]byte, error) {
	core := xmlCoreProperties{
		XmlnsCP:    nsCore,
		XmlnsDC:    nsDC,
		XmlnsTerms: nsDCTerms,
		XmlnsXSI:   nsXSI,
		Title:      p.Title,
		Creator:    p.Creator,
		Identifier: p.Identifier,
	}
	if !p.Created.IsZero() {
		core.Created = &xmlW3CDTime{
			Type:  "dcterms:W3CDTF",
			Value: p.Created.UTC().Format(time.RFC3339),
		}
	}
	return marshalPart(core)
}

func marshalPart(v any) ([]byte, error) {
	data, err := xml.Marshal(v)
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), data...), nil
}
