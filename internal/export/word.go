package export

import (
	"archive/zip"
	"bytes"
	"fmt"

	"github.com/beevik/etree"

	"github.com/finmodeler/statement-forge/internal/config"
	"github.com/finmodeler/statement-forge/internal/engine"
	"github.com/finmodeler/statement-forge/pkg/format"
	"github.com/finmodeler/statement-forge/pkg/output"
)

const wordprocessingNS = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/><Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/></Types>`

const relationshipsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/></Relationships>`

// Word renders the projection as a .docx document: a landscape title page
// followed by one bordered table per statement, in display order. The
// document is assembled fully in memory before any bytes are returned.
func Word(result *engine.ProjectionResult, conf *config.Configuration) ([]byte, error) {
	doc, err := buildDocumentXML(result, conf)
	if err != nil {
		return nil, &ExportError{Format: "word", Err: err}
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	parts := []struct {
		name    string
		content []byte
	}{
		{"[Content_Types].xml", []byte(contentTypesXML)},
		{"_rels/.rels", []byte(relationshipsXML)},
		{"word/document.xml", doc},
	}
	for _, part := range parts {
		w, err := zw.Create(part.name)
		if err != nil {
			_ = zw.Close()
			return nil, &ExportError{Format: "word", Err: err}
		}
		if _, err := w.Write(part.content); err != nil {
			_ = zw.Close()
			return nil, &ExportError{Format: "word", Err: err}
		}
	}
	if err := zw.Close(); err != nil {
		return nil, &ExportError{Format: "word", Err: err}
	}
	return buf.Bytes(), nil
}

func buildDocumentXML(result *engine.ProjectionResult, conf *config.Configuration) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)

	root := doc.CreateElement("w:document")
	root.CreateAttr("xmlns:w", wordprocessingNS)
	body := root.CreateElement("w:body")

	// Title block, centered as in the printed statements.
	addParagraph(body, "Financial Statements", 48, true, true)
	addParagraph(body, conf.Company, 36, false, true)
	addParagraph(body, conf.ReportingPeriod, 28, false, true)
	addPageBreak(body)

	tables := output.Tables(result)
	for i, table := range tables {
		addParagraph(body, table.Title, 32, true, false)
		addTable(body, table, result, conf)
		if i < len(tables)-1 {
			addPageBreak(body)
		}
	}

	// Landscape A4.
	sectPr := body.CreateElement("w:sectPr")
	pgSz := sectPr.CreateElement("w:pgSz")
	pgSz.CreateAttr("w:w", "16838")
	pgSz.CreateAttr("w:h", "11906")
	pgSz.CreateAttr("w:orient", "landscape")

	return documentBytes(doc)
}

func documentBytes(doc *etree.Document) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// addParagraph appends a single-run paragraph; size is in half-points.
func addParagraph(body *etree.Element, text string, size int, bold, center bool) {
	p := body.CreateElement("w:p")
	if center {
		pPr := p.CreateElement("w:pPr")
		jc := pPr.CreateElement("w:jc")
		jc.CreateAttr("w:val", "center")
	}
	r := p.CreateElement("w:r")
	rPr := r.CreateElement("w:rPr")
	if bold {
		rPr.CreateElement("w:b")
	}
	sz := rPr.CreateElement("w:sz")
	sz.CreateAttr("w:val", fmt.Sprintf("%d", size))
	t := r.CreateElement("w:t")
	t.CreateAttr("xml:space", "preserve")
	t.SetText(text)
}

func addPageBreak(body *etree.Element) {
	p := body.CreateElement("w:p")
	r := p.CreateElement("w:r")
	br := r.CreateElement("w:br")
	br.CreateAttr("w:type", "page")
}

func addTable(body *etree.Element, table output.Table, result *engine.ProjectionResult, conf *config.Configuration) {
	tbl := body.CreateElement("w:tbl")

	tblPr := tbl.CreateElement("w:tblPr")
	borders := tblPr.CreateElement("w:tblBorders")
	for _, side := range []string{"top", "left", "bottom", "right", "insideH", "insideV"} {
		b := borders.CreateElement("w:" + side)
		b.CreateAttr("w:val", "single")
		b.CreateAttr("w:sz", "4")
	}

	// Header row.
	headerCells := []string{"Line Item"}
	for _, period := range result.Periods {
		headerCells = append(headerCells, conf.Presentation.PeriodHeader(period.Index))
	}
	addTableRow(tbl, headerCells, true)

	code := conf.Presentation.CurrencyCode
	decimals := conf.Presentation.Decimals
	for _, row := range table.Rows {
		label := row.Label
		if row.Indent {
			label = "  " + label
		}
		cells := []string{label}
		if row.Header {
			for range result.Periods {
				cells = append(cells, "")
			}
		} else {
			for _, value := range row.Values {
				cells = append(cells, format.Currency(value, code, decimals))
			}
		}
		addTableRow(tbl, cells, row.Header)
	}

	// Trailing spacer keeps the next heading off the table.
	body.CreateElement("w:p")
}

func addTableRow(tbl *etree.Element, cells []string, bold bool) {
	tr := tbl.CreateElement("w:tr")
	for _, text := range cells {
		tc := tr.CreateElement("w:tc")
		p := tc.CreateElement("w:p")
		r := p.CreateElement("w:r")
		if bold {
			rPr := r.CreateElement("w:rPr")
			rPr.CreateElement("w:b")
		}
		t := r.CreateElement("w:t")
		t.CreateAttr("xml:space", "preserve")
		t.SetText(text)
	}
}
