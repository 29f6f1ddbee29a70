package export

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/beevik/etree"
)

func readDocumentXML(t *testing.T, data []byte) *etree.Document {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("export is not a valid zip: %v", err)
	}

	var docXML []byte
	names := make(map[string]bool)
	for _, file := range zr.File {
		names[file.Name] = true
		if file.Name == "word/document.xml" {
			rc, err := file.Open()
			if err != nil {
				t.Fatalf("failed to open document.xml: %v", err)
			}
			docXML, err = io.ReadAll(rc)
			_ = rc.Close()
			if err != nil {
				t.Fatalf("failed to read document.xml: %v", err)
			}
		}
	}

	for _, want := range []string{"[Content_Types].xml", "_rels/.rels", "word/document.xml"} {
		if !names[want] {
			t.Errorf("package missing part %q", want)
		}
	}
	if docXML == nil {
		t.Fatal("word/document.xml not found")
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(docXML); err != nil {
		t.Fatalf("document.xml is not valid XML: %v", err)
	}
	return doc
}

func TestWordDocument(t *testing.T) {
	conf := testConfiguration()
	result := computeTestResult(t, conf)

	data, err := Word(result, conf)
	if err != nil {
		t.Fatalf("Word() error = %v", err)
	}

	doc := readDocumentXML(t, data)

	tables := doc.FindElements("//w:tbl")
	if len(tables) != 4 {
		t.Fatalf("expected 4 tables, got %d", len(tables))
	}

	// Each table has a header row plus one row per line item; every row has
	// label + one cell per period.
	firstRows := tables[0].FindElements("w:tr")
	if len(firstRows) != 12 { // header + 11 income statement lines
		t.Errorf("income statement has %d rows, want 12", len(firstRows))
	}
	for i, tr := range firstRows {
		cells := tr.FindElements("w:tc")
		if len(cells) != conf.Periods+1 {
			t.Errorf("row %d has %d cells, want %d", i, len(cells), conf.Periods+1)
		}
	}

	var texts []string
	for _, el := range doc.FindElements("//w:t") {
		texts = append(texts, el.Text())
	}
	joined := strings.Join(texts, "\n")

	for _, want := range []string{
		"Financial Statements",
		conf.Company,
		conf.ReportingPeriod,
		"Income Statement",
		"Balance Sheet",
		"Cash Flow Statement",
		"PP&E Schedule",
		"$1,100.00", // period 1 revenue, currency formatted
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("document missing text %q", want)
		}
	}

	// Landscape section.
	pgSz := doc.FindElement("//w:sectPr/w:pgSz")
	if pgSz == nil {
		t.Fatal("missing page size element")
	}
	if orient := pgSz.SelectAttrValue("w:orient", ""); orient != "landscape" {
		t.Errorf("orientation = %q, want landscape", orient)
	}
}

func TestWordHonorsDecimals(t *testing.T) {
	conf := testConfiguration()
	conf.Presentation.Decimals = 0
	result := computeTestResult(t, conf)

	data, err := Word(result, conf)
	if err != nil {
		t.Fatalf("Word() error = %v", err)
	}

	doc := readDocumentXML(t, data)
	var texts []string
	for _, el := range doc.FindElements("//w:t") {
		texts = append(texts, el.Text())
	}
	joined := strings.Join(texts, "\n")

	// Cells follow the configured precision, not the currency's minor units.
	if !strings.Contains(joined, "$1,100") {
		t.Error("document missing zero-decimal revenue cell")
	}
	if strings.Contains(joined, ".00") {
		t.Error("document still renders two-decimal cells with decimals set to 0")
	}
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/statements.xlsx"

	if err := WriteFile(path, []byte("first")); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := WriteFile(path, []byte("second")); err != nil {
		t.Fatalf("WriteFile() overwrite error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back failed: %v", err)
	}
	if string(data) != "second" {
		t.Errorf("file content = %q, want second", data)
	}
}
