package export

import (
	"bytes"
	"strconv"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/finmodeler/statement-forge/internal/config"
	"github.com/finmodeler/statement-forge/internal/engine"
	"github.com/finmodeler/statement-forge/pkg/mathutil"
)

func testConfiguration() *config.Configuration {
	return &config.Configuration{
		Company:         "Acme Manufacturing",
		ReportingPeriod: "For the Years Ended Dec 31, 2030",
		Periods:         3,
		Presentation:    config.PresentationConfig{CurrencyCode: "USD", Decimals: 2, PeriodLabel: "Year"},
		Assumptions: config.AssumptionSet{
			OpeningRevenue:    1000,
			RevenueGrowthRate: 0.10,
			GrossMargin:       0.40,
			OpexPctRevenue:    0.20,
			TaxRate:           0.25,
			Capex:             50,
			DepreciationRate:  0.10,
			InterestRate:      0.05,
			ReceivableDays:    30,
			PayableDays:       30,
			InventoryDays:     30,
			Opening: config.OpeningBalances{
				Cash:         100,
				PPE:          500,
				Debt:         200,
				ShareCapital: 400,
			},
		},
	}
}

func computeTestResult(t *testing.T, conf *config.Configuration) *engine.ProjectionResult {
	t.Helper()
	result, err := engine.Compute(nil, conf.Assumptions, conf.Periods)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	return result
}

func TestExcelWorkbook(t *testing.T) {
	conf := testConfiguration()
	result := computeTestResult(t, conf)

	data, err := Excel(result, conf)
	if err != nil {
		t.Fatalf("Excel() error = %v", err)
	}
	if len(data) == 0 {
		t.Fatal("Excel() returned no bytes")
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to reopen workbook: %v", err)
	}
	defer func() {
		_ = f.Close()
	}()

	wantSheets := []string{"Income Statement", "Balance Sheet", "Cash Flow Statement", "PP&E Schedule"}
	sheets := f.GetSheetList()
	if len(sheets) != len(wantSheets) {
		t.Fatalf("sheet list = %v, want %v", sheets, wantSheets)
	}
	for i, want := range wantSheets {
		if sheets[i] != want {
			t.Errorf("sheet %d = %q, want %q", i, sheets[i], want)
		}
	}

	company, err := f.GetCellValue("Income Statement", "A1")
	if err != nil {
		t.Fatalf("GetCellValue(A1) error = %v", err)
	}
	if company != conf.Company {
		t.Errorf("A1 = %q, want %q", company, conf.Company)
	}

	header, err := f.GetCellValue("Income Statement", "B4")
	if err != nil {
		t.Fatalf("GetCellValue(B4) error = %v", err)
	}
	if header != "Year 1" {
		t.Errorf("B4 = %q, want Year 1", header)
	}

	label, err := f.GetCellValue("Income Statement", "A5")
	if err != nil {
		t.Fatalf("GetCellValue(A5) error = %v", err)
	}
	if label != "Revenue" {
		t.Errorf("A5 = %q, want Revenue", label)
	}

	raw, err := f.GetCellValue("Income Statement", "B5", excelize.Options{RawCellValue: true})
	if err != nil {
		t.Fatalf("GetCellValue(B5) error = %v", err)
	}
	revenue, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		t.Fatalf("B5 is not numeric: %q", raw)
	}
	if !mathutil.WithinTolerance(revenue, 1100, 1e-6) {
		t.Errorf("B5 = %v, want 1100", revenue)
	}
}

func TestExcelScheduleSheet(t *testing.T) {
	conf := testConfiguration()
	result := computeTestResult(t, conf)

	data, err := Excel(result, conf)
	if err != nil {
		t.Fatalf("Excel() error = %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to reopen workbook: %v", err)
	}
	defer func() {
		_ = f.Close()
	}()

	label, err := f.GetCellValue("PP&E Schedule", "A5")
	if err != nil {
		t.Fatalf("GetCellValue error = %v", err)
	}
	if label != "Opening PP&E" {
		t.Errorf("A5 = %q, want Opening PP&E", label)
	}

	raw, err := f.GetCellValue("PP&E Schedule", "B5", excelize.Options{RawCellValue: true})
	if err != nil {
		t.Fatalf("GetCellValue error = %v", err)
	}
	opening, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		t.Fatalf("B5 is not numeric: %q", raw)
	}
	if !mathutil.WithinTolerance(opening, 500, 1e-6) {
		t.Errorf("period 1 opening PP&E = %v, want 500", opening)
	}
}
