package export

import (
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/finmodeler/statement-forge/internal/config"
	"github.com/finmodeler/statement-forge/internal/engine"
	"github.com/finmodeler/statement-forge/pkg/output"
)

// Sheet layout: rows 1-2 carry the company and reporting period, row 4 is the
// column header, data starts at row 5.
const (
	excelHeaderRow = 4
	excelDataRow   = 5
)

// Excel renders the projection as a workbook with one sheet per statement
// plus the PP&E schedule. The workbook is fully built in memory; callers
// receive the bytes only after every sheet succeeded.
func Excel(result *engine.ProjectionResult, conf *config.Configuration) ([]byte, error) {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, &ExportError{Format: "excel", Err: err}
	}

	numFmt := numberFormat(conf.Presentation.Decimals)
	currencyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	if err != nil {
		return nil, &ExportError{Format: "excel", Err: err}
	}

	tables := output.Tables(result)
	for i, table := range tables {
		sheet := sheetName(table.Title)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return nil, &ExportError{Format: "excel", Err: err}
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return nil, &ExportError{Format: "excel", Err: err}
		}

		if err := writeSheet(f, sheet, table, result, conf, headerStyle, currencyStyle); err != nil {
			return nil, &ExportError{Format: "excel", Err: err}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, &ExportError{Format: "excel", Err: err}
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet string, table output.Table, result *engine.ProjectionResult, conf *config.Configuration, headerStyle, currencyStyle int) error {
	if err := f.SetCellValue(sheet, "A1", conf.Company); err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, "A2", conf.ReportingPeriod); err != nil {
		return err
	}

	if err := f.SetCellValue(sheet, cell(1, excelHeaderRow), "Line Item"); err != nil {
		return err
	}
	for i, period := range result.Periods {
		if err := f.SetCellValue(sheet, cell(i+2, excelHeaderRow), conf.Presentation.PeriodHeader(period.Index)); err != nil {
			return err
		}
	}

	for r, row := range table.Rows {
		rowIndex := excelDataRow + r
		label := row.Label
		if row.Indent {
			label = "  " + label
		}
		if err := f.SetCellValue(sheet, cell(1, rowIndex), label); err != nil {
			return err
		}
		if row.Header {
			continue
		}
		for c, value := range row.Values {
			if err := f.SetCellValue(sheet, cell(c+2, rowIndex), value); err != nil {
				return err
			}
		}
	}

	lastCol := len(result.Periods) + 1
	lastRow := excelDataRow + len(table.Rows) - 1

	if err := f.SetCellStyle(sheet, "A1", cell(lastCol, excelHeaderRow), headerStyle); err != nil {
		return err
	}
	if len(result.Periods) > 0 {
		if err := f.SetCellStyle(sheet, cell(2, excelDataRow), cell(lastCol, lastRow), currencyStyle); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(sheet, "A", "A", 32); err != nil {
		return err
	}
	endCol, err := excelize.ColumnNumberToName(lastCol)
	if err != nil {
		return err
	}
	return f.SetColWidth(sheet, "B", endCol, 16)
}

// sheetName truncates a table title to Excel's 31-character sheet name limit.
func sheetName(title string) string {
	if len(title) > 31 {
		return title[:31]
	}
	return title
}

func numberFormat(decimals int) string {
	if decimals <= 0 {
		return "#,##0"
	}
	return "#,##0." + strings.Repeat("0", decimals)
}

func cell(col, row int) string {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return ""
	}
	return name
}
