package output

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/finmodeler/statement-forge/internal/config"
	"github.com/finmodeler/statement-forge/internal/engine"
)

// PrettyFormat outputs a human-readable rendering of all statement tables.
func PrettyFormat(result *engine.ProjectionResult, pres config.PresentationConfig) {
	fmt.Print(PrettyString(result, pres))
}

// PrettyString renders all statement tables as aligned text.
func PrettyString(result *engine.ProjectionResult, pres config.PresentationConfig) string {
	p := message.NewPrinter(language.English)
	cellFormat := fmt.Sprintf(" | %%14.%df", pres.Decimals)
	var b strings.Builder

	labelWidth := 0
	for _, table := range Tables(result) {
		for _, row := range table.Rows {
			if w := len(row.Label) + indentWidth(row); w > labelWidth {
				labelWidth = w
			}
		}
	}

	for _, table := range Tables(result) {
		b.WriteString(fmt.Sprintf("--- %s ---\n", table.Title))
		header := fmt.Sprintf("%-*s", labelWidth, "")
		for _, period := range result.Periods {
			header += fmt.Sprintf(" | %14s", pres.PeriodHeader(period.Index))
		}
		b.WriteString(header + "\n")

		for _, row := range table.Rows {
			label := row.Label
			if row.Indent {
				label = "  " + label
			}
			line := fmt.Sprintf("%-*s", labelWidth, label)
			if !row.Header {
				for _, value := range row.Values {
					line += p.Sprintf(cellFormat, value)
				}
			}
			b.WriteString(line + "\n")
		}
		b.WriteString("\n")
	}

	return b.String()
}

// CsvFormat outputs all statement tables in comma-separated value format.
func CsvFormat(result *engine.ProjectionResult, pres config.PresentationConfig) {
	fmt.Print(CsvString(result, pres))
}

// CsvString renders all statement tables as CSV, one block per statement.
func CsvString(result *engine.ProjectionResult, pres config.PresentationConfig) string {
	var b strings.Builder

	for _, table := range Tables(result) {
		b.WriteString(fmt.Sprintf("%q", table.Title))
		for _, period := range result.Periods {
			b.WriteString(fmt.Sprintf(",%q", pres.PeriodHeader(period.Index)))
		}
		b.WriteString("\n")

		for _, row := range table.Rows {
			b.WriteString(fmt.Sprintf("%q", row.Label))
			if row.Header {
				b.WriteString(strings.Repeat(",", len(result.Periods)))
			} else {
				for _, value := range row.Values {
					b.WriteString(fmt.Sprintf(",%.*f", pres.Decimals, value))
				}
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	return b.String()
}

func indentWidth(row Row) int {
	if row.Indent {
		return 2
	}
	return 0
}
