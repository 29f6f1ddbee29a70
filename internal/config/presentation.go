package config

import (
	"fmt"

	"github.com/finmodeler/statement-forge/pkg/constants"
	"github.com/finmodeler/statement-forge/pkg/format"
)

func (p *PresentationConfig) applyDefaults() {
	if p.CurrencyCode == "" {
		p.CurrencyCode = constants.DefaultCurrencyCode
	}
	if p.Decimals <= 0 {
		// Follow the minor-unit convention of the currency (0 for JPY).
		p.Decimals = format.Decimals(p.CurrencyCode)
	}
	if p.PeriodLabel == "" {
		p.PeriodLabel = constants.DefaultPeriodLabel
	}
}

// PeriodHeader returns the column header for a 1-based period index,
// e.g. "Year 3".
func (p PresentationConfig) PeriodHeader(index int) string {
	label := p.PeriodLabel
	if label == "" {
		label = constants.DefaultPeriodLabel
	}
	return fmt.Sprintf("%s %d", label, index)
}
