// Package constants provides shared constants for the statement-forge application.
package constants

// Financial constants
const (
	// DaysPerYear is the day-count basis for working capital conversions
	DaysPerYear = 365.0

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// BalanceTolerance is the absolute tolerance for statement tie-outs
	BalanceTolerance = 1e-6

	// BalanceRelativeTolerance scales the tolerance for large statement values
	BalanceRelativeTolerance = 1e-6

	// MaxStatementMagnitude is the sanity bound on any computed line item;
	// exceeding it indicates runaway compounding from bad growth inputs
	MaxStatementMagnitude = 1e15

	// MaxPeriods caps the projection horizon
	MaxPeriods = 120

	// TypicalMaxPeriods is the horizon beyond which a warning is raised
	// (5 years of monthly periods)
	TypicalMaxPeriods = 60

	// CurrencyGapWarning is the opening balance sheet gap (1 cent) above
	// which a warning is raised
	CurrencyGapWarning = 0.01
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default assumptions file name
	DefaultConfigFile = "assumptions.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Presentation defaults
const (
	// DefaultCompanyName is used when the assumptions file omits a company name
	DefaultCompanyName = "Example Company"

	// DefaultCurrencyCode is the ISO 4217 code used when none is configured
	DefaultCurrencyCode = "USD"

	// DefaultDecimals is the number of decimal places in exported cells
	DefaultDecimals = 2

	// DefaultPeriodLabel prefixes period column headers (e.g. "Year 1")
	DefaultPeriodLabel = "Year"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the web UI
	DefaultServerAddress = ":8080"

	// DefaultMaxBodyBytes is the default maximum request body size (256 KB)
	DefaultMaxBodyBytes int64 = 256 * 1024

	// DefaultTokenTTL is the default session token lifetime
	DefaultTokenTTL = "24h"
)
