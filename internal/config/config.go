// Package config defines the data structures for a projection's assumptions
// and includes functions for loading and validating them.
package config

import (
	"fmt"
	"io"

	"github.com/spf13/viper"

	"github.com/finmodeler/statement-forge/pkg/constants"
)

// Configuration holds everything needed for one projection run.
type Configuration struct {
	Company         string             `yaml:"company,omitempty"`
	ReportingPeriod string             `yaml:"reportingPeriod,omitempty"`
	Periods         int                `yaml:"periods"`
	Assumptions     AssumptionSet      `yaml:"assumptions"`
	Presentation    PresentationConfig `yaml:"presentation,omitempty"`
	Logging         LoggingConfig      `yaml:"logging,omitempty"`
	Output          OutputConfig       `yaml:"output,omitempty"`
}

// AssumptionSet holds the input parameters driving the statement engine,
// including the opening balance sheet the first period rolls forward from.
type AssumptionSet struct {
	OpeningRevenue      float64         `yaml:"openingRevenue"`
	RevenueGrowthRate   float64         `yaml:"revenueGrowthRate"`
	GrossMargin         float64         `yaml:"grossMargin"`
	OpexPctRevenue      float64         `yaml:"opexPctRevenue"`
	TaxRate             float64         `yaml:"taxRate"`
	Capex               float64         `yaml:"capex"`
	DepreciationRate    float64         `yaml:"depreciationRate"`
	InterestRate        float64         `yaml:"interestRate"`
	DividendPayoutRatio float64         `yaml:"dividendPayoutRatio"`
	ReceivableDays      int             `yaml:"receivableDays"`
	PayableDays         int             `yaml:"payableDays"`
	InventoryDays       int             `yaml:"inventoryDays"`
	Opening             OpeningBalances `yaml:"opening"`
}

// OpeningBalances is the balance sheet in force before the first projected
// period.
type OpeningBalances struct {
	Cash             float64 `yaml:"cash"`
	Receivables      float64 `yaml:"receivables"`
	Payables         float64 `yaml:"payables"`
	Inventory        float64 `yaml:"inventory"`
	PPE              float64 `yaml:"ppe"`
	Debt             float64 `yaml:"debt"`
	ShareCapital     float64 `yaml:"shareCapital"`
	RetainedEarnings float64 `yaml:"retainedEarnings"`
}

// PresentationConfig controls how statements are rendered and exported; it
// never affects the computed numbers.
type PresentationConfig struct {
	CurrencyCode string `yaml:"currency,omitempty" mapstructure:"currency"`
	Decimals     int    `yaml:"decimals,omitempty" mapstructure:"decimals"`
	PeriodLabel  string `yaml:"periodLabel,omitempty" mapstructure:"periodLabel"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %w", err)
	}

	return unmarshalConfiguration(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from an
// arbitrary reader, e.g. an HTTP request body.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %w", err)
	}

	return unmarshalConfiguration(v)
}

func unmarshalConfiguration(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	configuration.applyDefaults()
	return &configuration, nil
}

func (c *Configuration) applyDefaults() {
	if c.Company == "" {
		c.Company = constants.DefaultCompanyName
	}
	c.Presentation.applyDefaults()
}
