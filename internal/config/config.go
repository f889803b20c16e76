// Package config defines the data structures related to portfolio
// configuration and includes functions for loading and parsing the config.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Configuration holds all configuration for loan-ledger: the loan portfolio
// plus logging, output, and projection settings.
type Configuration struct {
	Loans      []LoanConfig
	Logging    LoggingConfig    `yaml:"logging,omitempty"`
	Output     OutputConfig     `yaml:"output,omitempty"`
	Projection ProjectionConfig `yaml:"projection,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format   string `yaml:"format,omitempty"`   // pretty, csv
	Grouping string `yaml:"grouping,omitempty"` // monthly, yearly
}

// ProjectionConfig selects the what-if simulation variant.
type ProjectionConfig struct {
	Mode         string `yaml:"mode,omitempty"` // periods, events
	FixedPayment bool   `yaml:"fixedPayment,omitempty"`
}

// LoanConfig describes one loan and its full event history.
type LoanConfig struct {
	Name            string
	Type            string
	Principal       float64
	APR             float64
	TermMonths      int
	Frequency       string
	OriginationDate string
	NextPaymentDate string
	GraceDays       int
	EscrowMonthly   float64
	Payments        []PaymentConfig
	Draws           []DrawConfig
	ExtraPayments   []ExtraPaymentConfig
}

// PaymentConfig describes one posted payment.
type PaymentConfig struct {
	Date          string
	Amount        float64
	PrincipalOnly bool
}

// DrawConfig describes one balance-increasing draw.
type DrawConfig struct {
	Date   string
	Amount float64
}

// ExtraPaymentConfig describes a what-if extra-principal rule: a one-time
// extra when Every is empty or "once", otherwise a recurrence of day, week,
// month, or year.
type ExtraPaymentConfig struct {
	Amount float64
	Every  string
	Start  string
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	viper.SetConfigFile(configPath)
	viper.AutomaticEnv()

	viper.SetConfigType("yml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	var configuration Configuration
	err := viper.Unmarshal(&configuration)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	return &configuration, nil
}
