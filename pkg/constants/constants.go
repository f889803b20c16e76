// Package constants provides shared constants for the loan-ledger engine.
package constants

// DateLayout is the format expected for all dates in config files and is also
// the output date format.
const DateLayout = "2006-01-02"

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DaysPerYear is the day-count basis for per-diem interest accrual
	DaysPerYear = 365

	// DaysPerYear360 is the day-count basis for late-interest accrual
	DaysPerYear360 = 360

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// CreditCardMinimumRate is the fraction of the balance due on a credit card
	// each month
	CreditCardMinimumRate = 0.02

	// CreditCardMinimumFloor is the smallest monthly credit card payment
	CreditCardMinimumFloor = 25.0
)

// Simulation bounds
const (
	// MaxPayoffPeriods bounds the payoff date estimator's forward simulation
	MaxPayoffPeriods = 2000

	// ProjectionCeilingFloor is the minimum iteration ceiling for projections
	ProjectionCeilingFloor = 2400

	// ProjectionCeilingPad is added to the remaining scheduled periods when
	// computing a projection's iteration ceiling
	ProjectionCeilingPad = 120

	// MaxRecurrenceYears bounds how far ahead extra-payment rules materialize
	MaxRecurrenceYears = 100
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
	// DefaultConfigFile is the default portfolio file name
	DefaultConfigFile = "portfolio.yaml"
)

// Validation constants
const (
	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01
)
