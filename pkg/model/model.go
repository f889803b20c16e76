// Package model defines the core entities serviced by the loan-ledger engine:
// loans, their payment and draw histories, and the extra-payment rules used by
// what-if projections. The engine never stores these; callers pass collections
// in and receive derived collections back.
package model

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rickb777/date"

	"github.com/iwvelando/loan-ledger/pkg/constants"
	"github.com/iwvelando/loan-ledger/pkg/datetime"
)

// Frequency is how often a scheduled installment falls due.
type Frequency int

const (
	FrequencyMonthly Frequency = iota
	FrequencyBiweekly
	FrequencyWeekly
	FrequencyQuarterly
	FrequencyAnnual
)

// PeriodsPerYear returns the number of billing periods per year for the
// frequency.
func (f Frequency) PeriodsPerYear() int {
	switch f {
	case FrequencyBiweekly:
		return 26
	case FrequencyWeekly:
		return 52
	case FrequencyQuarterly:
		return 4
	case FrequencyAnnual:
		return 1
	default:
		return 12
	}
}

// Advance steps a date forward by n billing periods. Month-based frequencies
// clamp the day of month (Jan 31 + 1 month = Feb 28/29); day-based frequencies
// step by a fixed number of days.
func (f Frequency) Advance(d date.Date, n int) date.Date {
	switch f {
	case FrequencyBiweekly:
		return datetime.AddDays(d, 14*n)
	case FrequencyWeekly:
		return datetime.AddDays(d, 7*n)
	case FrequencyQuarterly:
		return datetime.AddMonths(d, 3*n)
	case FrequencyAnnual:
		return datetime.AddMonths(d, constants.MonthsPerYear*n)
	default:
		return datetime.AddMonths(d, n)
	}
}

func (f Frequency) String() string {
	switch f {
	case FrequencyBiweekly:
		return "biweekly"
	case FrequencyWeekly:
		return "weekly"
	case FrequencyQuarterly:
		return "quarterly"
	case FrequencyAnnual:
		return "annual"
	default:
		return "monthly"
	}
}

// ParseFrequency converts a config string into a Frequency.
func ParseFrequency(value string) (Frequency, error) {
	switch value {
	case "", "monthly":
		return FrequencyMonthly, nil
	case "biweekly":
		return FrequencyBiweekly, nil
	case "weekly":
		return FrequencyWeekly, nil
	case "quarterly":
		return FrequencyQuarterly, nil
	case "annual", "yearly":
		return FrequencyAnnual, nil
	default:
		return FrequencyMonthly, fmt.Errorf("unknown payment frequency %q", value)
	}
}

// LoanType distinguishes the payment rules applied to a loan.
type LoanType int

const (
	LoanTypeMortgage LoanType = iota
	LoanTypeCarLoan
	LoanTypePersonalLoan
	LoanTypeRevolvingLOC
	LoanTypeCreditCard
)

// Amortizing reports whether the loan carries a fixed principal-and-interest
// payment derived from its original terms. Revolving types instead owe a
// minimum recomputed from the current balance.
func (t LoanType) Amortizing() bool {
	switch t {
	case LoanTypeRevolvingLOC, LoanTypeCreditCard:
		return false
	default:
		return true
	}
}

func (t LoanType) String() string {
	switch t {
	case LoanTypeCarLoan:
		return "car loan"
	case LoanTypePersonalLoan:
		return "personal loan"
	case LoanTypeRevolvingLOC:
		return "revolving loc"
	case LoanTypeCreditCard:
		return "credit card"
	default:
		return "mortgage"
	}
}

// ParseLoanType converts a config string into a LoanType.
func ParseLoanType(value string) (LoanType, error) {
	switch value {
	case "", "mortgage":
		return LoanTypeMortgage, nil
	case "car loan", "car":
		return LoanTypeCarLoan, nil
	case "personal loan", "personal":
		return LoanTypePersonalLoan, nil
	case "revolving", "revolving loc", "loc", "line of credit":
		return LoanTypeRevolvingLOC, nil
	case "credit card":
		return LoanTypeCreditCard, nil
	default:
		return LoanTypeMortgage, fmt.Errorf("unknown loan type %q", value)
	}
}

// Loan holds a loan's contractual terms. Payments and Draws reference it by
// id; a Loan owns no other entities.
type Loan struct {
	ID                uuid.UUID
	Name              string
	OriginalPrincipal float64
	APR               float64 // nominal annual rate as a decimal, e.g. 0.065
	TermMonths        int
	PaymentFrequency  Frequency
	Type              LoanType
	OriginationDate   date.Date
	NextPaymentDate   date.Date // current due date pointer; zero derives from origination
	GraceDays         int
	EscrowMonthly     float64
}

// TermPeriods converts the loan's term in months into a count of billing
// periods at its payment frequency.
func (l *Loan) TermPeriods() int {
	return l.TermMonths * l.PaymentFrequency.PeriodsPerYear() / constants.MonthsPerYear
}

// DueAnchor returns the due date the next unsatisfied billing period hangs
// off: the explicit NextPaymentDate when present, otherwise one period after
// origination.
func (l *Loan) DueAnchor() date.Date {
	if !l.NextPaymentDate.IsZero() {
		return l.NextPaymentDate
	}
	return l.PaymentFrequency.Advance(l.OriginationDate, 1)
}

// Payment is a single posted payment against a loan. The three portion fields
// are derived by the recalculation engine and overwritten on every replay;
// callers must never patch them incrementally.
type Payment struct {
	ID          uuid.UUID
	LoanRef     uuid.UUID
	PaymentDate date.Date
	Amount      float64

	// PrincipalOnly marks an unscheduled curtailment: the entire amount
	// reduces principal and the payment never satisfies period interest.
	// The zero value is a regular scheduled installment.
	PrincipalOnly bool

	InterestPortion  float64
	PrincipalPortion float64
	EscrowPortion    float64
}

// Draw is a balance-increasing disbursement against a revolving loan.
type Draw struct {
	ID       uuid.UUID
	LoanRef  uuid.UUID
	DrawDate date.Date
	Amount   float64
}

// Recurrence is the cadence of a recurring extra-payment rule.
type Recurrence int

const (
	RecurrenceNone Recurrence = iota // one-time rule
	RecurrenceDay
	RecurrenceWeek
	RecurrenceMonth
	RecurrenceYear
)

func (r Recurrence) String() string {
	switch r {
	case RecurrenceDay:
		return "day"
	case RecurrenceWeek:
		return "week"
	case RecurrenceMonth:
		return "month"
	case RecurrenceYear:
		return "year"
	default:
		return "once"
	}
}

// ParseRecurrence converts a config string into a Recurrence.
func ParseRecurrence(value string) (Recurrence, error) {
	switch value {
	case "", "once":
		return RecurrenceNone, nil
	case "day", "daily":
		return RecurrenceDay, nil
	case "week", "weekly":
		return RecurrenceWeek, nil
	case "month", "monthly":
		return RecurrenceMonth, nil
	case "year", "yearly", "annual":
		return RecurrenceYear, nil
	default:
		return RecurrenceNone, fmt.Errorf("unknown recurrence %q", value)
	}
}

// ExtraPaymentRule describes hypothetical extra principal for projections.
// A one-time rule (Every == RecurrenceNone) fires once at Start; a recurring
// rule fires every Every starting at Start. Rules never mutate historical
// payments.
type ExtraPaymentRule struct {
	Amount float64
	Every  Recurrence
	Start  date.Date
}
