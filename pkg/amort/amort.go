// Package amort provides the closed-form amortization math and the loan-type
// dispatch for scheduled payment amounts.
package amort

import (
	"math"

	"github.com/iwvelando/loan-ledger/pkg/constants"
	"github.com/iwvelando/loan-ledger/pkg/mathutil"
	"github.com/iwvelando/loan-ledger/pkg/model"
)

// zeroRateEpsilon guards the annuity formula against division blowup when the
// periodic rate is numerically indistinguishable from zero.
const zeroRateEpsilon = 1e-9

// AmortizedPayment computes the level payment that retires principal over
// nPeriods at the given annual rate, via A = P*r*(1+r)^n / ((1+r)^n - 1) with
// r = apr/periodsPerYear. A ~zero rate degrades to principal/nPeriods. The
// result is floored at 0 and rounded to cents.
func AmortizedPayment(principal, apr float64, nPeriods, periodsPerYear int) float64 {
	if nPeriods <= 0 {
		return 0
	}
	r := apr / float64(periodsPerYear)
	var payment float64
	if math.Abs(r) < zeroRateEpsilon {
		payment = principal / float64(nPeriods)
	} else {
		power := math.Pow(1+r, float64(nPeriods))
		payment = principal * r * power / (power - 1)
	}
	if payment < 0 {
		payment = 0
	}
	return mathutil.Round(payment)
}

// FixedPI is the fixed principal-and-interest payment for an amortizing loan,
// computed once from the ORIGINAL principal and ORIGINAL term. It never
// changes as extra payments pay the balance down.
func FixedPI(loan *model.Loan) float64 {
	return AmortizedPayment(loan.OriginalPrincipal, loan.APR, loan.TermPeriods(),
		loan.PaymentFrequency.PeriodsPerYear())
}

// ScheduledPI returns the principal-and-interest portion of the loan's
// scheduled payment, before escrow. Amortizing types owe the fixed PI;
// revolving types owe a minimum recomputed from the given balance.
func ScheduledPI(loan *model.Loan, balance float64) float64 {
	ppy := loan.PaymentFrequency.PeriodsPerYear()
	switch loan.Type {
	case model.LoanTypeRevolvingLOC:
		// Interest-only minimum.
		return mathutil.Round(balance * loan.APR / float64(ppy))
	case model.LoanTypeCreditCard:
		monthlyMin := mathutil.Max(balance*constants.CreditCardMinimumRate,
			constants.CreditCardMinimumFloor)
		return mathutil.Round(monthlyMin * constants.MonthsPerYear / float64(ppy))
	default:
		return FixedPI(loan)
	}
}

// EscrowPerPeriod periodizes the loan's monthly escrow to its payment
// frequency.
func EscrowPerPeriod(loan *model.Loan) float64 {
	if loan.EscrowMonthly <= 0 {
		return 0
	}
	ppy := loan.PaymentFrequency.PeriodsPerYear()
	return mathutil.Round(loan.EscrowMonthly * constants.MonthsPerYear / float64(ppy))
}

// ScheduledPayment is the full scheduled payment for one period: the
// loan-type PI plus periodized escrow.
func ScheduledPayment(loan *model.Loan, balance float64) float64 {
	return mathutil.Round(ScheduledPI(loan, balance) + EscrowPerPeriod(loan))
}
