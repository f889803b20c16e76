// Package payoff estimates when a loan reaches zero balance at its scheduled
// payment, reconciled against the contractual remaining term.
package payoff

import (
	"fmt"

	"github.com/rickb777/date"
	"go.uber.org/zap"

	"github.com/iwvelando/loan-ledger/pkg/amort"
	"github.com/iwvelando/loan-ledger/pkg/constants"
	"github.com/iwvelando/loan-ledger/pkg/mathutil"
	"github.com/iwvelando/loan-ledger/pkg/model"
)

// Estimator computes payoff dates.
type Estimator struct {
	logger *zap.Logger
}

// NewEstimator creates a payoff estimator. If logger is nil a no-op logger
// is used.
func NewEstimator(logger *zap.Logger) *Estimator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Estimator{logger: logger}
}

// Estimate returns the date the loan's balance reaches zero when every future
// period pays the scheduled amount. firstDueDate anchors the schedule: it is
// the loan's first contractual due date, or the zero date to derive it from
// the origination date. The zero date is returned when the balance is already
// paid off or the scheduled payment never amortizes the loan.
func (e *Estimator) Estimate(loan *model.Loan, balance float64, firstDueDate date.Date, payments []model.Payment) date.Date {
	if balance <= constants.CurrencyTolerance {
		return date.Date{}
	}
	if firstDueDate.IsZero() {
		firstDueDate = loan.PaymentFrequency.Advance(loan.OriginationDate, 1)
	}

	ppy := loan.PaymentFrequency.PeriodsPerYear()
	scheduledPI := amort.ScheduledPI(loan, balance)

	// Forward-simulate at the scheduled payment until the final period.
	simulated := 0
	b := balance
	for i := 1; i <= constants.MaxPayoffPeriods; i++ {
		interest := mathutil.Round(b * loan.APR / float64(ppy))
		principal := mathutil.Round(scheduledPI - interest)
		if principal <= 0 {
			// The payment no longer covers interest; the balance can
			// only grow.
			e.logger.Debug(fmt.Sprintf("loan %s: scheduled payment %.2f cannot amortize balance %.2f", loan.Name, scheduledPI, b),
				zap.String("op", "payoff.Estimate"),
			)
			return date.Date{}
		}
		if principal >= b {
			simulated = i
			break
		}
		b = mathutil.Round(b - principal)
	}
	if simulated == 0 {
		return date.Date{}
	}

	scheduledDone := 0
	for i := range payments {
		if payments[i].LoanRef == loan.ID && !payments[i].PrincipalOnly {
			scheduledDone++
		}
	}

	// Within one period of the contractual remaining term, keep the
	// contractual date; rounding in the simulation should not move a
	// healthy loan's payoff around.
	remaining := loan.TermPeriods() - scheduledDone
	finalPeriods := simulated
	if remaining > 0 && abs(simulated-remaining) <= 1 {
		finalPeriods = remaining
	}

	return loan.PaymentFrequency.Advance(firstDueDate, scheduledDone+finalPeriods-1)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
