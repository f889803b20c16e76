package projection

import (
	"fmt"

	"github.com/rickb777/date"
	"go.uber.org/zap"

	"github.com/iwvelando/loan-ledger/pkg/amort"
	"github.com/iwvelando/loan-ledger/pkg/constants"
	"github.com/iwvelando/loan-ledger/pkg/mathutil"
	"github.com/iwvelando/loan-ledger/pkg/model"
	"github.com/iwvelando/loan-ledger/pkg/timeline"
)

// ProjectPeriods simulates payoff period by period: each period accrues a
// flat interest charge of balance*APR/periodsPerYear, pays the scheduled
// amount fixed off the starting balance, and applies any extra principal
// materialized onto that due date. Escrow is excluded; the projection covers
// principal and interest only.
func (p *Projector) ProjectPeriods(loan *model.Loan, balance float64, startDue date.Date, rules []model.ExtraPaymentRule, opts Options) timeline.Result {
	result := timeline.Result{BalanceEnd: balance}
	if balance <= constants.CurrencyTolerance || startDue.IsZero() {
		return result
	}

	extras := Materialize(rules, startDue, loan.PaymentFrequency)
	scheduledPI := amort.ScheduledPI(loan, balance)
	ppy := float64(loan.PaymentFrequency.PeriodsPerYear())
	limit := p.ceiling(opts.RemainingPeriods)

	b := balance
	cumPaid, cumInterest, cumPrincipal := 0.0, 0.0, 0.0
	for i := 0; i < limit; i++ {
		due := loan.PaymentFrequency.Advance(startDue, i)

		interest := mathutil.Round(b * loan.APR / ppy)
		principal := mathutil.Round(scheduledPI - interest)
		if principal < 0 {
			principal = 0
		}
		principal = mathutil.Round(principal + extras[due])
		// The final period pays no more than the remaining balance.
		if principal > b {
			principal = mathutil.Round(b)
		}
		payment := mathutil.Round(interest + principal)
		b = mathutil.Round(b - principal)
		paidOff := b <= constants.CurrencyTolerance
		if paidOff {
			b = 0
		}

		cumPaid = mathutil.Round(cumPaid + payment)
		cumInterest = mathutil.Round(cumInterest + interest)
		cumPrincipal = mathutil.Round(cumPrincipal + principal)

		result.Rows = append(result.Rows, timeline.Row{
			Date:                due,
			Payment:             payment,
			Interest:            interest,
			Principal:           principal,
			Balance:             b,
			CumulativePaid:      cumPaid,
			CumulativeInterest:  cumInterest,
			CumulativePrincipal: cumPrincipal,
		})

		if paidOff {
			result.PayoffDate = due
			break
		}
	}

	if result.PayoffDate.IsZero() && b > constants.CurrencyTolerance {
		p.logger.Debug(fmt.Sprintf("loan %s: projection hit %d-period ceiling with balance %.2f", loan.Name, limit, b),
			zap.String("op", "projection.ProjectPeriods"),
		)
	}

	result.BalanceEnd = b
	result.Totals = timeline.Totals{
		TotalPaid:      cumPaid,
		TotalInterest:  cumInterest,
		TotalPrincipal: cumPrincipal,
	}
	return result
}
