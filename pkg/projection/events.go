package projection

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/rickb777/date"
	"go.uber.org/zap"

	"github.com/iwvelando/loan-ledger/pkg/amort"
	"github.com/iwvelando/loan-ledger/pkg/constants"
	"github.com/iwvelando/loan-ledger/pkg/datetime"
	"github.com/iwvelando/loan-ledger/pkg/mathutil"
	"github.com/iwvelando/loan-ledger/pkg/model"
	"github.com/iwvelando/loan-ledger/pkg/timeline"
)

// eventKind orders same-day events: draws first, then extra principal, then
// the base scheduled payment.
type eventKind int

const (
	kindDraw eventKind = iota
	kindExtra
	kindBase
)

type simEvent struct {
	date   date.Date
	kind   eventKind
	amount float64
}

// ProjectEvents simulates payoff event by event: an explicit timeline of base
// scheduled payments, hypothetical draws, and materialized extra-payment
// occurrences is walked in date order, accruing interest daily
// (balance*APR/365) between consecutive events. Base payment amounts are
// recomputed per loan type off the current balance unless Options.FixedPayment
// pins them to the amount scheduled off the starting balance.
func (p *Projector) ProjectEvents(loan *model.Loan, balance float64, startDue date.Date, rules []model.ExtraPaymentRule, opts Options) timeline.Result {
	result := timeline.Result{BalanceEnd: balance}
	if balance <= constants.CurrencyTolerance || startDue.IsZero() {
		return result
	}

	limit := p.ceiling(opts.RemainingPeriods)

	events := make([]simEvent, 0, limit)
	for i := 0; i < limit; i++ {
		events = append(events, simEvent{date: loan.PaymentFrequency.Advance(startDue, i), kind: kindBase})
	}
	for d, amount := range Materialize(rules, startDue, loan.PaymentFrequency) {
		events = append(events, simEvent{date: d, kind: kindExtra, amount: amount})
	}
	for i := range opts.Draws {
		draw := &opts.Draws[i]
		if draw.LoanRef != uuid.Nil && draw.LoanRef != loan.ID {
			continue
		}
		if draw.DrawDate.IsZero() || draw.DrawDate.Before(startDue) {
			continue
		}
		events = append(events, simEvent{date: draw.DrawDate, kind: kindDraw, amount: draw.Amount})
	}

	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].date.Equal(events[j].date) {
			return events[i].date.Before(events[j].date)
		}
		return events[i].kind < events[j].kind
	})

	pinnedPayment := amort.ScheduledPI(loan, balance)
	b := balance
	accrued := 0.0
	prev := startDue
	cumPaid, cumInterest, cumPrincipal := 0.0, 0.0, 0.0

	for _, ev := range events {
		if days := datetime.DaysBetween(prev, ev.date); days > 0 {
			charge := mathutil.Round(b * loan.APR / constants.DaysPerYear * float64(days))
			accrued = mathutil.Round(accrued + charge)
			prev = ev.date
		}

		row := timeline.Row{Date: ev.date}
		switch ev.kind {
		case kindDraw:
			b = mathutil.Round(b + ev.amount)

		case kindExtra:
			applied := mathutil.Round(mathutil.Min(ev.amount, b))
			b = mathutil.Round(b - applied)
			row.Payment = applied
			row.Principal = applied

		case kindBase:
			amount := pinnedPayment
			if !opts.FixedPayment && !loan.Type.Amortizing() {
				amount = amort.ScheduledPI(loan, b)
			}
			interest := mathutil.Round(mathutil.Min(amount, accrued))
			accrued = mathutil.Round(accrued - interest)
			principal := mathutil.Round(mathutil.Min(mathutil.Round(amount-interest), b))
			b = mathutil.Round(b - principal)
			row.Payment = mathutil.Round(interest + principal)
			row.Interest = interest
			row.Principal = principal
		}

		paidOff := b <= constants.CurrencyTolerance && accrued <= constants.CurrencyTolerance
		if paidOff {
			b = 0
		}

		cumPaid = mathutil.Round(cumPaid + row.Payment)
		cumInterest = mathutil.Round(cumInterest + row.Interest)
		cumPrincipal = mathutil.Round(cumPrincipal + row.Principal)
		row.Balance = b
		row.CumulativePaid = cumPaid
		row.CumulativeInterest = cumInterest
		row.CumulativePrincipal = cumPrincipal
		result.Rows = append(result.Rows, row)

		if paidOff {
			result.PayoffDate = ev.date
			break
		}
	}

	if result.PayoffDate.IsZero() && b > constants.CurrencyTolerance {
		p.logger.Debug(fmt.Sprintf("loan %s: event projection exhausted %d events with balance %.2f", loan.Name, len(events), b),
			zap.String("op", "projection.ProjectEvents"),
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
