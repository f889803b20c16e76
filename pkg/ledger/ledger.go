// Package ledger implements the recalculation engine: it replays a loan's
// full event history (payments and draws in chronological order) through a
// per-period interest-accrual state machine and reassigns the interest,
// principal, and escrow portions of every payment. The replay is the system
// of record for what each historical payment actually paid; callers must
// rerun it after every mutation to the loan or its events rather than
// patching derived fields incrementally.
package ledger

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/rickb777/date"
	"go.uber.org/zap"

	"github.com/iwvelando/loan-ledger/pkg/amort"
	"github.com/iwvelando/loan-ledger/pkg/constants"
	"github.com/iwvelando/loan-ledger/pkg/datetime"
	"github.com/iwvelando/loan-ledger/pkg/mathutil"
	"github.com/iwvelando/loan-ledger/pkg/model"
)

// Summary reports the reconciled state of one loan after a full replay.
// Downstream operations (payoff estimation, projections) start from these
// values rather than re-deriving them.
type Summary struct {
	LoanID          uuid.UUID
	Balance         float64
	NextDueDate     date.Date
	ScheduledPosted int // scheduled installments applied during the replay
	InterestPaid    float64
	PrincipalPaid   float64
	EscrowPaid      float64
}

// period is one billing cycle between two due dates. The scheduled interest
// is fixed when the period opens, from the balance as it stands then; the
// outstanding figure additionally absorbs per-diem and late accrual.
type period struct {
	start               date.Date
	due                 date.Date
	scheduledInterest   float64
	requiredPrincipal   float64
	interestOutstanding float64
	principalPaid       float64
	escrowPaid          float64
	satisfied           bool
}

// Engine recalculates loan ledgers.
type Engine struct {
	logger *zap.Logger
}

// NewEngine creates a recalculation engine. If logger is nil a no-op logger
// is used.
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger}
}

// event is one entry in a loan's merged chronological history.
type event struct {
	date    date.Date
	payment *model.Payment // nil for draws
	draw    *model.Draw    // nil for payments
	seq     int            // original collection position, for same-day ties
}

// Recalculate replays the given loan's full history and returns the complete
// payment collection with this loan's portions recomputed; payments belonging
// to other loans pass through untouched. The replay is a pure function of its
// inputs, so recalculating an already-recalculated ledger reproduces
// identical portions.
func (e *Engine) Recalculate(loan *model.Loan, payments []model.Payment, draws []model.Draw) ([]model.Payment, Summary) {
	out := make([]model.Payment, len(payments))
	copy(out, payments)

	var events []event
	seq := 0
	for i := range out {
		if out[i].LoanRef != loan.ID {
			continue
		}
		if out[i].PaymentDate.IsZero() {
			// No usable date: the payment cannot participate in the
			// replay and carries no portions.
			out[i].InterestPortion = 0
			out[i].PrincipalPortion = 0
			out[i].EscrowPortion = 0
			continue
		}
		events = append(events, event{date: out[i].PaymentDate, payment: &out[i], seq: seq})
		seq++
	}
	for i := range draws {
		if draws[i].LoanRef != loan.ID || draws[i].DrawDate.IsZero() {
			continue
		}
		events = append(events, event{date: draws[i].DrawDate, draw: &draws[i], seq: seq})
		seq++
	}

	// Chronological order; same-day ties keep collection order, with
	// payments ahead of draws because they were collected first.
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].date.Equal(events[j].date) {
			return events[i].date.Before(events[j].date)
		}
		return events[i].seq < events[j].seq
	})

	summary := e.replay(loan, events)
	return out, summary
}

// replay runs the period state machine over the merged event history and
// returns the reconciled summary. Payment portions are written through the
// event pointers.
func (e *Engine) replay(loan *model.Loan, events []event) Summary {
	balance := loan.OriginalPrincipal
	accruedThrough := loan.OriginationDate
	per := e.openPeriod(loan, balance, loan.OriginationDate, loan.DueAnchor())

	summary := Summary{LoanID: loan.ID}

	// accrueTo charges the span since the last accrual point at the balance
	// as it stands now, so a draw or curtailment closes its span before the
	// balance changes and never reprices days already elapsed.
	accrueTo := func(target date.Date) {
		prevAccrued := accruedThrough

		if days := datetime.DaysBetween(accruedThrough, target); days > 0 {
			charge := mathutil.Round(balance * loan.APR / constants.DaysPerYear * float64(days))
			per.interestOutstanding = mathutil.Round(per.interestOutstanding + charge)
			accruedThrough = target
		}

		// Late interest beyond the grace boundary, charged only for the
		// delinquent span not already covered.
		if !per.satisfied {
			graceEnd := datetime.AddDays(per.due, loan.GraceDays)
			lateFrom := datetime.MaxDate(prevAccrued, graceEnd)
			if lateDays := datetime.DaysBetween(lateFrom, target); lateDays > 0 {
				late := mathutil.Round(balance * loan.APR / constants.DaysPerYear360 * float64(lateDays))
				per.interestOutstanding = mathutil.Round(per.interestOutstanding + late)
				e.logger.Debug(fmt.Sprintf("%s: %d late days accrue %.2f", target, lateDays, late),
					zap.String("op", "ledger.replay"),
				)
			}
		}
	}

	for i := range events {
		ev := &events[i]

		// Advance into the period this event belongs to. A satisfied
		// period closes as soon as an event reaches its due date; the
		// next period's scheduled interest is fixed off the balance as
		// it stands now.
		for per.satisfied && !ev.date.Before(per.due) {
			per = e.openPeriod(loan, balance, per.due, datetime.AddMonths(per.due, 1))
		}

		accrueTo(ev.date)

		switch {
		case ev.draw != nil:
			// Draws raise the balance immediately but do not reopen
			// the period's already-fixed scheduled interest.
			balance = mathutil.Round(balance + ev.draw.Amount)
			e.logger.Debug(fmt.Sprintf("%s: draw %.2f raises balance to %.2f", ev.date, ev.draw.Amount, balance),
				zap.String("op", "ledger.replay"),
			)

		case ev.payment.PrincipalOnly:
			// Curtailment: principal only, capped at the balance. The
			// span just accrued stays outstanding for the next
			// scheduled payment.
			applied := mathutil.Round(mathutil.Min(ev.payment.Amount, balance))
			ev.payment.InterestPortion = 0
			ev.payment.EscrowPortion = 0
			ev.payment.PrincipalPortion = applied
			balance = mathutil.Round(balance - applied)
			summary.PrincipalPaid = mathutil.Round(summary.PrincipalPaid + applied)

		default:
			remaining := ev.payment.Amount

			// Escrow is owed once per billing period; a second payment
			// in the same period carves nothing further.
			escrow := 0.0
			if owed := mathutil.Round(amort.EscrowPerPeriod(loan) - per.escrowPaid); owed > 0 {
				escrow = mathutil.Round(mathutil.Min(owed, remaining))
				remaining = mathutil.Round(remaining - escrow)
				per.escrowPaid = mathutil.Round(per.escrowPaid + escrow)
			}

			interest := mathutil.Round(mathutil.Min(remaining, per.interestOutstanding))
			per.interestOutstanding = mathutil.Round(per.interestOutstanding - interest)
			remaining = mathutil.Round(remaining - interest)

			principal := mathutil.Round(mathutil.Min(remaining, balance))
			balance = mathutil.Round(balance - principal)
			per.principalPaid = mathutil.Round(per.principalPaid + principal)

			ev.payment.EscrowPortion = escrow
			ev.payment.InterestPortion = interest
			ev.payment.PrincipalPortion = principal

			if per.interestOutstanding <= constants.CurrencyTolerance &&
				per.principalPaid+constants.CurrencyTolerance >= per.requiredPrincipal {
				per.satisfied = true
			}

			summary.ScheduledPosted++
			summary.InterestPaid = mathutil.Round(summary.InterestPaid + interest)
			summary.PrincipalPaid = mathutil.Round(summary.PrincipalPaid + principal)
			summary.EscrowPaid = mathutil.Round(summary.EscrowPaid + escrow)
		}
	}

	summary.Balance = balance
	if per.satisfied {
		summary.NextDueDate = datetime.AddMonths(per.due, 1)
	} else {
		summary.NextDueDate = per.due
	}
	return summary
}

// openPeriod fixes a new period's scheduled interest and required principal
// off the balance at the moment the period opens.
func (e *Engine) openPeriod(loan *model.Loan, balance float64, start, due date.Date) period {
	scheduledInterest := mathutil.Round(balance * loan.APR / constants.MonthsPerYear)
	scheduledPI := amort.ScheduledPI(loan, balance)
	return period{
		start:             start,
		due:               due,
		scheduledInterest: scheduledInterest,
		requiredPrincipal: mathutil.Max(0, mathutil.Round(scheduledPI-scheduledInterest)),
	}
}

// RecalculateAll recalculates every loan in a batch. Loans are independent,
// so they run concurrently; the returned payment collection carries the
// recomputed portions for all of them.
func (e *Engine) RecalculateAll(loans []model.Loan, payments []model.Payment, draws []model.Draw) ([]model.Payment, map[uuid.UUID]Summary) {
	out := make([]model.Payment, len(payments))
	copy(out, payments)

	index := make(map[uuid.UUID]int, len(out))
	for i := range out {
		index[out[i].ID] = i
	}

	summaries := make(map[uuid.UUID]Summary, len(loans))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := range loans {
		wg.Add(1)
		go func(loan *model.Loan) {
			defer wg.Done()
			recalced, summary := e.Recalculate(loan, payments, draws)
			mu.Lock()
			defer mu.Unlock()
			for j := range recalced {
				if recalced[j].LoanRef == loan.ID {
					out[index[recalced[j].ID]] = recalced[j]
				}
			}
			summaries[loan.ID] = summary
		}(&loans[i])
	}
	wg.Wait()

	return out, summaries
}
