package projection

import (
	"github.com/rickb777/date"

	"github.com/iwvelando/loan-ledger/pkg/constants"
	"github.com/iwvelando/loan-ledger/pkg/datetime"
	"github.com/iwvelando/loan-ledger/pkg/mathutil"
	"github.com/iwvelando/loan-ledger/pkg/model"
)

// Materialize resolves extra-payment rules into a date -> amount map.
//
// One-time rules snap forward to the nearest scheduled due date on or after
// their own date so extras always land on a billing boundary. Month and year
// recurrences are phase-aligned the same way, stepping along the anchor's
// schedule; day and week recurrences are not aligned and simply step from
// their own start date. Rules dated before startDue and occurrences beyond
// the recurrence horizon are ignored; amounts landing on the same date sum.
func Materialize(rules []model.ExtraPaymentRule, startDue date.Date, freq model.Frequency) map[date.Date]float64 {
	horizon := datetime.AddMonths(startDue, constants.MonthsPerYear*constants.MaxRecurrenceYears)
	extras := make(map[date.Date]float64)

	add := func(d date.Date, amount float64) {
		if d.Before(startDue) || d.After(horizon) {
			return
		}
		extras[d] = mathutil.Round(extras[d] + amount)
	}

	for _, rule := range rules {
		if rule.Amount <= 0 || rule.Start.IsZero() {
			continue
		}
		switch rule.Every {
		case model.RecurrenceNone:
			if rule.Start.Before(startDue) || rule.Start.After(horizon) {
				continue
			}
			add(snapToSchedule(rule.Start, startDue, freq, horizon), rule.Amount)

		case model.RecurrenceMonth:
			// Offsets are taken from the anchor every time; stepping the
			// previous occurrence would drift after a month-end clamp
			// (Jan 31, Feb 29, then Mar 29 instead of Mar 31).
			for k := 0; ; k++ {
				d := datetime.AddMonths(startDue, k)
				if d.After(horizon) {
					break
				}
				if !d.Before(rule.Start) {
					add(snapToSchedule(d, startDue, freq, horizon), rule.Amount)
				}
			}

		case model.RecurrenceYear:
			for k := 0; ; k++ {
				d := datetime.AddMonths(startDue, constants.MonthsPerYear*k)
				if d.After(horizon) {
					break
				}
				if !d.Before(rule.Start) {
					add(snapToSchedule(d, startDue, freq, horizon), rule.Amount)
				}
			}

		case model.RecurrenceDay:
			for d := rule.Start; !d.After(horizon); d = datetime.AddDays(d, 1) {
				add(d, rule.Amount)
			}

		case model.RecurrenceWeek:
			for d := rule.Start; !d.After(horizon); d = datetime.AddDays(d, 7) {
				add(d, rule.Amount)
			}
		}
	}
	return extras
}

// snapToSchedule returns the first scheduled due date on or after d, walking
// the schedule anchored at startDue.
func snapToSchedule(d, startDue date.Date, freq model.Frequency, horizon date.Date) date.Date {
	due := startDue
	for k := 1; due.Before(d) && !due.After(horizon); k++ {
		due = freq.Advance(startDue, k)
	}
	return due
}
