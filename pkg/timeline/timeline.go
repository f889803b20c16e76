// Package timeline defines projection timeline rows and rolls them up into
// monthly or yearly buckets.
package timeline

import (
	"fmt"
	"sort"

	"github.com/rickb777/date"

	"github.com/iwvelando/loan-ledger/pkg/datetime"
	"github.com/iwvelando/loan-ledger/pkg/mathutil"
)

// Row is one event in a projected payoff schedule, with running totals.
type Row struct {
	Date                date.Date
	Payment             float64
	Interest            float64
	Principal           float64
	Balance             float64
	CumulativePaid      float64
	CumulativeInterest  float64
	CumulativePrincipal float64
}

// Totals are the lifetime sums of a projection.
type Totals struct {
	TotalPaid      float64
	TotalInterest  float64
	TotalPrincipal float64
}

// Result is a complete what-if projection. A zero PayoffDate together with a
// positive BalanceEnd means the projection hit its iteration ceiling without
// paying off; it is not a truncated payoff.
type Result struct {
	Rows       []Row
	PayoffDate date.Date
	Totals     Totals
	BalanceEnd float64
}

// GroupMode selects the aggregation bucket size.
type GroupMode int

const (
	GroupMonthly GroupMode = iota
	GroupYearly
)

// ParseGroupMode converts a config string into a GroupMode.
func ParseGroupMode(value string) (GroupMode, error) {
	switch value {
	case "", "monthly":
		return GroupMonthly, nil
	case "yearly", "annual":
		return GroupYearly, nil
	default:
		return GroupMonthly, fmt.Errorf("unknown grouping %q", value)
	}
}

// Bucket is one aggregated slice of a timeline. The paid/interest/principal
// figures are deltas of the cumulative running totals between the last row of
// the previous bucket and the last row of this one, so partial-period rows
// never double-count. EndingBalance is the balance of the bucket's last row.
type Bucket struct {
	Key           string
	Paid          float64
	Interest      float64
	Principal     float64
	EndingBalance float64
}

// Aggregate rolls a per-event timeline up into monthly or yearly buckets.
// Rows are processed in date order and the cumulative totals are diffed
// against the last value seen before each bucket opened.
func Aggregate(rows []Row, mode GroupMode) []Bucket {
	if len(rows) == 0 {
		return nil
	}

	ordered := make([]Row, len(rows))
	copy(ordered, rows)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date)
	})

	key := func(d date.Date) string {
		if mode == GroupYearly {
			return datetime.YearKey(d)
		}
		return datetime.MonthKey(d)
	}

	var buckets []Bucket
	prevPaid, prevInterest, prevPrincipal := 0.0, 0.0, 0.0
	for _, row := range ordered {
		k := key(row.Date)
		if len(buckets) == 0 || buckets[len(buckets)-1].Key != k {
			if n := len(buckets); n > 0 {
				// The previous bucket is closed; its last row's
				// cumulative totals become the new baseline.
				prevPaid += buckets[n-1].Paid
				prevInterest += buckets[n-1].Interest
				prevPrincipal += buckets[n-1].Principal
			}
			buckets = append(buckets, Bucket{Key: k})
		}
		b := &buckets[len(buckets)-1]
		b.Paid = mathutil.Round(row.CumulativePaid - prevPaid)
		b.Interest = mathutil.Round(row.CumulativeInterest - prevInterest)
		b.Principal = mathutil.Round(row.CumulativePrincipal - prevPrincipal)
		b.EndingBalance = row.Balance
	}

	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].Key < buckets[j].Key
	})
	return buckets
}
