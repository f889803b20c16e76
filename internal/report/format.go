// Package report renders reconciled ledgers and what-if projections for
// display.
package report

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/rickb777/date"

	"github.com/iwvelando/loan-ledger/pkg/ledger"
	"github.com/iwvelando/loan-ledger/pkg/model"
	"github.com/iwvelando/loan-ledger/pkg/timeline"
)

// LoanReport bundles everything rendered for one loan.
type LoanReport struct {
	Loan       *model.Loan
	Payments   []model.Payment // this loan's payments, in date order
	Summary    ledger.Summary
	PayoffDate date.Date
	Projection timeline.Result
	Buckets    []timeline.Bucket
}

func money(value float64) string {
	return humanize.FormatFloat("#,###.##", value)
}

func formatDate(d date.Date) string {
	if d.IsZero() {
		return "n/a"
	}
	return d.String()
}

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(reports []LoanReport) {
	for _, report := range reports {
		fmt.Printf("--- Loan %s (%s) ---\n", report.Loan.Name, report.Loan.Type)
		fmt.Printf("Balance: $%s | Next due: %s | Estimated payoff: %s\n",
			money(report.Summary.Balance), formatDate(report.Summary.NextDueDate), formatDate(report.PayoffDate))

		fmt.Printf("Date       | Amount        | Interest      | Principal     | Escrow\n")
		fmt.Printf("____       | ______        | ________      | _________     | ______\n")
		for _, payment := range report.Payments {
			note := ""
			if payment.PrincipalOnly {
				note = " (principal only)"
			}
			fmt.Printf("%s | $%s | $%s | $%s | $%s%s\n",
				formatDate(payment.PaymentDate), money(payment.Amount),
				money(payment.InterestPortion), money(payment.PrincipalPortion),
				money(payment.EscrowPortion), note)
		}

		if len(report.Projection.Rows) > 0 {
			fmt.Printf("\nProjection: payoff %s | total paid $%s | total interest $%s\n",
				formatDate(report.Projection.PayoffDate),
				money(report.Projection.Totals.TotalPaid),
				money(report.Projection.Totals.TotalInterest))
			if report.Projection.PayoffDate.IsZero() && report.Projection.BalanceEnd > 0 {
				fmt.Printf("Projection never reaches payoff; ending balance $%s\n",
					money(report.Projection.BalanceEnd))
			}
		}
		for _, bucket := range report.Buckets {
			fmt.Printf("%s | paid $%s | interest $%s | principal $%s | balance $%s\n",
				bucket.Key, money(bucket.Paid), money(bucket.Interest),
				money(bucket.Principal), money(bucket.EndingBalance))
		}

		if len(reports) > 1 {
			fmt.Printf("\n")
		}
	}
}

// CsvFormat outputs in comma-separated value format.
func CsvFormat(reports []LoanReport) {
	fmt.Printf("\"loan\",\"date\",\"amount\",\"interest\",\"principal\",\"escrow\",\"flags\"\n")
	for _, report := range reports {
		for _, payment := range report.Payments {
			var flags []string
			if payment.PrincipalOnly {
				flags = append(flags, "principal-only")
			}
			fmt.Printf("\"%s\",\"%s\",\"%.2f\",\"%.2f\",\"%.2f\",\"%.2f\",\"%s\"\n",
				report.Loan.Name, formatDate(payment.PaymentDate), payment.Amount,
				payment.InterestPortion, payment.PrincipalPortion, payment.EscrowPortion,
				strings.Join(flags, ","))
		}
		for _, row := range report.Projection.Rows {
			fmt.Printf("\"%s projection\",\"%s\",\"%.2f\",\"%.2f\",\"%.2f\",\"%.2f\",\"\"\n",
				report.Loan.Name, formatDate(row.Date), row.Payment, row.Interest,
				row.Principal, row.Balance)
		}
	}
}
