// Package validation provides caller-side input checks. The recalculation
// engine clamps rather than validates, so malformed amounts and dates are
// expected to be caught here before invocation.
package validation

import (
	"fmt"

	"github.com/iwvelando/loan-ledger/pkg/constants"
	"github.com/iwvelando/loan-ledger/pkg/model"
)

// ValidateOutputFormat checks if the output format is one of the supported
// formats.
func ValidateOutputFormat(format string) error {
	if format != constants.OutputFormatPretty && format != constants.OutputFormatCSV {
		return fmt.Errorf("expected output format of %s or %s, got %s",
			constants.OutputFormatPretty, constants.OutputFormatCSV, format)
	}
	return nil
}

// ValidateLoan returns warnings for loan terms the engine would mishandle.
func ValidateLoan(loan *model.Loan) []string {
	var warnings []string
	if loan.APR < 0 {
		warnings = append(warnings, fmt.Sprintf("loan %s has negative APR %.4f", loan.Name, loan.APR))
	}
	if loan.TermMonths < 1 {
		warnings = append(warnings, fmt.Sprintf("loan %s has term of %d months; expected at least 1", loan.Name, loan.TermMonths))
	}
	if loan.OriginalPrincipal < 0 {
		warnings = append(warnings, fmt.Sprintf("loan %s has negative principal %.2f", loan.Name, loan.OriginalPrincipal))
	}
	if loan.OriginationDate.IsZero() {
		warnings = append(warnings, fmt.Sprintf("loan %s has no origination date", loan.Name))
	}
	if loan.GraceDays < 0 {
		warnings = append(warnings, fmt.Sprintf("loan %s has negative grace days %d", loan.Name, loan.GraceDays))
	}
	return warnings
}

// ValidatePayments returns warnings for payments the engine would skip or
// clamp.
func ValidatePayments(payments []model.Payment) []string {
	var warnings []string
	for i := range payments {
		if payments[i].Amount <= 0 {
			warnings = append(warnings, fmt.Sprintf("payment %s has non-positive amount %.2f", payments[i].ID, payments[i].Amount))
		}
		if payments[i].PaymentDate.IsZero() {
			warnings = append(warnings, fmt.Sprintf("payment %s has no usable date and will carry no portions", payments[i].ID))
		}
	}
	return warnings
}

// ValidateDraws returns warnings for draws the engine would skip.
func ValidateDraws(draws []model.Draw) []string {
	var warnings []string
	for i := range draws {
		if draws[i].Amount <= 0 {
			warnings = append(warnings, fmt.Sprintf("draw %s has non-positive amount %.2f", draws[i].ID, draws[i].Amount))
		}
		if draws[i].DrawDate.IsZero() {
			warnings = append(warnings, fmt.Sprintf("draw %s has no usable date and will be ignored", draws[i].ID))
		}
	}
	return warnings
}
