package validation

import (
	"testing"

	"github.com/google/uuid"

	"github.com/iwvelando/loan-ledger/pkg/datetime"
	"github.com/iwvelando/loan-ledger/pkg/model"
)

func TestValidateOutputFormat(t *testing.T) {
	for _, format := range []string{"pretty", "csv"} {
		if err := ValidateOutputFormat(format); err != nil {
			t.Errorf("ValidateOutputFormat(%q) error: %v", format, err)
		}
	}
	if err := ValidateOutputFormat("json"); err == nil {
		t.Error("ValidateOutputFormat(\"json\") expected error")
	}
}

func TestValidateLoan(t *testing.T) {
	good := model.Loan{
		Name:              "fine",
		OriginalPrincipal: 1000,
		APR:               0.05,
		TermMonths:        12,
		OriginationDate:   datetime.MustParseDate("2024-01-01"),
	}
	if warnings := ValidateLoan(&good); len(warnings) != 0 {
		t.Errorf("valid loan produced warnings: %v", warnings)
	}

	bad := model.Loan{
		Name:              "broken",
		OriginalPrincipal: -5,
		APR:               -0.01,
		TermMonths:        0,
		GraceDays:         -1,
	}
	if warnings := ValidateLoan(&bad); len(warnings) != 5 {
		t.Errorf("expected 5 warnings, got %d: %v", len(warnings), ValidateLoan(&bad))
	}
}

func TestValidatePayments(t *testing.T) {
	payments := []model.Payment{
		{ID: uuid.New(), Amount: 100, PaymentDate: datetime.MustParseDate("2024-02-01")},
		{ID: uuid.New(), Amount: 0, PaymentDate: datetime.MustParseDate("2024-02-01")},
		{ID: uuid.New(), Amount: 100},
	}
	if warnings := ValidatePayments(payments); len(warnings) != 2 {
		t.Errorf("expected 2 warnings, got %v", warnings)
	}
}

func TestValidateDraws(t *testing.T) {
	draws := []model.Draw{
		{ID: uuid.New(), Amount: 500, DrawDate: datetime.MustParseDate("2024-02-01")},
		{ID: uuid.New(), Amount: -1, DrawDate: datetime.MustParseDate("2024-02-01")},
		{ID: uuid.New(), Amount: 500},
	}
	if warnings := ValidateDraws(draws); len(warnings) != 2 {
		t.Errorf("expected 2 warnings, got %v", warnings)
	}
}
