package ledger

import (
	"testing"

	"github.com/google/uuid"

	"github.com/iwvelando/loan-ledger/pkg/datetime"
	"github.com/iwvelando/loan-ledger/pkg/model"
)

func testLoan() model.Loan {
	return model.Loan{
		ID:                uuid.New(),
		Name:              "test loan",
		Type:              model.LoanTypePersonalLoan,
		OriginalPrincipal: 1000,
		APR:               0.10,
		TermMonths:        12,
		PaymentFrequency:  model.FrequencyMonthly,
		OriginationDate:   datetime.MustParseDate("2024-01-01"),
	}
}

func payment(loanID uuid.UUID, day string, amount float64) model.Payment {
	return model.Payment{
		ID:          uuid.New(),
		LoanRef:     loanID,
		PaymentDate: datetime.MustParseDate(day),
		Amount:      amount,
	}
}

func TestRecalculatePerDiemSplit(t *testing.T) {
	loan := testLoan()
	payments := []model.Payment{
		payment(loan.ID, "2024-01-11", 100),
		payment(loan.ID, "2024-01-21", 100),
	}

	out, summary := NewEngine(nil).Recalculate(&loan, payments, nil)

	// Ten days of per-diem interest on 1000 at 10%: 2.74.
	if out[0].InterestPortion != 2.74 {
		t.Errorf("first InterestPortion = %.2f, expected 2.74", out[0].InterestPortion)
	}
	if out[0].PrincipalPortion != 97.26 {
		t.Errorf("first PrincipalPortion = %.2f, expected 97.26", out[0].PrincipalPortion)
	}

	// Ten more days on the reduced balance 902.74: 2.47.
	if out[1].InterestPortion != 2.47 {
		t.Errorf("second InterestPortion = %.2f, expected 2.47", out[1].InterestPortion)
	}
	if out[1].PrincipalPortion != 97.53 {
		t.Errorf("second PrincipalPortion = %.2f, expected 97.53", out[1].PrincipalPortion)
	}

	if summary.Balance != 805.21 {
		t.Errorf("summary balance = %.2f, expected 805.21", summary.Balance)
	}
	if summary.ScheduledPosted != 2 {
		t.Errorf("scheduled posted = %d, expected 2", summary.ScheduledPosted)
	}
	// The first period satisfied, so the due pointer moved one month on.
	if summary.NextDueDate.String() != "2024-03-01" {
		t.Errorf("next due = %s, expected 2024-03-01", summary.NextDueDate)
	}
}

func TestRecalculateIdempotent(t *testing.T) {
	loan := testLoan()
	draws := []model.Draw{
		{ID: uuid.New(), LoanRef: loan.ID, DrawDate: datetime.MustParseDate("2024-02-15"), Amount: 500},
	}
	payments := []model.Payment{
		payment(loan.ID, "2024-02-01", 100),
		payment(loan.ID, "2024-03-01", 250),
		payment(loan.ID, "2024-03-20", 75),
	}
	payments[2].PrincipalOnly = true

	engine := NewEngine(nil)
	once, summaryOnce := engine.Recalculate(&loan, payments, draws)
	twice, summaryTwice := engine.Recalculate(&loan, once, draws)

	for i := range once {
		if once[i] != twice[i] {
			t.Errorf("payment %d changed between replays: %+v vs %+v", i, once[i], twice[i])
		}
	}
	if summaryOnce != summaryTwice {
		t.Errorf("summary changed between replays: %+v vs %+v", summaryOnce, summaryTwice)
	}
}

func TestRecalculateConservation(t *testing.T) {
	loan := testLoan()
	payments := []model.Payment{
		payment(loan.ID, "2024-02-01", 87.92),
		payment(loan.ID, "2024-03-01", 87.92),
		payment(loan.ID, "2024-03-15", 200),
		payment(loan.ID, "2024-04-01", 87.92),
	}
	payments[2].PrincipalOnly = true

	out, _ := NewEngine(nil).Recalculate(&loan, payments, nil)

	for i := range out {
		sum := out[i].InterestPortion + out[i].PrincipalPortion
		if sum > out[i].Amount+0.001 {
			t.Errorf("payment %d portions %.2f exceed amount %.2f", i, sum, out[i].Amount)
		}
		if out[i].PrincipalOnly {
			if out[i].InterestPortion != 0 {
				t.Errorf("curtailment carries interest portion %.2f", out[i].InterestPortion)
			}
			if out[i].PrincipalPortion != out[i].Amount {
				t.Errorf("curtailment principal = %.2f, expected full amount %.2f",
					out[i].PrincipalPortion, out[i].Amount)
			}
		} else if sum < out[i].Amount-0.001 {
			t.Errorf("scheduled payment %d portions %.2f fall short of amount %.2f", i, sum, out[i].Amount)
		}
	}
}

func TestRecalculateGraceBoundary(t *testing.T) {
	base := testLoan()
	base.GraceDays = 10

	// Exactly on the grace boundary: per-diem interest only, no penalty.
	onBoundary := []model.Payment{payment(base.ID, "2024-02-11", 100)}
	out, _ := NewEngine(nil).Recalculate(&base, onBoundary, nil)
	// 41 days of per-diem interest on 1000 at 10%: 11.23.
	if out[0].InterestPortion != 11.23 {
		t.Errorf("on-boundary InterestPortion = %.2f, expected 11.23 with zero late interest", out[0].InterestPortion)
	}

	// One day past grace: one extra per-diem day plus one day of APR/360
	// penalty on the balance.
	lateDay := []model.Payment{payment(base.ID, "2024-02-12", 100)}
	out, _ = NewEngine(nil).Recalculate(&base, lateDay, nil)
	// 42 days regular (11.51) + 1 late day (0.28).
	if out[0].InterestPortion != 11.79 {
		t.Errorf("one-day-late InterestPortion = %.2f, expected 11.79", out[0].InterestPortion)
	}
	penalty := 1000 * 0.10 / 360
	if out[0].InterestPortion-11.51 < penalty-0.001 {
		t.Errorf("late charge %.4f smaller than one day at APR/360 (%.4f)",
			out[0].InterestPortion-11.51, penalty)
	}
}

func TestRecalculateDrawRaisesBalance(t *testing.T) {
	loan := testLoan()
	loan.Type = model.LoanTypeRevolvingLOC
	loan.OriginalPrincipal = 500

	draws := []model.Draw{
		{ID: uuid.New(), LoanRef: loan.ID, DrawDate: datetime.MustParseDate("2024-01-15"), Amount: 500},
	}
	payments := []model.Payment{payment(loan.ID, "2024-02-01", 100)}

	out, summary := NewEngine(nil).Recalculate(&loan, payments, draws)

	// The span before the draw is priced at the pre-draw balance: 14 days
	// at 500 (1.92) plus 17 days at 1000 (4.66). Charging all 31 days at
	// the post-draw balance would give 8.49.
	if out[0].InterestPortion != 6.58 {
		t.Errorf("InterestPortion = %.2f, expected 6.58", out[0].InterestPortion)
	}
	if out[0].PrincipalPortion != 93.42 {
		t.Errorf("PrincipalPortion = %.2f, expected 93.42", out[0].PrincipalPortion)
	}
	if summary.Balance != 906.58 {
		t.Errorf("summary balance = %.2f, expected 906.58", summary.Balance)
	}
}

func TestRecalculateCurtailmentSkipsInterest(t *testing.T) {
	loan := testLoan()
	curtailment := payment(loan.ID, "2024-01-20", 300)
	curtailment.PrincipalOnly = true
	payments := []model.Payment{
		curtailment,
		payment(loan.ID, "2024-02-01", 100),
	}

	out, _ := NewEngine(nil).Recalculate(&loan, payments, nil)

	if out[0].InterestPortion != 0 || out[0].PrincipalPortion != 300 {
		t.Errorf("curtailment portions = %.2f/%.2f, expected 0/300",
			out[0].InterestPortion, out[0].PrincipalPortion)
	}
	// The curtailment closes its accrual span at the pre-curtailment
	// balance: 19 days at 1000 (5.21) plus 12 days at 700 (2.30), all
	// collected by the scheduled payment.
	if out[1].InterestPortion != 7.51 {
		t.Errorf("scheduled InterestPortion = %.2f, expected 7.51", out[1].InterestPortion)
	}
	if out[1].PrincipalPortion != 92.49 {
		t.Errorf("scheduled PrincipalPortion = %.2f, expected 92.49", out[1].PrincipalPortion)
	}
}

func TestRecalculateClampsOverpayment(t *testing.T) {
	loan := testLoan()
	payments := []model.Payment{payment(loan.ID, "2024-02-01", 5000)}

	out, summary := NewEngine(nil).Recalculate(&loan, payments, nil)

	// 31 days of interest (8.49), the rest capped at the balance.
	if out[0].InterestPortion != 8.49 {
		t.Errorf("InterestPortion = %.2f, expected 8.49", out[0].InterestPortion)
	}
	if out[0].PrincipalPortion != 1000 {
		t.Errorf("PrincipalPortion = %.2f, expected capped 1000", out[0].PrincipalPortion)
	}
	if summary.Balance != 0 {
		t.Errorf("balance = %.2f, expected 0", summary.Balance)
	}
}

func TestRecalculateOtherLoansPassThrough(t *testing.T) {
	loan := testLoan()
	other := payment(uuid.New(), "2024-02-01", 100)
	other.InterestPortion = 42.42
	other.PrincipalPortion = 1.01
	payments := []model.Payment{
		other,
		payment(loan.ID, "2024-02-01", 100),
	}

	out, _ := NewEngine(nil).Recalculate(&loan, payments, nil)

	if out[0].InterestPortion != 42.42 || out[0].PrincipalPortion != 1.01 {
		t.Errorf("other loan's payment was touched: %+v", out[0])
	}
}

func TestRecalculateEscrowCarveOut(t *testing.T) {
	loan := testLoan()
	loan.EscrowMonthly = 20
	payments := []model.Payment{payment(loan.ID, "2024-02-01", 120)}

	out, _ := NewEngine(nil).Recalculate(&loan, payments, nil)

	if out[0].EscrowPortion != 20 {
		t.Errorf("EscrowPortion = %.2f, expected 20", out[0].EscrowPortion)
	}
	// 31 days of interest on 1000 at 10% from the remaining 100.
	if out[0].InterestPortion != 8.49 {
		t.Errorf("InterestPortion = %.2f, expected 8.49", out[0].InterestPortion)
	}
	if out[0].PrincipalPortion != 91.51 {
		t.Errorf("PrincipalPortion = %.2f, expected 91.51", out[0].PrincipalPortion)
	}
}

func TestRecalculateEscrowOncePerPeriod(t *testing.T) {
	loan := testLoan()
	loan.EscrowMonthly = 20
	payments := []model.Payment{
		payment(loan.ID, "2024-01-10", 120),
		payment(loan.ID, "2024-01-20", 120),
	}

	out, summary := NewEngine(nil).Recalculate(&loan, payments, nil)

	if out[0].EscrowPortion != 20 {
		t.Errorf("first EscrowPortion = %.2f, expected 20", out[0].EscrowPortion)
	}
	// The period's escrow is already covered; the second payment carves
	// nothing further.
	if out[1].EscrowPortion != 0 {
		t.Errorf("second EscrowPortion = %.2f, expected 0", out[1].EscrowPortion)
	}
	if out[1].InterestPortion != 2.47 || out[1].PrincipalPortion != 117.53 {
		t.Errorf("second payment portions = %.2f/%.2f, expected 2.47/117.53",
			out[1].InterestPortion, out[1].PrincipalPortion)
	}
	if summary.EscrowPaid != 20 {
		t.Errorf("summary escrow = %.2f, expected 20", summary.EscrowPaid)
	}
}

func TestRecalculateZeroDatePaymentSkipped(t *testing.T) {
	loan := testLoan()
	undated := model.Payment{
		ID:               uuid.New(),
		LoanRef:          loan.ID,
		Amount:           100,
		InterestPortion:  9.99,
		PrincipalPortion: 90.01,
	}
	payments := []model.Payment{undated, payment(loan.ID, "2024-02-01", 100)}

	out, summary := NewEngine(nil).Recalculate(&loan, payments, nil)

	if out[0].InterestPortion != 0 || out[0].PrincipalPortion != 0 {
		t.Errorf("undated payment retained portions: %+v", out[0])
	}
	if summary.ScheduledPosted != 1 {
		t.Errorf("scheduled posted = %d, expected 1", summary.ScheduledPosted)
	}
}

func TestRecalculateAll(t *testing.T) {
	loanA := testLoan()
	loanB := testLoan()
	loanB.ID = uuid.New()
	loanB.OriginalPrincipal = 2000

	payments := []model.Payment{
		payment(loanA.ID, "2024-01-11", 100),
		payment(loanB.ID, "2024-01-11", 100),
	}

	out, summaries := NewEngine(nil).RecalculateAll([]model.Loan{loanA, loanB}, payments, nil)

	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}
	if out[0].InterestPortion != 2.74 {
		t.Errorf("loan A InterestPortion = %.2f, expected 2.74", out[0].InterestPortion)
	}
	// Same ten days on twice the balance.
	if out[1].InterestPortion != 5.48 {
		t.Errorf("loan B InterestPortion = %.2f, expected 5.48", out[1].InterestPortion)
	}
	if summaries[loanA.ID].Balance != 902.74 {
		t.Errorf("loan A balance = %.2f, expected 902.74", summaries[loanA.ID].Balance)
	}
	if summaries[loanB.ID].Balance != 1905.48 {
		t.Errorf("loan B balance = %.2f, expected 1905.48", summaries[loanB.ID].Balance)
	}
}
